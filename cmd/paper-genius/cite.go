// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Kr-Amritanshu/Paper-Genius/internal/citation"
	"github.com/Kr-Amritanshu/Paper-Genius/internal/config"
	"github.com/Kr-Amritanshu/Paper-Genius/internal/search"
	"github.com/Kr-Amritanshu/Paper-Genius/pkg/types"
)

var citeCmd = &cobra.Command{
	Use:   "cite <doi|arxiv-id>...",
	Short: "Format citations for DOIs and arXiv IDs",
	Long: `Cite looks up each identifier (CrossRef for DOIs, the arXiv API for arXiv
IDs) and prints a numbered reference list in the chosen citation style, or a
BibTeX bibliography with --bibtex.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		styleFlag, _ := cmd.Flags().GetString("style")
		style, err := types.ParseCitationStyle(styleFlag)
		if err != nil {
			return err
		}

		cfg, err := config.Load(viper.GetViper(), loadedSecrets)
		if err != nil {
			return err
		}

		r := &search.Resolver{Client: &http.Client{Timeout: cfg.Search.Timeout}}
		results, err := r.ResolveAll(cmd.Context(), args, cfg.Search)
		if err != nil {
			return err
		}
		refs := search.ToReferences(results, time.Now().Year())

		if bib, _ := cmd.Flags().GetBool("bibtex"); bib {
			fmt.Fprint(cmd.OutOrStdout(), citation.BibTeX(refs))
			return nil
		}
		for i, ref := range refs {
			line := citation.Format(ref, i, style)
			if style != types.StyleIEEE {
				line = citation.Label(i) + " " + line
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

func init() {
	citeCmd.Flags().String("style", "APA", "citation style: APA, IEEE, or MLA")
	citeCmd.Flags().Bool("bibtex", false, "print a BibTeX bibliography instead")

	rootCmd.AddCommand(citeCmd)
}
