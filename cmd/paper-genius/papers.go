// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/Kr-Amritanshu/Paper-Genius/internal/pipeline"
	"github.com/Kr-Amritanshu/Paper-Genius/internal/store"
	"github.com/Kr-Amritanshu/Paper-Genius/pkg/types"
)

var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "Manage stored papers (list, show, delete, export)",
	Long: `Papers reads and manages the configured paper store. Use subcommands to
list papers newest first, show one, delete one, or export them all.`,
}

// --- list subcommand ---

var papersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored papers, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := openService(cmd.Context(), pipeline.Components{})
		if err != nil {
			return err
		}
		defer svc.Close()

		papers, err := svc.Store.List(cmd.Context())
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			if papers == nil {
				papers = []types.Paper{}
			}
			return writeJSON(cmd.OutOrStdout(), papers)
		}
		formatPaperTable(papers, cmd.OutOrStdout())
		return nil
	},
}

func formatPaperTable(papers []types.Paper, w io.Writer) {
	if len(papers) == 0 {
		fmt.Fprintln(w, "No papers stored.")
		return
	}
	fmt.Fprintf(w, "%-36s  %-16s  %-5s  %-4s  %s\n", "ID", "Generated", "Style", "Refs", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, p := range papers {
		title := p.Title
		if len(title) > 45 {
			title = title[:42] + "..."
		}
		fmt.Fprintf(w, "%-36s  %-16s  %-5s  %-4d  %s\n",
			p.ID, p.GeneratedAt.Local().Format("2006-01-02 15:04"), p.CitationStyle, len(p.References), title)
	}
	fmt.Fprintf(w, "\n%d papers\n", len(papers))
}

// --- show subcommand ---

var papersShowCmd = &cobra.Command{
	Use:   "show <paper-id>",
	Short: "Print one stored paper as YAML or JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := openService(cmd.Context(), pipeline.Components{})
		if err != nil {
			return err
		}
		defer svc.Close()

		p, err := svc.Store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "yaml", "":
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(p)
		case "json":
			return writeJSON(cmd.OutOrStdout(), p)
		default:
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}
	},
}

// --- delete subcommand ---

var papersDeleteCmd = &cobra.Command{
	Use:   "delete <paper-id>",
	Short: "Delete a stored paper",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := openService(cmd.Context(), pipeline.Components{})
		if err != nil {
			return err
		}
		defer svc.Close()

		if err := svc.Store.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

// --- export subcommand ---

var papersExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all stored papers to YAML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		svc, _, err := openService(cmd.Context(), pipeline.Components{})
		if err != nil {
			return err
		}
		defer svc.Close()

		w := cmd.OutOrStdout()
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer f.Close()
			w = f
		}
		if err := store.Export(cmd.Context(), svc.Store, format, w); err != nil {
			return err
		}
		if output != "" {
			fmt.Fprintf(os.Stderr, "Exported to %s\n", output)
		}
		return nil
	},
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	papersListCmd.Flags().Bool("json", false, "output papers as JSON")
	papersShowCmd.Flags().String("format", "yaml", "output format: yaml or json")
	papersExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	papersExportCmd.Flags().String("output", "", "write to this file instead of stdout")

	papersCmd.AddCommand(papersListCmd)
	papersCmd.AddCommand(papersShowCmd)
	papersCmd.AddCommand(papersDeleteCmd)
	papersCmd.AddCommand(papersExportCmd)

	rootCmd.AddCommand(papersCmd)
}
