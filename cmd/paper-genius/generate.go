// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Kr-Amritanshu/Paper-Genius/internal/pipeline"
	"github.com/Kr-Amritanshu/Paper-Genius/internal/search"
	"github.com/Kr-Amritanshu/Paper-Genius/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate [topic]",
	Short: "Generate and store a research paper on a topic",
	Long: `Generate searches for up to 20 references on the topic, asks the configured
AI provider to write a paper citing them, and stores the result. The saved
paper is printed as JSON.

With --from-query, references come from a query file written by
"search --save" instead of a live search; the topic defaults to the query's
free text.

Add --pdf to render the stored paper straight away.`,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	for flag, key := range map[string]string{
		"provider": "generation.provider",
		"model":    "generation.model",
		"profile":  "generation.profile",
	} {
		if cmd.Flags().Changed(flag) {
			v, _ := cmd.Flags().GetString(flag)
			viper.Set(key, v)
		}
	}

	topic := strings.Join(args, " ")
	style, _ := cmd.Flags().GetString("style")
	fromQuery, _ := cmd.Flags().GetString("from-query")
	pdfPath, _ := cmd.Flags().GetString("pdf")

	svc, _, err := openService(cmd.Context(), pipeline.All)
	if err != nil {
		return err
	}
	defer svc.Close()

	var paper types.Paper
	if fromQuery != "" {
		paper, err = generateFromQuery(cmd, svc, fromQuery, topic, style)
	} else {
		fmt.Fprintf(os.Stderr, "Searching references for %q...\n", topic)
		paper, err = svc.Generate(cmd.Context(), topic, style)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Generated paper %s: %s\n", paper.ID, paper.Title)

	if pdfPath != "" {
		data, err := svc.RenderPaper(cmd.Context(), paper)
		if err != nil {
			return err
		}
		if err := os.WriteFile(pdfPath, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", pdfPath, err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", pdfPath)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(paper)
}

func generateFromQuery(cmd *cobra.Command, svc *pipeline.Service, path, topic, style string) (types.Paper, error) {
	qf, err := search.ReadQueryFile(path)
	if err != nil {
		return types.Paper{}, err
	}
	if topic == "" {
		topic = strings.TrimSpace(qf.Query.FreeText)
	}
	if topic == "" {
		return types.Paper{}, fmt.Errorf("%w: topic is required", pipeline.ErrInvalidRequest)
	}
	cs, err := types.ParseCitationStyle(style)
	if err != nil {
		return types.Paper{}, err
	}
	refs, err := qf.References(time.Now().Year())
	if err != nil {
		return types.Paper{}, err
	}
	if len(refs) > pipeline.ReferenceLimit {
		refs = refs[:pipeline.ReferenceLimit]
	}
	fmt.Fprintf(os.Stderr, "Using %d references from %s\n", len(refs), path)
	return svc.GenerateWithReferences(cmd.Context(), topic, refs, cs)
}

func init() {
	generateCmd.Flags().String("style", "APA", "citation style: APA, IEEE, or MLA")
	generateCmd.Flags().String("from-query", "", "cite the results saved in this query file")
	generateCmd.Flags().String("provider", "", "AI provider: openai, anthropic, or vertex")
	generateCmd.Flags().String("model", "", "AI model identifier")
	generateCmd.Flags().String("profile", "", "prompt profile: comprehensive or concise")
	generateCmd.Flags().String("pdf", "", "also render the paper to this PDF path")

	rootCmd.AddCommand(generateCmd)
}
