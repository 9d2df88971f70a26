// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Kr-Amritanshu/Paper-Genius/internal/config"
	"github.com/Kr-Amritanshu/Paper-Genius/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [topic]",
	Short: "Search academic APIs for references on a topic",
	Long: `Search queries the configured academic APIs (Semantic Scholar, OpenAlex,
arXiv) for papers matching a topic or structured query parameters. Results are
deduplicated across sources and ranked by relevance.

Use --save to write a query file that "generate --from-query" can cite from
without searching again.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query, err := queryFromFlags(cmd, args)
	if err != nil {
		return err
	}
	if query.IsEmpty() {
		return fmt.Errorf("query required: provide a topic, --query, --author, or --keywords")
	}

	cfg, err := config.Load(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("max-results") {
		cfg.Search.MaxResults, _ = cmd.Flags().GetInt("max-results")
	}
	if cmd.Flags().Changed("backends") {
		cfg.Search.Backends, _ = cmd.Flags().GetStringSlice("backends")
	}
	recencyBias, _ := cmd.Flags().GetBool("recency-bias")

	backends, err := search.NewBackends(&http.Client{Timeout: cfg.Search.Timeout}, cfg.Search)
	if err != nil {
		return err
	}

	out, err := search.Search(cmd.Context(), query, backends, cfg.Search, recencyBias, os.Stderr)
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("save"); path != "" {
		if err := search.WriteQueryFile(path, query, cfg.Search, recencyBias, out); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved query file %s\n", path)
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "table", "":
		search.FormatTable(out, cmd.OutOrStdout())
		return nil
	case "json":
		return search.FormatJSON(out, cmd.OutOrStdout())
	case "csl":
		return search.FormatCSL(out, cmd.OutOrStdout())
	default:
		return fmt.Errorf("unsupported format %q: use table, json, or csl", format)
	}
}

func queryFromFlags(cmd *cobra.Command, args []string) (search.Query, error) {
	var q search.Query

	q.FreeText, _ = cmd.Flags().GetString("query")
	if q.FreeText == "" && len(args) > 0 {
		q.FreeText = strings.Join(args, " ")
	}
	q.Author, _ = cmd.Flags().GetString("author")

	if kw, _ := cmd.Flags().GetString("keywords"); kw != "" {
		for _, k := range strings.Split(kw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				q.Keywords = append(q.Keywords, k)
			}
		}
	}

	for _, f := range []struct {
		flag string
		dst  *time.Time
	}{{"from", &q.DateFrom}, {"to", &q.DateTo}} {
		v, _ := cmd.Flags().GetString(f.flag)
		if v == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return q, fmt.Errorf("invalid --%s date %q: use YYYY-MM-DD", f.flag, v)
		}
		*f.dst = t
	}
	return q, nil
}

func init() {
	searchCmd.Flags().String("query", "", "free-text research topic")
	searchCmd.Flags().String("author", "", "filter by author name")
	searchCmd.Flags().String("keywords", "", "filter by keywords (comma-separated)")
	searchCmd.Flags().String("from", "", "publication date range start (YYYY-MM-DD)")
	searchCmd.Flags().String("to", "", "publication date range end (YYYY-MM-DD)")
	searchCmd.Flags().Int("max-results", 20, "maximum number of results to return")
	searchCmd.Flags().StringSlice("backends", nil, "backends to query: semantic_scholar, openalex, arxiv")
	searchCmd.Flags().String("format", "table", "output format: table, json, or csl")
	searchCmd.Flags().Bool("recency-bias", false, "boost recently published papers")
	searchCmd.Flags().String("save", "", "write a query file with the results to this path")

	rootCmd.AddCommand(searchCmd)
}
