// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/Kr-Amritanshu/Paper-Genius/internal/config"
	"github.com/Kr-Amritanshu/Paper-Genius/internal/pipeline"
	"github.com/Kr-Amritanshu/Paper-Genius/internal/render"
	"github.com/Kr-Amritanshu/Paper-Genius/pkg/types"
)

var renderCmd = &cobra.Command{
	Use:   "render [paper-id]",
	Short: "Typeset stored papers to PDF",
	Long: `Render typesets a paper to PDF. Pass a stored paper ID, a YAML paper file
with --file, or --all to render every stored paper into the output directory
concurrently.

The fpdf surface uses the standard Times fonts; the canvas surface embeds
Latin Modern.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("surface") {
		v, _ := cmd.Flags().GetString("surface")
		viper.Set("render.surface", v)
	}
	file, _ := cmd.Flags().GetString("file")
	all, _ := cmd.Flags().GetBool("all")
	out, _ := cmd.Flags().GetString("out")

	switch {
	case file != "":
		return renderFile(cmd, file, out)
	case all:
		return renderAll(cmd)
	case len(args) == 1:
		return renderStored(cmd, args[0], out)
	default:
		return fmt.Errorf("nothing to render: pass a paper ID, --file, or --all")
	}
}

func renderStored(cmd *cobra.Command, id, out string) error {
	svc, _, err := openService(cmd.Context(), pipeline.Components{Render: true})
	if err != nil {
		return err
	}
	defer svc.Close()

	data, filename, err := svc.Render(cmd.Context(), id)
	if err != nil {
		return err
	}
	if out == "" {
		out = filename
	}
	return writePDF(out, data)
}

func renderFile(cmd *cobra.Command, path, out string) error {
	cfg, err := config.Load(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	paper, err := readPaperFile(path)
	if err != nil {
		return err
	}
	engine, err := render.New(cfg.Render.Surface)
	if err != nil {
		return err
	}
	data, err := engine.Render(paper)
	if err != nil {
		return err
	}
	if out == "" {
		out = pipeline.SafeFilename(paper.Title) + ".pdf"
	}
	return writePDF(out, data)
}

func renderAll(cmd *cobra.Command) error {
	svc, cfg, err := openService(cmd.Context(), pipeline.Components{Render: true})
	if err != nil {
		return err
	}
	defer svc.Close()

	dir, _ := cmd.Flags().GetString("output-dir")
	if dir == "" {
		dir = cfg.Render.OutputDir
	}
	limit, _ := cmd.Flags().GetInt("concurrency")
	if limit <= 0 {
		limit = cfg.Render.Concurrency
	}

	paths, err := svc.RenderAll(cmd.Context(), dir, limit)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	fmt.Fprintf(os.Stderr, "Rendered %d paper(s) into %s\n", len(paths), dir)
	return nil
}

// readPaperFile decodes a paper from YAML. A missing citation style falls
// back to APA.
func readPaperFile(path string) (types.Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Paper{}, fmt.Errorf("reading paper file: %w", err)
	}
	var p types.Paper
	if err := yaml.Unmarshal(data, &p); err != nil {
		return types.Paper{}, fmt.Errorf("parsing paper file %s: %w", path, err)
	}
	style, err := types.ParseCitationStyle(string(p.CitationStyle))
	if err != nil {
		return types.Paper{}, fmt.Errorf("paper file %s: %w", path, err)
	}
	p.CitationStyle = style
	return p, nil
}

func writePDF(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	n, err := render.PageCount(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %s (%d page(s))\n", path, n)
	return nil
}

func init() {
	renderCmd.Flags().String("file", "", "render a YAML paper file instead of a stored paper")
	renderCmd.Flags().Bool("all", false, "render every stored paper")
	renderCmd.Flags().String("out", "", "output PDF path (default: safe title + .pdf)")
	renderCmd.Flags().String("output-dir", "", "directory for --all (default: render.output_dir)")
	renderCmd.Flags().Int("concurrency", 0, "parallel renders for --all (default: render.concurrency)")
	renderCmd.Flags().String("surface", "", "PDF surface: fpdf or canvas")

	rootCmd.AddCommand(renderCmd)
}
