package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/woxQAQ/esql-lsp/internal/analyzer"
	"github.com/woxQAQ/esql-lsp/pkg/protocol"
)

// errProblemsFound makes the process exit with status 1 without further
// output.
var errProblemsFound = errors.New("syntax problems found")

type checkOptions struct {
	json       bool
	highlights bool
}

func newCheckCmd(a *app) *cobra.Command {
	var opts checkOptions
	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate the queries embedded in host source files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			an, err := a.newAnalyzer(cmd.Context(), nil, nil)
			if err != nil {
				return err
			}
			reports, err := checkFiles(cmd.Context(), an, args, opts.highlights)
			if err != nil {
				return err
			}
			if err := writeReports(cmd.OutOrStdout(), reports, opts); err != nil {
				return err
			}
			for _, r := range reports {
				if len(r.Diagnostics) > 0 {
					return errProblemsFound
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print reports as JSON")
	cmd.Flags().BoolVar(&opts.highlights, "highlights", false, "Include keyword highlight ranges")
	return cmd
}

func checkFiles(ctx context.Context, an *analyzer.Analyzer, paths []string, highlights bool) ([]protocol.FileReport, error) {
	reports := make([]protocol.FileReport, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		doc, err := analyzer.NewDocument(path, string(content))
		if err != nil {
			return nil, err
		}
		report, err := an.Report(ctx, doc, highlights)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func writeReports(w io.Writer, reports []protocol.FileReport, opts checkOptions) error {
	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}
	for _, r := range reports {
		for _, d := range r.Diagnostics {
			start := d.Range.Start
			if _, err := fmt.Fprintf(w, "%s:%d:%d: %s\n", r.Path, start.Line+1, start.Character+1, d.Message); err != nil {
				return err
			}
		}
		for _, h := range r.Highlights {
			if _, err := fmt.Fprintf(w, "%s:%d:%d-%d: keyword\n", r.Path, h.Start.Line+1, h.Start.Character+1, h.End.Character+1); err != nil {
				return err
			}
		}
	}
	return nil
}
