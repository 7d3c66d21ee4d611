package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/woxQAQ/esql-lsp/internal/analyzer"
	"github.com/woxQAQ/esql-lsp/internal/schema"
	"github.com/woxQAQ/esql-lsp/pkg/protocol"
)

type completeOptions struct {
	schemaURL string
	apiKey    string
	json      bool
}

func newCompleteCmd(a *app) *cobra.Command {
	var opts completeOptions
	cmd := &cobra.Command{
		Use:   "complete QUERY",
		Short: "Print the completions for a query prefix",
		Long: "Print the completions for a query prefix. The prefix ends at the cursor, " +
			"so trailing spaces are significant. Index and field names are suggested " +
			"when a cluster URL and API key are configured.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			items, err := a.complete(cmd.Context(), query, opts)
			if err != nil {
				return err
			}
			return writeItems(cmd.OutOrStdout(), items, opts.json)
		},
	}
	cmd.Flags().StringVar(&opts.schemaURL, "schema-url", "", "Elasticsearch URL to read index mappings from")
	cmd.Flags().StringVar(&opts.apiKey, "api-key", "", "Elasticsearch API key")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print completion items as JSON")
	return cmd
}

func (a *app) complete(ctx context.Context, query string, opts completeOptions) ([]protocol.CompletionItem, error) {
	source := schema.Source{
		URL:     a.cfg.Elasticsearch.URL,
		APIKey:  a.cfg.Elasticsearch.APIKey,
		Timeout: a.cfg.Elasticsearch.Timeout,
	}
	if opts.schemaURL != "" {
		source.URL = opts.schemaURL
	}
	if opts.apiKey != "" {
		source.APIKey = opts.apiKey
	}

	cache := schema.NewCache()
	cache.SetEnabled(source.Enabled())
	if source.Enabled() {
		r := schema.NewRefresher(cache, schema.WithLogger(a.logger))
		if err := r.Refresh(ctx, schema.NewClient(source)); err != nil {
			a.logger.Warn("Schema unavailable, completing without it", zap.Error(err))
		}
	}

	an, err := a.newAnalyzer(ctx, cache, nil)
	if err != nil {
		return nil, err
	}
	return analyzer.CompletionItems(an.CompleteQuery(query)), nil
}

func writeItems(w io.Writer, items []protocol.CompletionItem, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}
	for _, item := range items {
		line := item.Label
		if item.Detail != "" {
			line += "\t(" + item.Detail + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
