package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/woxQAQ/esql-lsp/internal/analyzer"
	"github.com/woxQAQ/esql-lsp/internal/completion"
	"github.com/woxQAQ/esql-lsp/internal/config"
	"github.com/woxQAQ/esql-lsp/internal/esql"
	"github.com/woxQAQ/esql-lsp/internal/metrics"
	"github.com/woxQAQ/esql-lsp/internal/vocab"
)

// app carries the state shared by all subcommands.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.ServerConfig
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:               "esql-lsp",
		Short:             "Syntax checking and completion for ES|QL queries embedded in Java, Kotlin and Go",
		Version:           fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		DisableAutoGenTag: true,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to configuration file")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the configuration")

	cmd.AddCommand(newServeCmd(a), newCheckCmd(a), newCompleteCmd(a))
	return cmd
}

// setup loads the configuration, builds the logger and installs a context
// cancelled on SIGINT and SIGTERM.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadServerConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg

	a.logger, err = newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	cobra.OnFinalize(cancel)
	cmd.SetContext(ctx)
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}

// newAnalyzer loads the vocabulary packs and builds an analyzer for the
// configured grammar.
func (a *app) newAnalyzer(ctx context.Context, gateway completion.SchemaGateway, m *metrics.Metrics) (*analyzer.Analyzer, error) {
	manager := vocab.NewManager(a.cfg.VocabularyPaths, a.logger)
	if err := manager.LoadAll(ctx); err != nil {
		return nil, fmt.Errorf("load vocabulary packs: %w", err)
	}

	opts := []analyzer.Option{
		analyzer.WithVocabulary(manager.Vocabulary),
		analyzer.WithMetrics(m),
		analyzer.WithLogger(a.logger),
	}
	if gateway != nil {
		opts = append(opts, analyzer.WithGateway(gateway))
	}
	recognizer := esql.New(esql.Config{DevVersion: a.cfg.Grammar.DevVersion})
	return analyzer.New(recognizer, opts...), nil
}
