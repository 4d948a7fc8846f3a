package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/fintrack/internal/accounts"
	"github.com/cleared-dev/fintrack/internal/alert"
	"github.com/cleared-dev/fintrack/internal/alertlog"
	"github.com/cleared-dev/fintrack/internal/config"
	"github.com/cleared-dev/fintrack/internal/importer"
	"github.com/cleared-dev/fintrack/internal/logger"
	"github.com/cleared-dev/fintrack/internal/metrics"
	"github.com/cleared-dev/fintrack/internal/pipeline"
	"github.com/cleared-dev/fintrack/internal/report"
)

type ingestOptions struct {
	repo          string
	format        string
	skipInvalid   bool
	export        string
	metricsFile   string
	markProcessed bool
}

func newIngestCommand(root *rootOptions) *cobra.Command {
	opts := ingestOptions{}

	cmd := &cobra.Command{
		Use:   "ingest [files...]",
		Short: "Clean statement files, raise alerts and post them to accounts",
		Long: "Ingest reads the given CSV files, or every CSV in <repo>/import when none\n" +
			"are given, cleans and deduplicates the rows, runs the alert rules, posts\n" +
			"each row to its account and prints a summary.",
		RunE: func(cmd *cobra.Command, args []string) error {
			absRepo, err := filepath.Abs(opts.repo)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			opts.repo = absRepo
			return runIngest(cmd, root, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.repo, "repo", ".", "workspace directory")
	cmd.Flags().StringVar(&opts.format, "format", "", "input format (default from config)")
	cmd.Flags().BoolVar(&opts.skipInvalid, "skip-invalid", false, "skip rows that cannot be posted instead of failing")
	cmd.Flags().StringVar(&opts.export, "export", "", "write posted transactions to this CSV file")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	cmd.Flags().BoolVar(&opts.markProcessed, "mark-processed", false, "move scanned files from import/ to import/processed/ after a successful run")

	return cmd
}

// loadConfig reads <repo>/fintrack.yaml, falling back to defaults when the
// workspace has not been initialized, then applies <repo>/.env overrides.
func loadConfig(repo string) (*config.Config, error) {
	cfg, err := config.Load(filepath.Join(repo, config.FileName))
	if errors.Is(err, os.ErrNotExist) {
		cfg = config.Default("You")
	} else if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg, filepath.Join(repo, ".env")); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runIngest(cmd *cobra.Command, root *rootOptions, opts ingestOptions, args []string) error {
	start := time.Now()

	cfg, err := loadConfig(opts.repo)
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if root.logLevel != "" {
		level = root.logLevel
	}
	log, err := logger.New(cmd.ErrOrStderr(), level)
	if err != nil {
		return err
	}
	ctx := logger.WithContext(cmd.Context(), log)

	format := opts.format
	if format == "" {
		format = cfg.Import.Format
	}
	registry := importer.DefaultRegistry()
	parser := registry.Get(format)
	if parser == nil {
		return fmt.Errorf("unknown format %q (available: %s)", format, strings.Join(registry.Formats(), ", "))
	}

	paths, scanned, err := inputFiles(opts.repo, args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No files to ingest.")
		return nil
	}
	log.Debug().Strs("files", paths).Str("format", parser.Format()).Msg("loading files")

	rows, err := importer.LoadAll(ctx, parser, paths)
	if err != nil {
		return fmt.Errorf("loading files: %w", err)
	}

	svc, err := accounts.FromConfig(cfg)
	if err != nil {
		return err
	}
	m := metrics.New()
	session := pipeline.NewSession(svc, pipeline.Options{
		SkipInvalid: opts.skipInvalid || cfg.Import.SkipInvalid,
		Rules:       alert.RulesFromConfig(cfg.Alerts),
	}, m)

	res, err := session.Run(ctx, rows)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := report.Write(out, report.Build(svc), res.Alerts); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	writeSkipped(out, res.Skipped)

	if err := alertlog.Append(opts.repo, alertEntries(res, paths, start)); err != nil {
		log.Warn().Err(err).Msg("failed to write alert log")
	}

	if opts.export != "" {
		if err := exportTransactions(opts.export, svc); err != nil {
			return err
		}
		log.Info().Str("path", opts.export).Int("transactions", len(res.Posted)).Msg("exported transactions")
	}

	if opts.metricsFile != "" {
		if err := m.WriteTextfile(opts.metricsFile); err != nil {
			return err
		}
	}

	if opts.markProcessed {
		markProcessed(log, opts.repo, scanned)
	}
	return nil
}

// inputFiles returns explicit args as-is, or the CSVs under <repo>/import.
// scanned lists file names only when they came from the import directory.
func inputFiles(repo string, args []string) (paths, scanned []string, err error) {
	if len(args) > 0 {
		return args, nil, nil
	}
	files, err := importer.Scan(repo)
	if err != nil {
		return nil, nil, err
	}
	for _, f := range files {
		paths = append(paths, f.Path)
		scanned = append(scanned, f.Name)
	}
	return paths, scanned, nil
}

func writeSkipped(w io.Writer, skipped []pipeline.Skipped) {
	if len(skipped) == 0 {
		return
	}
	fmt.Fprintf(w, "\n=== SKIPPED ROWS (%d) ===\n", len(skipped))
	for _, sk := range skipped {
		fmt.Fprintf(w, "- row %d: %s\n", sk.Row, sk.Reason)
	}
}

func alertEntries(res *pipeline.Result, paths []string, ts time.Time) []alertlog.Entry {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	source := strings.Join(names, ";")

	entries := make([]alertlog.Entry, 0, len(res.Alerts))
	for _, msg := range res.Alerts {
		entries = append(entries, alertlog.Entry{
			Timestamp: ts,
			RunID:     res.RunID,
			Source:    source,
			Message:   msg,
		})
	}
	return entries
}

func exportTransactions(path string, svc *accounts.Service) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export: %w", err)
	}
	if err := accounts.WriteTransactions(f, svc.Transactions()); err != nil {
		f.Close()
		return fmt.Errorf("writing export: %w", err)
	}
	return f.Close()
}

func markProcessed(log zerolog.Logger, repo string, names []string) {
	for _, name := range names {
		if err := importer.MarkProcessed(repo, name); err != nil {
			log.Warn().Err(err).Str("file", name).Msg("could not mark file processed")
			continue
		}
		log.Debug().Str("file", name).Msg("marked processed")
	}
}
