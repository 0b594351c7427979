// Package cmd wires the catalog-etl command line.
package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"catalog-etl/config"
	"catalog-etl/services"
	"catalog-etl/storage"
	"catalog-etl/utils"
)

// NewRootCommand builds the command tree. cfg holds env defaults and is updated by flags.
// The summary report goes to out.
func NewRootCommand(cfg *config.Config, out io.Writer) *cobra.Command {
	var dsn string

	root := &cobra.Command{
		Use:   "catalog-etl",
		Short: "Clean and enrich a streaming catalog metadata file",
		Long: `Loads a catalog metadata table, derives date, duration, country, genre and
decade columns, prints summary statistics and writes the processed file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if dsn != "" {
				if cfg.Source == config.SourceSQLite {
					cfg.SQLitePath = dsn
				} else {
					cfg.DatabaseURL = dsn
				}
			}
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context(), cfg, out, true)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.Source, "source", cfg.Source, "Input source: csv, postgres or sqlite")
	flags.StringVarP(&cfg.InputPath, "input", "i", cfg.InputPath, "Path to the input CSV file")
	flags.StringVar(&cfg.Delimiter, "delimiter", cfg.Delimiter, "Field delimiter of the input file")
	flags.StringVar(&dsn, "dsn", "", "Database URL or SQLite file for database sources")
	flags.StringVar(&cfg.SourceTable, "table", cfg.SourceTable, "Table to read for database sources")
	flags.StringVar(&cfg.SourceOrder, "order-by", cfg.SourceOrder, "Column that orders rows of a database source (default: physical order)")
	flags.StringVarP(&cfg.OutputPath, "output", "o", cfg.OutputPath, "Path to the processed CSV file")
	flags.StringVar(&cfg.SummaryPath, "summary-out", cfg.SummaryPath, "Also write the summary as YAML to this path")
	flags.IntVar(&cfg.TopN, "top", cfg.TopN, "Number of countries and genres to list")
	flags.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug output")

	root.AddCommand(runCommand(cfg, out), summarizeCommand(cfg, out))
	return root
}

func runCommand(cfg *config.Config, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Enrich the catalog, print the summary and write the processed file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context(), cfg, out, true)
		},
	}
}

func summarizeCommand(cfg *config.Config, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize",
		Short: "Enrich the catalog and print the summary without writing the processed file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context(), cfg, out, false)
		},
	}
}

func runPipeline(ctx context.Context, cfg *config.Config, out io.Writer, write bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := utils.NewLogger(cfg.Debug)
	defer logger.Sync()

	source, err := openSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer source.Close()

	opts := []services.Option{
		services.WithReport(out),
		services.WithTopN(cfg.TopN),
		services.WithSourceName(cfg.SourceName()),
	}
	if write {
		opts = append(opts, services.WithSink(storage.NewCSVWriter(cfg.OutputPath, logger)))
	}
	if cfg.SummaryPath != "" {
		opts = append(opts, services.WithSummarySink(storage.NewSummaryWriter(cfg.SummaryPath, logger)))
	}

	if _, err := services.NewPipeline(source, logger, opts...).Run(ctx); err != nil {
		return err
	}
	logger.Info("[SUCCESS] Data preprocessing completed successfully!")
	return nil
}

func openSource(ctx context.Context, cfg *config.Config, logger *utils.Logger) (storage.RawSource, error) {
	switch cfg.Source {
	case config.SourcePostgres, config.SourceSQLite:
		return storage.OpenSQLSource(ctx, storage.SQLSourceOptions{
			Driver:     cfg.Source,
			DSN:        cfg.DSN(),
			Table:      cfg.SourceTable,
			OrderBy:    cfg.SourceOrder,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay(),
		}, logger)
	default:
		return storage.NewCSVSource(cfg.InputPath, logger).WithDelimiter(cfg.DelimiterRune()), nil
	}
}

// Execute runs the command line with environment defaults and returns the process exit code
func Execute() int {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		return 1
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand(cfg, os.Stdout).ExecuteContext(ctx); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}
	return 0
}
