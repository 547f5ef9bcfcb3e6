// cmd/contact-cleaner/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/David-Botos/contact-cleaner/pkg/cleaner"
	"github.com/David-Botos/contact-cleaner/pkg/config"
	"github.com/David-Botos/contact-cleaner/pkg/connector"
	"github.com/David-Botos/contact-cleaner/pkg/converter"
	"github.com/David-Botos/contact-cleaner/pkg/csvio"
	"github.com/David-Botos/contact-cleaner/pkg/logging"
	"github.com/David-Botos/contact-cleaner/pkg/model"
)

type options struct {
	input      string
	output     string
	report     string
	configPath string
	mapping    string
	dateField  string
	dedupeKey  string
	required   string
	source     string
	table      string
	set        map[string]bool
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("contact-cleaner", flag.ContinueOnError)
	opts := &options{}

	fs.StringVar(&opts.input, "input", "", "Input CSV path (csv source)")
	fs.StringVar(&opts.output, "output", "", "Output cleaned CSV path")
	fs.StringVar(&opts.report, "report", "", "Output report CSV path")
	fs.StringVar(&opts.configPath, "config", "", "Optional TOML run configuration")
	fs.StringVar(&opts.mapping, "mapping", "", "Optional JSON mapping file (canonical->source header)")
	fs.StringVar(&opts.dateField, "date-field", model.FieldLastCleanDate, "Canonical date field to keep latest (non-canonical names are rejected)")
	fs.StringVar(&opts.dedupeKey, "dedupe-key", string(config.DedupeKeyEmail), "Dedupe key: email or full_name")
	fs.StringVar(&opts.required, "required", model.FieldFullName, `Comma-separated canonical required fields, e.g. "full_name,email" (non-canonical names are rejected)`)
	fs.StringVar(&opts.source, "source", "", "Input source: csv, postgres, snowflake or sqlite (default $SOURCE or csv)")
	fs.StringVar(&opts.table, "table", "", "Source table for database sources (schema.table)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		opts.set[f.Name] = true
	})

	var err error
	if opts.output == "" {
		err = multierr.Append(err, errors.New("--output is required"))
	}
	if opts.report == "" {
		err = multierr.Append(err, errors.New("--report is required"))
	}
	return opts, err
}

// cleanConfig layers the TOML file, then explicitly set flags, over the defaults
func (o *options) cleanConfig() (config.CleanConfig, error) {
	cfg := config.DefaultCleanConfig()
	if o.configPath != "" {
		fileCfg, err := config.LoadCleanFile(o.configPath)
		if err != nil {
			return config.CleanConfig{}, err
		}
		cfg = fileCfg
	}

	opts := []config.Option{
		config.WithDateField(cfg.DateField),
		config.WithDedupeKey(string(cfg.DedupeKey)),
		config.WithRequired(cfg.Required...),
		config.WithMapping(cfg.Mapping),
	}
	if o.set["date-field"] {
		opts = append(opts, config.WithDateField(o.dateField))
	}
	if o.set["dedupe-key"] {
		key, err := config.ParseDedupeKey(o.dedupeKey)
		if err != nil {
			return config.CleanConfig{}, fmt.Errorf("--dedupe-key: %w", err)
		}
		opts = append(opts, config.WithDedupeKey(string(key)))
	}
	if o.set["required"] {
		opts = append(opts, config.WithRequired(config.SplitFieldList(o.required)...))
	}
	if o.mapping != "" {
		mapping, err := config.LoadMappingFile(o.mapping)
		if err != nil {
			return config.CleanConfig{}, err
		}
		opts = append(opts, config.WithMapping(mapping))
	}

	return config.NewCleanConfig(opts...)
}

func loadTable(
	ctx context.Context,
	opts *options,
	cfg *config.Config,
	logger *zap.Logger,
	conv *converter.ValueConverter,
) (_ *model.Table, err error) {
	if cfg.Source == config.SourceCSV {
		if opts.input == "" {
			return nil, errors.New("--input is required for the csv source")
		}
		return csvio.ReadFile(opts.input, conv)
	}

	factory := connector.NewConnectorFactory(cfg, logger, conv)
	ref, err := connector.ParseTableRef(opts.table, factory.DefaultSchema())
	if err != nil {
		return nil, fmt.Errorf("--table: %w", err)
	}

	conn, err := factory.CreateSourceConnector(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, conn.Close())
	}()

	if err := conn.Validate(ctx, ref); err != nil {
		return nil, fmt.Errorf("source validation failed: %w", err)
	}

	table, err := conn.FetchTable(ctx, ref)
	if err != nil {
		return nil, err
	}
	connector.LogConnectionStats(logger, ref.String(), conn.DB())
	return table, nil
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	envErr := godotenv.Load()

	cfg, err := config.LoadConfigFor(opts.source)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Debug("No .env file loaded", zap.Error(envErr))
	}

	cleanCfg, err := opts.cleanConfig()
	if err != nil {
		return fmt.Errorf("invalid run configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conv := converter.NewValueConverter(logger.Named("converter"))

	table, err := loadTable(ctx, opts, cfg, logger, conv)
	if err != nil {
		return err
	}

	c, err := cleaner.NewCleaner(logger.Named("cleaner"), conv)
	if err != nil {
		return err
	}

	result, err := c.Clean(ctx, table, cleanCfg)
	if err != nil {
		return err
	}

	if err := csvio.WriteFile(opts.output, result.Cleaned, conv); err != nil {
		return err
	}
	if err := csvio.WriteFile(opts.report, result.ReportTable(), conv); err != nil {
		return err
	}

	logger.Info("Wrote outputs",
		zap.String("output", opts.output),
		zap.String("report", opts.report),
		zap.String("summary", result.Summary.String()))

	fmt.Printf("Cleaned rows: %d\n", result.Cleaned.Len())
	fmt.Printf("Report rows: %d\n", result.Summary.ReportRows())
	fmt.Printf("Saved: %s\n", opts.output)
	fmt.Printf("Saved: %s\n", opts.report)
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "contact-cleaner: %v\n", err)
		os.Exit(1)
	}
}
