package collect

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/rs/xid"

	"github.com/abhi2022git/currency-conversion/cmd/env"
	"github.com/abhi2022git/currency-conversion/config"
	"github.com/abhi2022git/currency-conversion/fetcher"
	"github.com/abhi2022git/currency-conversion/ingest"
	"github.com/abhi2022git/currency-conversion/provider"
	"github.com/abhi2022git/currency-conversion/storage/file"
	"github.com/abhi2022git/currency-conversion/storage/sql"
	"github.com/abhi2022git/currency-conversion/storage/types"
)

// collectCfg wraps the collect configuration
type collectCfg struct {
	config *config.Config

	configPath string
	from       string
	to         string
}

// NewCollectCmd creates the collect subcommand
func NewCollectCmd() *ffcli.Command {
	cfg := &collectCfg{
		config: config.DefaultConfig(),
	}

	fs := flag.NewFlagSet("collect", flag.ExitOnError)
	cfg.registerFlags(fs)

	cmd := &ffcli.Command{
		Name:       "collect",
		ShortUsage: "collect [flags]",
		LongHelp:   "Collects the daily conversion rates and merges them into the dataset",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}

	cmd.Subcommands = []*ffcli.Command{
		newMonthCmd(cfg),
	}

	return cmd
}

func (c *collectCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.config.OutputDir,
		"out",
		config.DefaultOutputDir,
		"the directory holding the dataset files",
	)

	fs.StringVar(
		&c.from,
		"from",
		"",
		"the first date of the collection range (YYYY-MM-DD), defaults to today",
	)

	fs.StringVar(
		&c.to,
		"to",
		"",
		"the last date of the collection range (YYYY-MM-DD), defaults to today",
	)

	fs.StringVar(
		&c.configPath,
		"config",
		"",
		"the path to the collection TOML configuration, if any",
	)
}

// exec executes the daily collection run
func (c *collectCfg) exec(ctx context.Context, _ []string) error {
	// Read the collection configuration, if any
	if c.configPath != "" {
		runCfg, err := config.Read(c.configPath)
		if err != nil {
			return fmt.Errorf("unable to read collect config, %w", err)
		}

		if err = config.ValidateConfig(runCfg); err != nil {
			return fmt.Errorf("invalid collect config, %w", err)
		}

		c.config = runCfg
	}

	// Create a new logger, tagged with the run ID
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil)).With(
		"run_id", xid.New().String(),
	)

	// Load .env
	if err := godotenv.Load(); err != nil {
		logger.Warn("unable to load .env file")
	}

	// Resolve the collection range
	dates, err := c.resolveRange()
	if err != nil {
		return err
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancelFn()

	logger.Info(
		"starting collection run",
		"from", dates[0].Format(types.DateFormat),
		"to", dates[len(dates)-1].Format(types.DateFormat),
	)

	// Collect the rows for the range
	rows, err := c.collectRows(
		runCtx,
		logger,
		defaultProviders(c.newClient(logger)),
		dates,
	)
	if err != nil {
		logOutcome(logger, err)

		return err
	}

	// Merge them into the dataset, refreshing any stale rows
	err = mergeRows(runCtx, logger, c.config.OutputDir, rows, types.PolicySupersede)
	logOutcome(logger, err)

	return err
}

// logOutcome writes the closing run-boundary log line
func logOutcome(logger *slog.Logger, err error) {
	if err != nil {
		logger.Error(
			"collection run failed",
			"err", err,
		)

		return
	}

	logger.Info("collection run complete")
}

// resolveRange resolves the collection date range from
// the flags and the configuration
func (c *collectCfg) resolveRange() ([]time.Time, error) {
	var (
		now  = time.Now().UTC()
		from = now
		to   = now
	)

	if c.config.BackfillStart != "" {
		parsed, err := time.Parse(types.DateFormat, c.config.BackfillStart)
		if err != nil {
			return nil, fmt.Errorf("invalid backfill start date: %w", err)
		}

		from = parsed
	}

	if c.from != "" {
		parsed, err := time.Parse(types.DateFormat, c.from)
		if err != nil {
			return nil, fmt.Errorf("invalid from date: %w", err)
		}

		from = parsed
	}

	if c.to != "" {
		parsed, err := time.Parse(types.DateFormat, c.to)
		if err != nil {
			return nil, fmt.Errorf("invalid to date: %w", err)
		}

		to = parsed
	}

	return ingest.DateRange(from, to), nil
}

// newClient creates the shared fetch client for a run
func (c *collectCfg) newClient(logger *slog.Logger) *fetcher.Client {
	return fetcher.NewClient(
		time.Duration(c.config.FetchTimeout)*time.Second,
		fetcher.WithLogger(logger),
		fetcher.WithAttempts(c.config.FetchAttempts),
	)
}

// collectRows runs the given provider chain for the given dates
func (c *collectCfg) collectRows(
	ctx context.Context,
	logger *slog.Logger,
	providers []provider.Provider,
	dates []time.Time,
) ([]*types.ConversionRow, error) {
	resolver := ingest.NewResolver(
		providers,
		ingest.WithResolverLogger(logger),
	)

	collector := ingest.NewCollector(
		resolver,
		ingest.WithCollectorLogger(logger),
	)

	rows, err := collector.Collect(ctx, dates)
	if err != nil {
		return nil, fmt.Errorf("unable to collect rates: %w", err)
	}

	return rows, nil
}

// mergeRows merges the collected rows into the file dataset,
// and into the DB when one is configured
func mergeRows(
	ctx context.Context,
	logger *slog.Logger,
	outputDir string,
	rows []*types.ConversionRow,
	policy types.MergePolicy,
) error {
	store := file.NewStore(
		outputDir,
		file.WithLogger(logger),
	)

	if err := store.Merge(ctx, rows, policy); err != nil {
		return fmt.Errorf("unable to merge dataset: %w", err)
	}

	logger.Info(
		"dataset updated",
		"rows", len(rows),
		"dir", outputDir,
	)

	// Push to the DB, if one is configured
	dsn := os.Getenv(env.Prefix + env.DBURLSuffix)
	if dsn == "" {
		return nil
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("unable to open DB connection: %w", err)
	}
	defer pool.Close()

	// Check DB reachability
	pingCtx, cancelPing := context.WithTimeout(ctx, time.Second*5)
	defer cancelPing()

	if err = pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("unable to reach DB (ping): %w", err)
	}

	if err = sql.NewStorage(pool).Merge(ctx, rows, policy); err != nil {
		return fmt.Errorf("unable to merge rows into DB: %w", err)
	}

	logger.Info(
		"DB updated",
		"rows", len(rows),
	)

	return nil
}
