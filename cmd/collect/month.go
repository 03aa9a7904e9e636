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

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/rs/xid"

	"github.com/abhi2022git/currency-conversion/cmd/env"
	"github.com/abhi2022git/currency-conversion/config"
	"github.com/abhi2022git/currency-conversion/provider"
	"github.com/abhi2022git/currency-conversion/provider/xrates"
	"github.com/abhi2022git/currency-conversion/storage/types"
)

const monthFormat = "2006-01"

// monthCfg wraps the month configuration
type monthCfg struct {
	rootCfg *collectCfg

	month string
}

// newMonthCmd creates the collect month command
func newMonthCmd(rootCfg *collectCfg) *ffcli.Command {
	cfg := &monthCfg{
		rootCfg: rootCfg,
	}

	fs := flag.NewFlagSet("month", flag.ExitOnError)
	cfg.rootCfg.registerFlags(fs)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "month",
		ShortUsage: "collect month [flags]",
		LongHelp:   "Records the month-opening conversion rates, keeping any already recorded",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *monthCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.month,
		"month",
		"",
		"the month to record (YYYY-MM), defaults to the current month",
	)
}

// exec executes the month-opening collection run
func (c *monthCfg) exec(ctx context.Context, _ []string) error {
	// Read the collection configuration, if any
	if c.rootCfg.configPath != "" {
		runCfg, err := config.Read(c.rootCfg.configPath)
		if err != nil {
			return fmt.Errorf("unable to read collect config, %w", err)
		}

		if err = config.ValidateConfig(runCfg); err != nil {
			return fmt.Errorf("invalid collect config, %w", err)
		}

		c.rootCfg.config = runCfg
	}

	// Create a new logger, tagged with the run ID
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil)).With(
		"run_id", xid.New().String(),
	)

	// Load .env
	if err := godotenv.Load(); err != nil {
		logger.Warn("unable to load .env file")
	}

	// Resolve the month opening date
	opening, err := c.resolveOpening()
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
		"starting month-opening run",
		"date", opening.Format(types.DateFormat),
	)

	// Collect the month-opening rows. The month record mirrors the
	// published x-rates table, so only the scraper is consulted
	providers := []provider.Provider{
		xrates.NewProvider(c.rootCfg.newClient(logger), xrates.DefaultURL),
	}

	rows, err := c.rootCfg.collectRows(runCtx, logger, providers, []time.Time{opening})
	if err != nil {
		logOutcome(logger, err)

		return err
	}

	// Month-opening rows are a historical record,
	// so already-recorded rows always win
	err = mergeRows(runCtx, logger, c.rootCfg.config.OutputDir, rows, types.PolicyInsertIfAbsent)
	logOutcome(logger, err)

	return err
}

// resolveOpening resolves the first day of the requested month
func (c *monthCfg) resolveOpening() (time.Time, error) {
	if c.month == "" {
		now := time.Now().UTC()

		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}

	parsed, err := time.Parse(monthFormat, c.month)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month: %w", err)
	}

	return parsed, nil
}
