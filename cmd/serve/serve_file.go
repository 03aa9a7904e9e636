package serve

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"golang.org/x/sync/errgroup"

	"github.com/abhi2022git/currency-conversion/cmd/env"
	runconfig "github.com/abhi2022git/currency-conversion/config"
	"github.com/abhi2022git/currency-conversion/server"
	"github.com/abhi2022git/currency-conversion/storage/file"
)

type serveFileCfg struct {
	rootCfg *serveCfg

	dir string
}

// newServeFileCmd creates the serve file command
func newServeFileCmd(rootCfg *serveCfg) *ffcli.Command {
	cfg := &serveFileCfg{
		rootCfg: rootCfg,
	}

	fs := flag.NewFlagSet("file", flag.ExitOnError)
	cfg.rootCfg.registerFlags(fs)

	fs.StringVar(
		&cfg.dir,
		"dir",
		runconfig.DefaultOutputDir,
		"the directory holding the dataset files",
	)

	return &ffcli.Command{
		Name:       "file",
		ShortUsage: "serve file [flags]",
		LongHelp:   "Serves the conversion rate dataset, straight from the dataset files",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *serveFileCfg) exec(ctx context.Context, _ []string) error {
	// Read the server configuration, if any
	if err := c.rootCfg.readConfig(); err != nil {
		return fmt.Errorf("unable to read server config, %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load .env
	if err := godotenv.Load(); err != nil {
		logger.Warn("unable to load .env file")
	}

	// Create a file store over the dataset directory
	store := file.NewStore(
		c.dir,
		file.WithLogger(logger),
	)

	s, err := server.New(
		store,
		server.WithLogger(logger),
		server.WithConfig(c.rootCfg.config),
	)
	if err != nil {
		return fmt.Errorf("unable to create server, %w", err)
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancelFn()

	group, gCtx := errgroup.WithContext(runCtx)

	group.Go(func() error {
		return s.Serve(gCtx)
	})

	return group.Wait()
}
