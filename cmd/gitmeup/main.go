package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sokinpui/gitmeup/cli"
	"github.com/sokinpui/gitmeup/gitmeup"
	"github.com/sokinpui/gitmeup/internal/config"
	"github.com/sokinpui/gitmeup/internal/logging"
	"github.com/sokinpui/gitmeup/internal/runner"
	"github.com/sokinpui/gitmeup/internal/ui"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cwd, err := os.Getwd()
	if err != nil {
		ui.Error("could not get current working directory: %v", err)
		return 1
	}
	home, _ := os.UserHomeDir()

	env, err := config.LoadEnv(home, cwd, os.LookupEnv)
	if err != nil {
		ui.Error("%v", err)
		return 1
	}

	file, _, err := cli.LoadProjectFile(cwd, args)
	if err != nil {
		ui.Error("%v", err)
		return 1
	}

	cfg, err := cli.ParseFlags(args, env, file, os.Stdout)
	if errors.Is(err, cli.ErrVersion) || errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		ui.Error("%v", err)
		return 1
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		ui.Error("%v", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()
	logger.Debug("configuration",
		zap.String("config", cli.ResolveConfigPath(cwd, cfg.ConfigPath)),
		zap.String("model", cfg.Model),
		zap.String("source", string(cfg.Source)),
		zap.Bool("apply", cfg.Apply))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app, err := gitmeup.NewFromConfig(ctx, cfg, cwd, logger)
	if err != nil {
		ui.Error("%v", err)
		return 1
	}

	if _, err := app.Run(ctx); err != nil {
		var exitErr *runner.ExitError
		if errors.As(err, &exitErr) && exitErr.Code != 0 {
			return exitErr.Code
		}
		var detailed *gitmeup.DetailedError
		if errors.As(err, &detailed) {
			fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
		}
		ui.Error("%v", err)
		return 1
	}
	return 0
}
