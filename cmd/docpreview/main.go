package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docpreview/internal/config"
	"git.home.luguber.info/inful/docpreview/internal/errors"
	"git.home.luguber.info/inful/docpreview/internal/event"
	"git.home.luguber.info/inful/docpreview/internal/logfields"
	"git.home.luguber.info/inful/docpreview/internal/metrics"
	"git.home.luguber.info/inful/docpreview/internal/version"
	"git.home.luguber.info/inful/docpreview/internal/workflow"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"config.json"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Handle struct {
		Event string `arg:"" optional:"" help:"Event payload: inline JSON, @file, or empty to read $DOCPREVIEW_EVENT"`
	} `cmd:"" default:"withargs" help:"Handle a pull request event: publish or clean up the documentation preview"`

	Version struct{} `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	errHandler := errors.NewCLIErrorAdapter(CLI.Verbose, logger)

	switch ctx.Command() {
	case "handle", "handle <event>":
		errHandler.HandleError(runHandle(CLI.Config, CLI.Handle.Event))
	case "version":
		fmt.Printf("docpreview %s (built %s, commit %s)\n", version.Version, version.BuildTime, version.GitCommit)
	default:
		errHandler.HandleError(fmt.Errorf("unknown command: %s", ctx.Command()))
	}
}

func runHandle(configPath, eventArg string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	payload, err := event.ResolvePayload(eventArg)
	if err != nil {
		return errors.ValidationFailed("event", err.Error())
	}

	ev, err := event.Parse(payload)
	if err != nil {
		return err
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Metrics.TextfilePath != "" {
		recorder = metrics.NewPrometheusRecorder(cfg.Metrics.TextfilePath)
	}

	runner := workflow.NewRunner(cfg, recorder)
	runErr := runner.Handle(context.Background(), ev)

	if err := recorder.Flush(); err != nil {
		slog.Warn("Failed to write metrics textfile",
			logfields.Path(cfg.Metrics.TextfilePath), logfields.Error(err))
	}

	return runErr
}
