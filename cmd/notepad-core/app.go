package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ishibashi-futos/notepad-macos/internal/charset"
	"github.com/ishibashi-futos/notepad-macos/internal/config"
	"github.com/ishibashi-futos/notepad-macos/internal/engine"
	"github.com/ishibashi-futos/notepad-macos/internal/logger"
	"github.com/ishibashi-futos/notepad-macos/internal/task"
)

// app holds the state shared by the subcommands of one invocation.
type app struct {
	stdout, stderr io.Writer

	configPath string
	logLevel   string
	logFile    string

	cfg   config.Config
	log   *logger.Logger
	coord *task.Coordinator
}

// setup loads the configuration, applies flag overrides and starts the
// coordinator. The version command needs none of it.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFile != "" {
		cfg.Log.File = a.logFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	opts := cfg.LoggerOptions()
	opts.Stderr = a.stderr
	if a.log, err = logger.New(opts); err != nil {
		return err
	}

	a.coord = task.NewCoordinator(
		task.WithLogger(a.log.Named("task")),
		task.WithPollBytes(cfg.Tasks.PollBytes),
		task.WithSearchPollRunes(cfg.Tasks.SearchPollRunes),
	)
	a.log.Debug("configuration loaded",
		zap.String("config", a.configPath),
		zap.String("command", cmd.Name()),
	)
	return nil
}

// close stops the coordinator and flushes the log. It runs whether or not
// the command succeeded.
func (a *app) close() error {
	var errs []error
	if a.coord != nil {
		errs = append(errs, a.coord.Close())
	}
	if a.log != nil {
		errs = append(errs, a.log.Close())
	}
	return errors.Join(errs...)
}

// open loads path into a new document on the coordinator.
func (a *app) open(ctx context.Context, path string, override *charset.Name) (*engine.Document, error) {
	doc, err := engine.New(a.cfg.DocumentOptions()...)
	if err != nil {
		return nil, err
	}
	a.coord.Activate(doc.ID())

	tok := task.NewToken(ctx)
	defer tok.Cancel()

	msg := <-task.Load(a.coord, doc, path, override, tok)
	if err := outcome(msg.Status, msg.Err); err != nil {
		return nil, err
	}
	if _, err := doc.ApplyLoad(msg.Value); err != nil {
		return nil, err
	}
	a.log.Debug("document loaded",
		zap.String("path", path),
		zap.Stringer("descriptor", doc.Descriptor()),
		zap.Int("chars", doc.Len()),
	)
	return doc, nil
}

// outcome turns the terminal status of a unit into the command's error.
func outcome(status task.Status, err error) error {
	switch status {
	case task.Cancelled:
		return errInterrupted
	case task.Failed:
		return err
	}
	return nil
}

// parseEncoding parses an optional --encoding style flag.
func parseEncoding(s string) (*charset.Name, error) {
	if s == "" {
		return nil, nil
	}
	name, err := charset.ParseName(s)
	if err != nil {
		return nil, fmt.Errorf("invalid encoding %q: %w", s, err)
	}
	return &name, nil
}
