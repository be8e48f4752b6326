// Package app implements the exscan commands on top of the policy, ignore
// and walker packages.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bethropolis/exscan/internal/config"
	"github.com/bethropolis/exscan/internal/exclusion"
	"github.com/bethropolis/exscan/internal/logger"
	"github.com/bethropolis/exscan/internal/policy"
	"github.com/bethropolis/exscan/internal/printer"
	"github.com/bethropolis/exscan/internal/setup"
	"github.com/bethropolis/exscan/internal/summary"
	"github.com/bethropolis/exscan/internal/walker"
	"github.com/fatih/color"
)

// App encapsulates the main application functionality
type App struct {
	cfg    *config.Config
	log    *logger.Logger
	Output io.Writer
	Errout io.Writer

	outFile *os.File
}

// New creates a new App instance. The caller must Close it.
func New(cfg *config.Config, stderr io.Writer) (*App, error) {
	color.NoColor = !cfg.UseColors

	a := &App{
		cfg:    cfg,
		Output: os.Stdout,
		Errout: stderr,
	}

	if cfg.OutputFile != "" {
		file, err := os.Create(cfg.OutputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file: %w", err)
		}
		a.outFile = file
		a.Output = file
	}

	a.log = logger.New(stderr, cfg.Verbose, cfg.UseColors)
	a.log.SetLevel(cfg.LogLevel)

	return a, nil
}

// Close releases the output file, if one was opened
func (a *App) Close() error {
	if a.outFile == nil {
		return nil
	}
	return a.outFile.Close()
}

// loadPolicy returns the policy and compiled exclusions for this run. With
// no policy file the inline exclusions alone are used.
func (a *App) loadPolicy() (*policy.Policy, *exclusion.Set, error) {
	if a.cfg.PolicyFile == "" {
		p := (&policy.Policy{}).Merge(a.cfg.Exclusions)
		return p, p.Compile(exclusion.WithLogger(a.log)), nil
	}

	store, err := policy.NewStore(a.cfg.PolicyFile,
		policy.WithLogger(a.log),
		policy.WithInline(a.cfg.Exclusions),
	)
	if err != nil {
		return nil, nil, err
	}
	snap := store.Current()
	return snap.Policy, snap.Set, nil
}

// Scan walks dir and lists the files a scan would visit. changed reports
// whether a flag was given explicitly, so the policy does not override it.
func (a *App) Scan(ctx context.Context, dir string, changed func(flag string) bool) error {
	startTime := time.Now()

	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	absRootDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("invalid root directory path '%s': %w", dir, err)
	}
	dirInfo, err := os.Stat(absRootDir)
	if err != nil {
		return fmt.Errorf("could not access root directory '%s': %w", absRootDir, err)
	}
	if !dirInfo.IsDir() {
		return fmt.Errorf("specified path '%s' is not a directory", absRootDir)
	}

	pol, set, err := a.loadPolicy()
	if err != nil {
		return err
	}
	a.cfg.ApplyPolicy(pol, changed)

	infoLog := func(format string, args ...interface{}) {
		if !a.cfg.Quiet {
			a.log.Info(format, args...)
		}
	}

	matcher, walkOptions, err := setup.ConfigureWalker(setup.WalkerConfig{
		RootDir:       absRootDir,
		Exclusions:    set,
		IgnoreFile:    a.cfg.IgnoreFile,
		IgnoreHidden:  a.cfg.IgnoreHidden,
		IgnoreGit:     a.cfg.IgnoreGit,
		Disabled:      a.cfg.NoFilters,
		Concurrent:    a.cfg.Concurrent,
		MaxWorkers:    a.cfg.MaxWorkers,
		MaxFileSizeMB: a.cfg.MaxFileSizeMB,
		Extensions:    a.cfg.Extensions,
		ShowProgress:  a.cfg.ShowProgress,
		Context:       ctx,
		Quiet:         a.cfg.Quiet,
		Logger:        a.log,
	}, infoLog)
	if err != nil {
		return err
	}

	p := printer.New().WithOutput(a.Output).WithColors(a.cfg.UseColors)
	if a.cfg.JSONOutput {
		p.WithJSON(true).WithColors(false)
	} else if a.cfg.MarkdownOutput {
		p.WithMarkdown(true).WithColors(false)
	}

	infoLog("Scanning directory: %s", absRootDir)
	skippedItems, err := walker.Walk(absRootDir, matcher, func(entry walker.Entry, err error) error {
		if err != nil {
			a.log.Warn("Skipping file '%s': %v", entry.RelativePath, err)
			return nil
		}
		p.PrintEntry(entry)
		return nil
	}, walkOptions...)
	p.Finalize()

	if a.cfg.ShowProgress && !a.cfg.Quiet {
		fmt.Fprintln(a.Errout)
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("timeout of %v reached: %w", a.cfg.Timeout, err)
		}
		return fmt.Errorf("critical error during directory walk: %w", err)
	}

	summary.DisplayResults(a.log, p.GetCount(), p.TotalBytes(), time.Since(startTime), a.cfg.Quiet)
	if a.cfg.ShowSkipped {
		summary.DisplaySkippedItems(a.log, skippedItems, a.Errout, a.cfg.Quiet)
	}
	return nil
}
