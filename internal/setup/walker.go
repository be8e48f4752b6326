// Package setup provides initialization and configuration functions
package setup

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/bethropolis/exscan/internal/exclusion"
	"github.com/bethropolis/exscan/internal/ignore"
	"github.com/bethropolis/exscan/internal/utils"
	"github.com/bethropolis/exscan/internal/walker"
)

// InfoLogger wraps the Info method for status updates
type InfoLogger func(format string, args ...interface{})

// WalkerConfig holds all parameters needed to configure a directory walker
type WalkerConfig struct {
	RootDir       string
	Exclusions    *exclusion.Set
	IgnoreFile    string
	IgnoreHidden  bool
	IgnoreGit     bool
	Disabled      bool
	Concurrent    bool
	MaxWorkers    int
	MaxFileSizeMB int64
	Extensions    []string
	ShowProgress  bool
	Context       context.Context
	Quiet         bool
	Logger        utils.Logger
}

// ConfigureWalker sets up an ignore matcher and walker options based on the config
func ConfigureWalker(cfg WalkerConfig, infoLog InfoLogger) (
	*ignore.IgnoreMatcher,
	[]walker.Option,
	error,
) {
	logger := utils.OrNoop(cfg.Logger)

	infoLog("Using %d exclusions.", cfg.Exclusions.Len())
	if cfg.IgnoreFile != "" {
		infoLog("Honouring %s files.", cfg.IgnoreFile)
	}
	if len(cfg.Extensions) > 0 {
		infoLog("Filtering enabled. Only including extensions: %s", strings.Join(cfg.Extensions, ", "))
	}
	if cfg.IgnoreHidden {
		infoLog("Ignoring hidden files/directories (starting with '.').")
	}

	if cfg.Disabled {
		infoLog("Exclusions and ignore rules are disabled.")
		return ignore.CreateDisabledMatcher(), walkOptions(cfg, logger, infoLog), nil
	}

	matcher, err := ignore.NewFromConfig(ignore.Config{
		RootDir:      cfg.RootDir,
		IgnoreHidden: cfg.IgnoreHidden,
		IgnoreGit:    cfg.IgnoreGit,
		IgnoreFile:   cfg.IgnoreFile,
		Exclusions:   cfg.Exclusions,
		Logger:       logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing ignore rules: %w", err)
	}

	return matcher, walkOptions(cfg, logger, infoLog), nil
}

// walkOptions translates the processing settings into walker options
func walkOptions(cfg WalkerConfig, logger utils.Logger, infoLog InfoLogger) []walker.Option {
	opts := []walker.Option{
		walker.WithLogger(logger),
		walker.WithConcurrency(cfg.Concurrent),
		walker.WithMaxWorkers(cfg.MaxWorkers),
		walker.WithExtensions(cfg.Extensions),
	}

	if cfg.Concurrent {
		infoLog("Using concurrent processing with %d workers.", cfg.MaxWorkers)
	}

	if cfg.ShowProgress && !cfg.Quiet {
		logger.Debug("Progress display enabled")
		opts = append(opts, walker.WithProgress(progressPrinter()))
	}

	if cfg.MaxFileSizeMB > 0 {
		opts = append(opts, walker.WithMaxFileSize(cfg.MaxFileSizeMB*1024*1024))
		infoLog("Ignoring files larger than %d MB.", cfg.MaxFileSizeMB)
	}

	if cfg.Context != nil {
		opts = append(opts, walker.WithContext(cfg.Context))
	}

	return opts
}

// progressPrinter rewrites a single status line on stderr
func progressPrinter() walker.ProgressCallback {
	return func(stats walker.ProgressStats) {
		var statusLine string

		if stats.CurrentFilePath != "" {
			path := stats.CurrentFilePath
			if len(path) > 40 {
				path = "..." + path[len(path)-37:]
			}
			statusLine = fmt.Sprintf("\rExamining: %-40s", path)
		} else {
			statusLine = fmt.Sprintf("\rWalking... | Files: %d/%d | Dirs: %d (skipped %d)",
				stats.ProcessedFiles,
				stats.TotalFiles,
				stats.TotalDirs,
				stats.SkippedDirs)
		}

		fmt.Fprint(os.Stderr, statusLine)
	}
}
