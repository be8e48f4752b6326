package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/bethropolis/exscan/internal/exclusion"
	"github.com/bethropolis/exscan/internal/policy"
	"github.com/fatih/color"
)

// entryKind resolves whether path is a directory and whether it is a regular
// file. Paths that do not exist fall back to fallback ("file", "dir" or
// "other").
func entryKind(path, fallback string) (isDir, isFile bool, err error) {
	info, err := os.Lstat(path)
	if err == nil {
		return info.IsDir(), info.Mode().IsRegular(), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, false, err
	}
	switch fallback {
	case "file":
		return false, true, nil
	case "dir":
		return true, false, nil
	case "other":
		return false, false, nil
	}
	return false, false, fmt.Errorf("unknown entry type %q (want file, dir or other)", fallback)
}

// Check reports, for each path, the first exclusion that applies to it.
// Relative paths are made absolute first since exclusions match absolute
// paths.
func (a *App) Check(paths []string) error {
	_, set, err := a.loadPolicy()
	if err != nil {
		return err
	}

	excluded := color.New(color.FgYellow).SprintFunc()
	tw := tabwriter.NewWriter(a.Output, 0, 4, 2, ' ', 0)
	for _, raw := range paths {
		path, err := filepath.Abs(raw)
		if err != nil {
			return fmt.Errorf("invalid path '%s': %w", raw, err)
		}
		isDir, isFile, err := entryKind(path, a.cfg.EntryType)
		if err != nil {
			return fmt.Errorf("could not inspect '%s': %w", path, err)
		}

		if ex, ok := set.Match(path, isDir, isFile); ok {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", path, excluded("excluded"), ex)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", path, "scanned")
	}
	return tw.Flush()
}

// Classify prints how each exclusion string is interpreted
func (a *App) Classify(raws []string) error {
	tw := tabwriter.NewWriter(a.Output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tDISPLAY\tPATH")
	for _, raw := range raws {
		ex := exclusion.New(raw)
		fmt.Fprintf(tw, "%s\t%q\t%q\n", ex.Type(), ex.DisplayPath(), ex.Path())
		if ex.Err() != nil {
			a.log.Warn("Exclusion %q is not usable: %v", raw, ex.Err())
		}
	}
	return tw.Flush()
}

// Watch loads the policy file and reloads it on every change until ctx is
// done.
func (a *App) Watch(ctx context.Context) error {
	if a.cfg.PolicyFile == "" {
		return policy.ErrNoPolicyFile
	}

	store, err := policy.NewStore(a.cfg.PolicyFile,
		policy.WithLogger(a.log),
		policy.WithInline(a.cfg.Exclusions),
		policy.WithOnReload(func(snap *policy.Snapshot) {
			if !a.log.DebugEnabled() {
				return
			}
			for _, ex := range snap.Set.Exclusions() {
				a.log.Debug("  %s", ex)
			}
		}),
	)
	if err != nil {
		return err
	}

	a.log.Info("Watching %s for changes (%d exclusions). Press Ctrl+C to stop.", store.Path(), store.Current().Set.Len())
	return store.Watch(ctx)
}
