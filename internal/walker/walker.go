// Package walker handles directory traversal for scans
package walker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bethropolis/exscan/internal/ignore"
)

// Walk traverses the directory tree starting from rootDir, skipping what
// matcher rejects, and calls walkFn for every accepted regular file.
// It returns the skipped items and any critical error that occurred.
func Walk(rootDir string, matcher *ignore.IgnoreMatcher, walkFn WalkFunc, opts ...Option) ([]SkippedItem, error) {
	startTime := time.Now()

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	absRootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return []SkippedItem{{Path: rootDir, Reason: ReasonSkippedPathError, IsDir: true}},
			fmt.Errorf("walker: failed to get absolute path for '%s': %w", rootDir, err)
	}

	tracker := NewSkippedTracker(100)
	stats := &counters{}

	if options.ProgressFn != nil {
		progressCtx, progressCancel := context.WithCancel(context.Background())
		defer progressCancel()

		go func() {
			ticker := time.NewTicker(300 * time.Millisecond)
			defer ticker.Stop()

			for {
				select {
				case <-progressCtx.Done():
					return
				case <-ticker.C:
					options.ProgressFn(stats.snapshot())
				}
			}
		}()
	}

	options.Logger.Debug("walker.Walk started. Root: %s, Concurrent: %v, Workers: %d",
		absRootDir, options.Concurrent, options.MaxWorkers)

	// decide classifies one entry; it returns the job to run, if any.
	decide := func(path string, d fs.DirEntry, err error) (*job, error) {
		select {
		case <-options.Context.Done():
			return nil, options.Context.Err()
		default:
		}

		isDir := d != nil && d.IsDir()
		isFile := d != nil && d.Type().IsRegular()

		if isDir {
			stats.totalDirs.Add(1)
		} else {
			stats.totalFiles.Add(1)
		}
		skipped := func() {
			if isDir {
				stats.skippedDirs.Add(1)
			} else {
				stats.skippedFiles.Add(1)
			}
		}

		relativePath, relErr := filepath.Rel(absRootDir, path)
		if relErr != nil {
			options.Logger.Error("Walker Error: Path calculation failed for %q: %v", path, relErr)
			tracker.Track(path, ReasonSkippedPathError, isDir)
			skipped()
			return nil, nil
		}

		if err != nil {
			reason := ReasonSkippedWalkError
			if os.IsPermission(err) {
				reason = ReasonSkippedPermError
			}
			options.Logger.Error("Walker Error: Walk error for %q: %v", relativePath, err)
			tracker.Track(relativePath, reason, isDir)
			skipped()
			if path == absRootDir {
				return nil, err
			}
			if isDir {
				return nil, filepath.SkipDir
			}
			return nil, nil
		}

		if path == absRootDir {
			return nil, nil
		}

		if decision := matcher.Decide(path, relativePath, isDir, isFile); decision.Skip {
			options.Logger.Debug("Walker: Skipped %q: %s", relativePath, decision.Reason)
			if decision.Reason == ignore.ReasonExclusion {
				tracker.TrackExclusion(relativePath, SkippedReason(decision.Reason), isDir, decision.Exclusion.DisplayPath())
			} else {
				tracker.Track(relativePath, SkippedReason(decision.Reason), isDir)
			}
			skipped()
			if isDir {
				return nil, filepath.SkipDir
			}
			return nil, nil
		}

		if isDir {
			options.Logger.Debug("Walker: Descending into directory %q", relativePath)
			return nil, nil
		}

		if !isFile {
			options.Logger.Debug("Walker: %q is not a regular file", relativePath)
			tracker.Track(relativePath, ReasonSkippedNotRegular, false)
			skipped()
			return nil, nil
		}

		if len(options.ExtensionMap) > 0 {
			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(relativePath), "."))
			if _, allowed := options.ExtensionMap[ext]; !allowed {
				options.Logger.Debug("Walker: Extension %q of %q not allowed", ext, relativePath)
				tracker.Track(relativePath, ReasonFilteredExtension, false)
				skipped()
				return nil, nil
			}
		}

		return &job{path: path, relativePath: relativePath}, nil
	}

	var walkErr error
	if options.Concurrent {
		walkErr = walkConcurrent(absRootDir, decide, options, walkFn, tracker, stats)
	} else {
		options.Logger.Debug("Walker: Starting sequential walk.")
		walkErr = filepath.WalkDir(absRootDir, func(path string, d fs.DirEntry, err error) error {
			j, decideErr := decide(path, d, err)
			if decideErr != nil {
				return decideErr
			}
			if j != nil {
				processFile(*j, options, walkFn, tracker, stats)
			}
			return nil
		})
	}

	if walkErr != nil && !errors.Is(walkErr, context.Canceled) && !errors.Is(walkErr, context.DeadlineExceeded) {
		options.Logger.Error("Walker: Error during directory traversal: %v", walkErr)
	}
	options.Logger.Debug("Walker: Total walk and processing time: %s", time.Since(startTime))

	return tracker.Items(), walkErr
}

// walkConcurrent walks on the calling goroutine and fans accepted files out
// to a worker pool.
func walkConcurrent(
	absRootDir string,
	decide func(string, fs.DirEntry, error) (*job, error),
	options WalkOptions,
	walkFn WalkFunc,
	tracker *SkippedTracker,
	stats *counters,
) error {
	var wg sync.WaitGroup
	jobs := make(chan job, options.MaxWorkers*2)

	options.Logger.Debug("Starting %d workers for concurrent processing.", options.MaxWorkers)
	for i := 0; i < options.MaxWorkers; i++ {
		wg.Add(1)
		go fileProcessorWorker(i+1, jobs, &wg, options, walkFn, tracker, stats)
	}

	walkErr := filepath.WalkDir(absRootDir, func(path string, d fs.DirEntry, err error) error {
		j, decideErr := decide(path, d, err)
		if decideErr != nil {
			return decideErr
		}
		if j == nil {
			return nil
		}

		select {
		case <-options.Context.Done():
			return options.Context.Err()
		case jobs <- *j:
			options.Logger.Debug("Walker Queueing: File [%s]", j.relativePath)
		}
		return nil
	})

	close(jobs)
	options.Logger.Debug("Walker: Waiting for workers to complete...")
	wg.Wait()

	return walkErr
}
