// Package walker handles directory traversal for scans
package walker

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
)

// job is one accepted file waiting for processing
type job struct {
	path, relativePath string
}

// counters backs ProgressStats
type counters struct {
	totalFiles     atomic.Int64
	processedFiles atomic.Int64
	skippedFiles   atomic.Int64
	totalDirs      atomic.Int64
	skippedDirs    atomic.Int64
}

func (c *counters) snapshot() ProgressStats {
	return ProgressStats{
		TotalFiles:     c.totalFiles.Load(),
		ProcessedFiles: c.processedFiles.Load(),
		SkippedFiles:   c.skippedFiles.Load(),
		TotalDirs:      c.totalDirs.Load(),
		SkippedDirs:    c.skippedDirs.Load(),
	}
}

// processFile stats an accepted file and calls walkFn with its entry
func processFile(j job, options WalkOptions, walkFn WalkFunc, tracker *SkippedTracker, stats *counters) {
	options.Logger.Debug("processFile: Examining [%s]", j.relativePath)

	if options.ProgressFn != nil {
		options.ProgressFn(ProgressStats{CurrentFilePath: j.relativePath})
	}

	entry := Entry{Path: j.path, RelativePath: j.relativePath}

	info, err := os.Lstat(j.path)
	if err != nil {
		options.Logger.Error("processFile Error [%s]: Failed to get file info: %v", j.relativePath, err)
		tracker.Track(j.relativePath, ReasonSkippedInfoError, false)
		stats.skippedFiles.Add(1)
		callback(options, walkFn, entry, fmt.Errorf("failed to get file info: %w", err))
		return
	}

	entry.Size = info.Size()
	entry.Mode = info.Mode()

	if !info.Mode().IsRegular() {
		options.Logger.Debug("processFile Skipping [%s]: Not a regular file.", j.relativePath)
		tracker.Track(j.relativePath, ReasonSkippedNotRegular, false)
		stats.skippedFiles.Add(1)
		return
	}

	if options.MaxFileSize > 0 && info.Size() > options.MaxFileSize {
		options.Logger.Debug("processFile Skipping [%s]: Exceeds size limit (%d > %d bytes)",
			j.relativePath, info.Size(), options.MaxFileSize)
		tracker.Track(j.relativePath, ReasonSkippedSizeLimit, false)
		stats.skippedFiles.Add(1)
		callback(options, walkFn, entry, fmt.Errorf("file size %d exceeds limit %d bytes", info.Size(), options.MaxFileSize))
		return
	}

	stats.processedFiles.Add(1)
	callback(options, walkFn, entry, nil)
}

func callback(options WalkOptions, walkFn WalkFunc, entry Entry, err error) {
	if cbErr := walkFn(entry, err); cbErr != nil {
		options.Logger.Error("processFile Error [%s]: Callback function returned error: %v", entry.RelativePath, cbErr)
	}
}

// fileProcessorWorker is the goroutine function for concurrent processing.
func fileProcessorWorker(
	id int,
	jobs <-chan job,
	wg *sync.WaitGroup,
	options WalkOptions,
	walkFn WalkFunc,
	tracker *SkippedTracker,
	stats *counters,
) {
	defer wg.Done()
	options.Logger.Debug("Worker %d: Started", id)

	for j := range jobs {
		select {
		case <-options.Context.Done():
			options.Logger.Debug("Worker %d: Received cancellation signal", id)
			return
		default:
			processFile(j, options, walkFn, tracker, stats)
		}
	}

	options.Logger.Debug("Worker %d: Finished", id)
}
