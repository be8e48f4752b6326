// Package summary handles display of scan results and statistics
package summary

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/bethropolis/exscan/internal/walker"
	"github.com/dustin/go-humanize"
)

// Logger defines the minimal logging interface required
type Logger interface {
	Info(format string, args ...interface{})
}

// DisplayResults shows the end results of a scan operation
func DisplayResults(
	logger Logger,
	fileCount int64,
	totalBytes int64,
	duration time.Duration,
	quiet bool,
) {
	if !quiet {
		logger.Info("Found %d files to scan (%s).", fileCount, humanize.IBytes(uint64(totalBytes)))
		logger.Info("Walk complete in %v.", duration.Round(time.Millisecond))
	}
}

// ExclusionHit counts the entries one exclusion skipped
type ExclusionHit struct {
	Exclusion string
	Count     int
}

// ExclusionHits tallies skipped items per exclusion, most hits first
func ExclusionHits(items []walker.SkippedItem) []ExclusionHit {
	counts := make(map[string]int)
	for _, item := range items {
		if item.Exclusion != "" {
			counts[item.Exclusion]++
		}
	}

	hits := make([]ExclusionHit, 0, len(counts))
	for exclusion, count := range counts {
		hits = append(hits, ExclusionHit{Exclusion: exclusion, Count: count})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Count != hits[j].Count {
			return hits[i].Count > hits[j].Count
		}
		return hits[i].Exclusion < hits[j].Exclusion
	})
	return hits
}

// DisplaySkippedItems formats and prints information about skipped items
func DisplaySkippedItems(
	logger Logger,
	skippedItems []walker.SkippedItem,
	output io.Writer,
	quiet bool,
) {
	infoLog := func(format string, args ...interface{}) {
		if !quiet {
			logger.Info(format, args...)
		}
	}

	infoLog("--- Skipped Items (%d) ---", len(skippedItems))
	if len(skippedItems) == 0 {
		infoLog("No items were skipped.")
		infoLog("--- End Skipped Items ---")
		return
	}

	sort.Slice(skippedItems, func(i, j int) bool {
		return skippedItems[i].Path < skippedItems[j].Path
	})
	// pad to the longest path so reasons line up; paths are never cut
	width := 0
	for _, item := range skippedItems {
		if len(item.Path) > width {
			width = len(item.Path)
		}
	}
	for _, item := range skippedItems {
		typeStr := "FILE"
		if item.IsDir {
			typeStr = "DIR " // Add space for alignment
		}
		reason := string(item.Reason)
		if item.Exclusion != "" {
			reason += ": " + item.Exclusion
		}
		fmt.Fprintf(output, "Skipped %s: %-*s [%s]\n",
			typeStr,
			width,
			item.Path,
			reason,
		)
	}

	for _, hit := range ExclusionHits(skippedItems) {
		fmt.Fprintf(output, "Exclusion %q skipped %d %s\n", hit.Exclusion, hit.Count, plural(hit.Count, "entry", "entries"))
	}
	infoLog("--- End Skipped Items ---")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
