// Package walker handles directory traversal for scans
package walker

import (
	"io/fs"
	"sync"
)

// Entry is a regular file accepted for scanning
type Entry struct {
	Path         string      `json:"path"`
	RelativePath string      `json:"relative_path"`
	Size         int64       `json:"size"`
	Mode         fs.FileMode `json:"mode"`
}

// WalkFunc is the callback function type used by Walk. A non-nil err means
// the entry could not be examined; Entry.Path is still set.
type WalkFunc func(entry Entry, err error) error

// SkippedReason clarifies why a file/directory was not processed.
type SkippedReason string

const (
	ReasonFilteredExtension SkippedReason = "Filtered (Extension Mismatch)"
	ReasonSkippedSizeLimit  SkippedReason = "Skipped (Size Limit Exceeded)"
	ReasonSkippedNotRegular SkippedReason = "Skipped (Not a Regular File)"
	ReasonSkippedPermError  SkippedReason = "Skipped (Permission Error)"
	ReasonSkippedWalkError  SkippedReason = "Skipped (Walk Error)"
	ReasonSkippedInfoError  SkippedReason = "Skipped (File Info Error)"
	ReasonSkippedPathError  SkippedReason = "Skipped (Path Calculation Error)"
)

// SkippedItem holds information about a skipped path.
type SkippedItem struct {
	Path   string        `json:"path"`
	Reason SkippedReason `json:"reason"`
	IsDir  bool          `json:"is_dir"`
	// Exclusion is the configured exclusion that caused the skip, if any.
	Exclusion string `json:"exclusion,omitempty"`
}

// SkippedTracker is a struct to track skipped items
type SkippedTracker struct {
	items []SkippedItem
	mutex sync.Mutex
}

// NewSkippedTracker creates a new SkippedTracker
func NewSkippedTracker(capacity int) *SkippedTracker {
	return &SkippedTracker{
		items: make([]SkippedItem, 0, capacity),
	}
}

// Track adds a skipped item to the tracker
func (st *SkippedTracker) Track(path string, reason SkippedReason, isDir bool) {
	st.add(SkippedItem{Path: path, Reason: reason, IsDir: isDir})
}

// TrackExclusion records an item skipped by a configured exclusion
func (st *SkippedTracker) TrackExclusion(path string, reason SkippedReason, isDir bool, exclusion string) {
	st.add(SkippedItem{Path: path, Reason: reason, IsDir: isDir, Exclusion: exclusion})
}

func (st *SkippedTracker) add(item SkippedItem) {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	st.items = append(st.items, item)
}

// Items returns a copy of the tracked skipped items
func (st *SkippedTracker) Items() []SkippedItem {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	out := make([]SkippedItem, len(st.items))
	copy(out, st.items)
	return out
}
