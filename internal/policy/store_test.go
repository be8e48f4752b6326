package policy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePolicy(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestNewStore(t *testing.T) {
	_, err := NewStore("")
	assert.ErrorIs(t, err, ErrNoPolicyFile)

	path := filepath.Join(t.TempDir(), "policy.yaml")
	writePolicy(t, path, "exclusions: [/proc/]\n")

	s, err := NewStore(path, WithInline([]string{"*.tmp"}))
	require.NoError(t, err)

	snap := s.Current()
	require.NotNil(t, snap)
	assert.Equal(t, path, s.Path())
	assert.Equal(t, []string{"/proc/", "*.tmp"}, snap.Policy.Exclusions)
	assert.True(t, snap.Set.Excluded("/proc/1/maps", false, true))
	assert.True(t, snap.Set.Excluded("/x/y.tmp", false, true))
}

func TestStore_ReloadSwapsSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.json")
	writePolicy(t, path, `{"exclusions": ["/a/"]}`)

	var reloads atomic.Int32
	s, err := NewStore(path, WithOnReload(func(*Snapshot) { reloads.Add(1) }))
	require.NoError(t, err)
	before := s.Current()

	writePolicy(t, path, `{"exclusions": ["/b/"]}`)
	after, err := s.Reload()
	require.NoError(t, err)

	assert.Same(t, after, s.Current())
	assert.Equal(t, int32(1), reloads.Load())
	// the old snapshot is untouched for scans still holding it
	assert.True(t, before.Set.Excluded("/a/x", false, true))
	assert.False(t, after.Set.Excluded("/a/x", false, true))
	assert.True(t, after.Set.Excluded("/b/x", false, true))
}

func TestStore_FailedReloadKeepsPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.json")
	writePolicy(t, path, `{"exclusions": ["/a/"]}`)

	s, err := NewStore(path)
	require.NoError(t, err)
	before := s.Current()

	writePolicy(t, path, `{"exclusions": [`)
	_, err = s.Reload()
	require.Error(t, err)

	assert.Same(t, before, s.Current())
}

func TestStore_Watch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	writePolicy(t, path, "exclusions: [/a/]\n")

	reloaded := make(chan *Snapshot, 4)
	s, err := NewStore(path, WithOnReload(func(snap *Snapshot) {
		select {
		case reloaded <- snap:
		default:
		}
	}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()

	// give the watcher time to register before changing the file
	time.Sleep(100 * time.Millisecond)
	writePolicy(t, path, "exclusions: [/b/]\n")

	require.Eventually(t, func() bool {
		return s.Current().Set.Excluded("/b/x", false, true)
	}, 5*time.Second, 20*time.Millisecond)
	assert.NotEmpty(t, reloaded)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

type lineLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *lineLogger) add(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *lineLogger) Debug(format string, args ...interface{}) { l.add(format, args...) }
func (l *lineLogger) Info(format string, args ...interface{})  { l.add(format, args...) }
func (l *lineLogger) Warn(format string, args ...interface{})  { l.add(format, args...) }
func (l *lineLogger) Error(format string, args ...interface{}) { l.add(format, args...) }

func TestStore_LogPrefixes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	writePolicy(t, path, "exclusions: [/proc/]\n")

	log := &lineLogger{}
	_, err := NewStore(path, WithLogger(log))
	require.NoError(t, err)

	assert.Contains(t, log.lines, `exclusion: "/proc/" classified as STEM ("/proc/")`)
	assert.Contains(t, log.lines, "policy: loaded 1 exclusions from "+path)
}
