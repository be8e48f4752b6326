package policy

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bethropolis/exscan/internal/exclusion"
	"github.com/bethropolis/exscan/internal/utils"
	"github.com/fsnotify/fsnotify"
)

// Snapshot is one loaded policy with its compiled exclusions. It is never
// modified after it is published.
type Snapshot struct {
	Policy   *Policy
	Set      *exclusion.Set
	LoadedAt time.Time
}

// Store owns the current Snapshot for a policy file. Readers take the
// snapshot once per scan; reloads replace it wholesale.
type Store struct {
	path     string
	inline   []string
	logger   utils.Logger
	base     utils.Logger
	onReload func(*Snapshot)

	reloadMu sync.Mutex
	current  atomic.Pointer[Snapshot]
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithLogger sets the store logger. Store messages are prefixed with
// "policy: "; the compiled sets log through logger directly.
func WithLogger(logger utils.Logger) StoreOption {
	return func(s *Store) {
		s.base = logger
		s.logger = utils.WithPrefix(logger, "policy")
	}
}

// WithInline adds exclusions that are merged after the file's on every load
func WithInline(exclusions []string) StoreOption {
	return func(s *Store) {
		s.inline = append([]string(nil), exclusions...)
	}
}

// WithOnReload registers a callback run after each successful Reload
func WithOnReload(fn func(*Snapshot)) StoreOption {
	return func(s *Store) {
		s.onReload = fn
	}
}

// NewStore loads path and returns a Store holding the result
func NewStore(path string, opts ...StoreOption) (*Store, error) {
	if path == "" {
		return nil, ErrNoPolicyFile
	}

	s := &Store{
		path:   path,
		logger: utils.NoopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the watched policy file
func (s *Store) Path() string {
	return s.path
}

// Current returns the latest snapshot
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Reload re-reads the policy file. On failure the previous snapshot stays
// in place and the error is returned.
func (s *Store) Reload() (*Snapshot, error) {
	snap, err := s.load()
	if err != nil {
		s.logger.Warn("reload of %s failed, keeping previous exclusions: %v", s.path, err)
		return nil, err
	}
	if s.onReload != nil {
		s.onReload(snap)
	}
	return snap, nil
}

func (s *Store) load() (*Snapshot, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	p, err := Load(s.path)
	if err != nil {
		return nil, err
	}
	p = p.Merge(s.inline)

	snap := &Snapshot{
		Policy:   p,
		Set:      p.Compile(exclusion.WithLogger(s.base)),
		LoadedAt: time.Now(),
	}
	s.current.Store(snap)
	s.logger.Info("loaded %d exclusions from %s", snap.Set.Len(), s.path)
	return snap, nil
}

// Watch reloads the policy whenever its file is written or recreated, until
// ctx is done. The parent directory is watched so that editors which save
// by renaming a temporary file are seen too.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("policy: create watcher: %w", err)
	}
	defer watcher.Close()

	target, err := filepath.Abs(s.path)
	if err != nil {
		return fmt.Errorf("policy: resolve %s: %w", s.path, err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("policy: watch %s: %w", filepath.Dir(target), err)
	}
	s.logger.Debug("watching %s", target)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			s.logger.Debug("%s changed (%s)", target, event.Op)
			// errors are logged by Reload; the previous set stays active
			_, _ = s.Reload()
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error: %v", werr)
		}
	}
}
