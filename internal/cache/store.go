package cache

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/weathr/internal/fsys"
)

// Common cache errors.
var (
	ErrCacheNotFound   = errors.New("cache entry not found")
	ErrInvalidCacheKey = errors.New("invalid cache key")
	ErrCacheDisabled   = errors.New("cache is disabled")
	ErrNoExpiration    = errors.New("response has no expiration")
	ErrBadEntryName    = errors.New("not a cache entry name")
)

// FileStore is the response cache. Each key owns one directory under root and
// each file in it is a response body named by its expiration instant.
type FileStore struct {
	root   string
	fs     fsys.FS
	now    func() time.Time
	logger zerolog.Logger

	// mu serializes sweeps and writes within this process only.
	mu sync.Mutex
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *FileStore) { s.now = now }
}

// WithLogger sets the logger used for swallowed failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *FileStore) { s.logger = logger }
}

// NewFileStore creates a store rooted at root. An empty root yields a disabled
// store; the directory itself is created lazily on the first write.
func NewFileStore(root string, filesystem fsys.FS, opts ...Option) *FileStore {
	s := &FileStore{
		root:   root,
		fs:     filesystem,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsEnabled returns true if the store has somewhere to write.
func (s *FileStore) IsEnabled() bool {
	return s.root != "" && s.fs != nil
}

// Root returns the cache root directory.
func (s *FileStore) Root() string {
	return s.root
}

// Put stores body under key, valid until expiresAt.
//
// A failure here only costs future cache hits, so the error is logged before it
// is returned and callers are free to ignore it.
func (s *FileStore) Put(key string, expiresAt time.Time, body []byte) error {
	if !s.IsEnabled() {
		return ErrCacheDisabled
	}
	if expiresAt.IsZero() {
		return ErrNoExpiration
	}

	dir, err := s.keyDir(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if mkErr := s.fs.MkdirAll(dir); mkErr != nil {
		s.logger.Warn().Err(mkErr).Str("dir", dir).Msg("could not create cache directory")
		return fmt.Errorf("creating cache directory: %w", mkErr)
	}

	name := filepath.Join(dir, FormatExpiration(expiresAt))
	if writeErr := s.fs.WriteFile(name, body); writeErr != nil {
		s.logger.Warn().Err(writeErr).Str("file", name).Msg("could not write cache entry")
		return fmt.Errorf("writing cache entry: %w", writeErr)
	}

	s.logger.Debug().
		Str("key", key).
		Time("expires_at", expiresAt.UTC()).
		Int("bytes", len(body)).
		Msg("cached response")
	return nil
}

// Get returns the cached body for key, or false when nothing usable is cached.
func (s *FileStore) Get(key string) ([]byte, bool) {
	entry, err := s.Lookup(key)
	if err != nil {
		if !errors.Is(err, ErrCacheNotFound) && !errors.Is(err, ErrCacheDisabled) {
			s.logger.Warn().Err(err).Str("key", key).Msg("cache lookup failed")
		}
		return nil, false
	}
	return entry.Body, true
}

// Lookup sweeps every expired entry for key and returns the unexpired entry
// with the latest expiration. It returns ErrCacheNotFound when none is left.
func (s *FileStore) Lookup(key string) (*CacheEntry, error) {
	if !s.IsEnabled() {
		return nil, ErrCacheDisabled
	}

	dir, err := s.keyDir(key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		if fsys.IsNotExist(err) {
			return nil, ErrCacheNotFound
		}
		return nil, fmt.Errorf("listing cache directory: %w", err)
	}

	now := s.now()
	var best *CacheEntry
	var bestFile string
	live := 0

	for _, dirEntry := range entries {
		name := dirEntry.Name()
		if dirEntry.IsDir() || fsys.IsTemp(name) {
			continue
		}

		expiresAt, parseErr := ParseExpiration(name)
		if parseErr != nil {
			s.logger.Debug().Str("file", name).Msg("ignoring foreign file in cache directory")
			live++
			continue
		}

		candidate := &CacheEntry{Key: key, ExpiresAt: expiresAt}
		if candidate.IsExpired(now) {
			s.sweep(filepath.Join(dir, name))
			continue
		}

		live++
		if best == nil || expiresAt.After(best.ExpiresAt) {
			best = candidate
			bestFile = filepath.Join(dir, name)
		}
	}

	if live == 0 {
		// Only succeeds when the directory is empty.
		_ = s.fs.Remove(dir)
	}

	if best == nil {
		return nil, ErrCacheNotFound
	}

	body, err := s.fs.ReadFile(bestFile)
	if err != nil {
		if fsys.IsNotExist(err) {
			return nil, ErrCacheNotFound
		}
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}
	best.Body = body

	s.logger.Debug().
		Str("key", key).
		Dur("remaining", best.TimeUntilExpiration(now)).
		Msg("cache hit")
	return best, nil
}

// PurgeAll deletes the whole cache tree.
func (s *FileStore) PurgeAll() error {
	if !s.IsEnabled() {
		return ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	keys := s.countKeys()
	if err := s.fs.RemoveAll(s.root); err != nil {
		return fmt.Errorf("purging cache %s: %w", s.root, err)
	}
	s.logger.Info().Str("root", s.root).Int("keys", keys).Msg("cache purged")
	return nil
}

// countKeys returns how many key directories under the root decode to a
// cache key. Must be called with mu held.
func (s *FileStore) countKeys() int {
	entries, err := s.fs.ReadDir(s.root)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, decodeErr := DecodeKey(e.Name()); decodeErr == nil {
			n++
		}
	}
	return n
}

// sweep deletes one expired entry file. Must be called with mu held.
func (s *FileStore) sweep(file string) {
	if err := s.fs.Remove(file); err != nil && !fsys.IsNotExist(err) {
		s.logger.Warn().Err(err).Str("file", file).Msg("could not remove expired cache entry")
		return
	}
	s.logger.Debug().Str("file", file).Msg("removed expired cache entry")
}

// keyDir converts a cache key to its directory path.
func (s *FileStore) keyDir(key string) (string, error) {
	encoded, err := EncodeKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, encoded), nil
}
