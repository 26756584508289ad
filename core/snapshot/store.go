// ABOUTME: Cache store keeps the most recent reading snapshot under a fixed key
// ABOUTME: Reads fail soft on missing, corrupt or expired entries and evict bad data

package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"shelf-widgets/core/domain"
	coreerrors "shelf-widgets/core/errors"
	"shelf-widgets/core/interfaces"
)

const (
	// DefaultKey is the single slot the snapshot is stored under
	DefaultKey = "goodreads_cache"

	// DefaultTTL is how long a committed snapshot is served from cache
	DefaultTTL = 24 * time.Hour
)

// Store reads and writes the cached snapshot
type Store struct {
	cache  interfaces.Cache
	logger interfaces.Logger
	key    string
	ttl    time.Duration
	now    func() time.Time
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithKey overrides the cache key
func WithKey(key string) StoreOption {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithTTL overrides the time-to-live
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates a store over the given cache backend
func NewStore(cache interfaces.Cache, logger interfaces.Logger, opts ...StoreOption) *Store {
	s := &Store{
		cache:  cache,
		logger: logger,
		key:    DefaultKey,
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the configured time-to-live
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Read returns the cached snapshot when one exists, decodes, and is younger than the TTL.
// Corrupt and expired entries are evicted so later reads do not repeat the check.
func (s *Store) Read(ctx context.Context) (domain.Snapshot, bool) {
	if s.cache == nil {
		return domain.Snapshot{}, false
	}

	data, err := s.cache.Get(ctx, s.key)
	if err != nil || len(data) == 0 {
		return domain.Snapshot{}, false
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.evict(ctx, "corrupt", &coreerrors.CacheCorruptError{Key: s.key, Err: err})
		return domain.Snapshot{}, false
	}

	if !snap.HasTimestamp() {
		s.evict(ctx, "corrupt", &coreerrors.CacheCorruptError{Key: s.key, Err: errors.New("missing timestamp")})
		return domain.Snapshot{}, false
	}

	if age := snap.Age(s.now()); age >= s.ttl {
		s.debug("Cached snapshot expired", map[string]interface{}{
			"key": s.key,
			"age": age.String(),
		})
		s.evict(ctx, "expired", nil)
		return domain.Snapshot{}, false
	}

	return snap.Clone(), true
}

// Write commits the snapshot, stamping CapturedAt with the commit time, and returns the
// committed value. The previous entry is overwritten unconditionally.
func (s *Store) Write(ctx context.Context, snap domain.Snapshot) (domain.Snapshot, error) {
	if s.cache == nil {
		return domain.Snapshot{}, errors.New("cache not configured")
	}

	committed := snap.Clone()
	// the persisted timestamp has millisecond resolution
	committed.CapturedAt = time.UnixMilli(s.now().UnixMilli())

	data, err := json.Marshal(committed)
	if err != nil {
		return domain.Snapshot{}, coreerrors.WrapError(err, "encode snapshot")
	}

	if err := s.cache.Set(ctx, s.key, data, s.ttl); err != nil {
		return domain.Snapshot{}, coreerrors.WrapError(err, "write snapshot")
	}
	return committed, nil
}

// Clear removes the cached snapshot
func (s *Store) Clear(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, s.key)
}

// evict deletes the entry, logging why
func (s *Store) evict(ctx context.Context, reason string, cause error) {
	fields := map[string]interface{}{
		"key":    s.key,
		"reason": reason,
	}
	if cause != nil {
		fields["error"] = cause.Error()
	}

	if err := s.cache.Delete(ctx, s.key); err != nil {
		fields["delete_error"] = err.Error()
	}

	if s.logger != nil {
		if cause != nil {
			s.logger.Warn("Evicted cached snapshot", fields)
		} else {
			s.logger.Debug("Evicted cached snapshot", fields)
		}
	}
}

func (s *Store) debug(msg string, fields map[string]interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, fields)
	}
}
