// Package store loads the candidate dataset from disk and serves cached
// snapshots with a bounded time-to-live.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/talentrank/talentrank/internal/domain"
)

// DefaultTTL is how long a loaded snapshot stays fresh before the next
// read reloads it from disk.
const DefaultTTL = 5 * time.Minute

// CandidateStore reads candidates from a JSON file and caches the decoded
// pool. Reads outside the TTL window reload the file; a reload failure
// while a stale snapshot exists serves the stale snapshot rather than
// failing the request.
type CandidateStore struct {
	path     string
	ttl      time.Duration
	validate *validator.Validate
	logger   *zap.Logger

	mu       sync.RWMutex
	pool     []domain.Candidate
	loadedAt time.Time
}

// NewCandidateStore builds a store for the dataset at path. A non-positive
// ttl falls back to DefaultTTL.
func NewCandidateStore(path string, ttl time.Duration, logger *zap.Logger) *CandidateStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CandidateStore{
		path:     path,
		ttl:      ttl,
		validate: validator.New(),
		logger:   logger,
	}
}

// Init loads the dataset eagerly so startup fails fast on a bad file.
func (cs *CandidateStore) Init(ctx context.Context) error {
	_, err := cs.reload(ctx)
	return err
}

// Candidates returns the current candidate pool, reloading from disk when
// the cached snapshot has expired. The returned slice is shared; callers
// must not mutate it.
func (cs *CandidateStore) Candidates(ctx context.Context) ([]domain.Candidate, error) {
	cs.mu.RLock()
	pool, loadedAt := cs.pool, cs.loadedAt
	cs.mu.RUnlock()

	if pool != nil && time.Since(loadedAt) < cs.ttl {
		return pool, nil
	}

	fresh, err := cs.reload(ctx)
	if err != nil {
		if pool != nil {
			cs.logger.Warn("dataset reload failed, serving stale snapshot",
				zap.String("path", cs.path),
				zap.Error(err))
			return pool, nil
		}
		return nil, err
	}
	return fresh, nil
}

// Size reports the number of candidates currently available.
func (cs *CandidateStore) Size(ctx context.Context) (int, error) {
	pool, err := cs.Candidates(ctx)
	if err != nil {
		return 0, err
	}
	return len(pool), nil
}

// Invalidate drops the cached snapshot; the next read reloads from disk.
func (cs *CandidateStore) Invalidate() {
	cs.mu.Lock()
	cs.pool = nil
	cs.loadedAt = time.Time{}
	cs.mu.Unlock()
}

// reload reads and decodes the dataset, replacing the cached snapshot
// atomically only on success.
func (cs *CandidateStore) reload(ctx context.Context) ([]domain.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(cs.path)
	if err != nil {
		return nil, fmt.Errorf("read candidate dataset %s: %w", cs.path, err)
	}

	var pool []domain.Candidate
	if err := json.Unmarshal(data, &pool); err != nil {
		return nil, fmt.Errorf("decode candidate dataset %s: %w", cs.path, err)
	}

	seen := make(map[string]struct{}, len(pool))
	for i, c := range pool {
		if err := cs.validate.Struct(c); err != nil {
			return nil, fmt.Errorf("candidate %d (%s) invalid: %w", i, c.ID, err)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("duplicate candidate id %q at index %d", c.ID, i)
		}
		seen[c.ID] = struct{}{}
	}

	cs.mu.Lock()
	cs.pool = pool
	cs.loadedAt = time.Now()
	cs.mu.Unlock()

	cs.logger.Info("candidate dataset loaded",
		zap.String("path", cs.path),
		zap.Int("candidates", len(pool)))
	return pool, nil
}
