package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// snapshotLoadTimeout bounds a shared reload, which outlives the caller that
// started it.
const snapshotLoadTimeout = 10 * time.Second

// snapshot caches a collection loaded from the repository. Concurrent
// reloads of the same generation share one repository call.
type snapshot[T any] struct {
	name string
	ttl  time.Duration
	load func(ctx context.Context) ([]T, error)
	now  func() time.Time

	mu       sync.RWMutex
	items    []T
	loadedAt time.Time
	valid    bool
	gen      uint64

	group singleflight.Group
}

func newSnapshot[T any](name string, ttl time.Duration, load func(ctx context.Context) ([]T, error)) *snapshot[T] {
	return &snapshot[T]{name: name, ttl: ttl, load: load, now: time.Now}
}

// get returns the cached items, reloading them when stale. Callers must not
// modify the returned slice. A caller whose ctx ends stops waiting; the
// shared reload keeps going for the others.
func (s *snapshot[T]) get(ctx context.Context) ([]T, error) {
	s.mu.RLock()
	if s.valid && s.now().Sub(s.loadedAt) < s.ttl {
		items := s.items
		s.mu.RUnlock()
		return items, nil
	}
	gen := s.gen
	s.mu.RUnlock()

	// A reload started before an invalidation must not serve later callers.
	key := s.name + ":" + strconv.FormatUint(gen, 10)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), snapshotLoadTimeout)
		defer cancel()

		items, err := s.load(loadCtx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		if s.gen == gen {
			s.items = items
			s.loadedAt = s.now()
			s.valid = true
		}
		s.mu.Unlock()
		return items, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]T), nil
	}
}

// invalidate forces the next get to reload.
func (s *snapshot[T]) invalidate() {
	s.mu.Lock()
	s.valid = false
	s.gen++
	s.mu.Unlock()
}
