// Package hook holds list and singleton state for admin screens and public
// pages. Every mutation is followed by a refetch of the current filter, so a
// caller that waited for a mutation sees its own write in the returned data.
package hook

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/devmart/internal/errs"
	"github.com/rs/zerolog"
)

// ReadTimeout bounds every backend read made by a hook.
var ReadTimeout = 10 * time.Second

// State is a snapshot of a hook.
type State[T any] struct {
	Data    T      `json:"data"`
	Loading bool   `json:"loading"`
	Err     string `json:"error,omitempty"`
}

// await runs read and gives up after ReadTimeout. The read itself is not
// cancelled: it runs to completion and a result that arrives after the
// deadline is discarded.
func await[R any](ctx context.Context, read func(context.Context) (R, error)) (R, error) {
	type result struct {
		value R
		err   error
	}

	readCtx := context.WithoutCancel(ctx)

	done := make(chan result, 1)
	go func() {
		value, err := read(readCtx)
		done <- result{value: value, err: err}
	}()

	timer := time.NewTimer(ReadTimeout)
	defer timer.Stop()

	var zero R
	select {
	case r := <-done:
		return r.value, r.err
	case <-timer.C:
		return zero, errs.ErrTimeout
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// filterHash 以 JSON 编码计算过滤条件的内容哈希。
func filterHash(filter any) uint64 {
	raw, err := json.Marshal(filter)
	if err != nil {
		return 0
	}
	return xxhash.Sum64(raw)
}

// List is the state of a filtered collection.
type List[T, F any] struct {
	name  string
	fetch func(context.Context, F) ([]T, error)
	log   zerolog.Logger

	mu     sync.Mutex
	filter F
	hash   uint64
	seq    uint64
	stale  bool
	state  State[[]T]
}

func newList[T, F any](name string, log zerolog.Logger, fetch func(context.Context, F) ([]T, error)) *List[T, F] {
	var filter F
	return &List[T, F]{
		name:   name,
		fetch:  fetch,
		log:    log.With().Str("hook", name).Logger(),
		filter: filter,
		hash:   filterHash(filter),
		stale:  true,
		state:  State[[]T]{Data: []T{}},
	}
}

// State returns a snapshot; Data is never nil.
func (l *List[T, F]) State() State[[]T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.state
	s.Data = copyItems(l.state.Data)
	return s
}

func (l *List[T, F]) Filter() F {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filter
}

// Stale reports whether the data no longer reflects the current filter.
func (l *List[T, F]) Stale() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stale
}

// SetFilter replaces the filter. It returns false and leaves the state alone
// when the new filter has the same content as the current one.
func (l *List[T, F]) SetFilter(filter F) bool {
	hash := filterHash(filter)

	l.mu.Lock()
	defer l.mu.Unlock()
	if hash == l.hash {
		return false
	}
	l.filter = filter
	l.hash = hash
	l.stale = true
	return true
}

// Apply sets the filter and refetches only if it changed or the data is stale.
func (l *List[T, F]) Apply(ctx context.Context, filter F) ([]T, error) {
	l.SetFilter(filter)
	if !l.Stale() {
		s := l.State()
		if s.Err == "" {
			return s.Data, nil
		}
	}
	return l.Refresh(ctx)
}

// Refresh reads the current filter from the backend.
func (l *List[T, F]) Refresh(ctx context.Context) ([]T, error) {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	filter := l.filter
	l.state.Loading = true
	l.mu.Unlock()

	items, err := await(ctx, func(ctx context.Context) ([]T, error) {
		return l.fetch(ctx, filter)
	})

	l.mu.Lock()
	defer l.mu.Unlock()
	if seq != l.seq {
		// 有更新的刷新已经发出，丢弃本次结果
		if err != nil {
			return nil, err
		}
		return copyItems(items), nil
	}

	l.state.Loading = false
	if err != nil {
		l.state.Err = err.Error()
		l.log.Warn().Err(err).Msg("hook read failed")
		return nil, err
	}
	l.state.Data = copyItems(items)
	l.state.Err = ""
	l.stale = false
	return copyItems(items), nil
}

// copyItems 返回非 nil 的副本，空列表编码为 []
func copyItems[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

// mutate runs write and then refetches. It returns only after the refetch
// finished.
func (l *List[T, F]) mutate(ctx context.Context, write func(context.Context) error) ([]T, error) {
	l.mu.Lock()
	l.state.Loading = true
	l.mu.Unlock()

	if err := write(ctx); err != nil {
		l.mu.Lock()
		l.state.Loading = false
		l.state.Err = err.Error()
		l.mu.Unlock()
		return nil, err
	}

	l.mu.Lock()
	l.stale = true
	l.mu.Unlock()
	return l.Refresh(ctx)
}

func create[T, F, I any](ctx context.Context, l *List[T, F], write func(context.Context, I) (*T, error), in I) (*T, []T, error) {
	var item *T
	items, err := l.mutate(ctx, func(ctx context.Context) error {
		var err error
		item, err = write(ctx, in)
		return err
	})
	if err != nil {
		return item, nil, err
	}
	return item, items, nil
}

func update[T, F, I any](ctx context.Context, l *List[T, F], write func(context.Context, string, I) (*T, error), id string, in I) (*T, []T, error) {
	var item *T
	items, err := l.mutate(ctx, func(ctx context.Context) error {
		var err error
		item, err = write(ctx, id, in)
		return err
	})
	if err != nil {
		return item, nil, err
	}
	return item, items, nil
}

func remove[T, F any](ctx context.Context, l *List[T, F], write func(context.Context, string) error, id string) ([]T, error) {
	return l.mutate(ctx, func(ctx context.Context) error {
		return write(ctx, id)
	})
}

// Single is the state of one value, such as the site settings.
type Single[T any] struct {
	name  string
	fetch func(context.Context) (*T, error)
	log   zerolog.Logger

	mu    sync.Mutex
	seq   uint64
	state State[*T]
}

func newSingle[T any](name string, log zerolog.Logger, fetch func(context.Context) (*T, error)) *Single[T] {
	return &Single[T]{
		name:  name,
		fetch: fetch,
		log:   log.With().Str("hook", name).Logger(),
	}
}

func (s *Single[T]) State() State[*T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Single[T]) Refresh(ctx context.Context) (*T, error) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.state.Loading = true
	s.mu.Unlock()

	value, err := await(ctx, s.fetch)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return value, err
	}
	s.state.Loading = false
	if err != nil {
		s.state.Err = err.Error()
		s.log.Warn().Err(err).Msg("hook read failed")
		return nil, err
	}
	s.state.Data = value
	s.state.Err = ""
	return value, nil
}

func (s *Single[T]) mutate(ctx context.Context, write func(context.Context) error) (*T, error) {
	if err := write(ctx); err != nil {
		s.mu.Lock()
		s.state.Err = err.Error()
		s.mu.Unlock()
		return nil, err
	}
	return s.Refresh(ctx)
}
