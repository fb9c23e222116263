// Package ratelimit tracks per-identity daily request quotas in process
// memory. Counters are keyed by identity and UTC calendar day, and the total
// key count is soft-bounded: when full, the insertion-order-oldest entry is
// evicted. That is deliberately not strict LRU — the bound exists to cap
// memory, not to be fair under churn.
package ratelimit

import (
	"container/list"
	"sync"
	"time"
)

const (
	// DefaultDailyCeiling is the number of allowed calls per identity per
	// UTC calendar day.
	DefaultDailyCeiling = 200

	// DefaultMaxKeys bounds the number of live (identity, day) counters.
	DefaultMaxKeys = 1000
)

// Limiter is a daily quota tracker safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	ceiling int
	maxKeys int
	counts  map[string]*list.Element
	order   *list.List // oldest at front
	now     func() time.Time
}

type entry struct {
	key   string
	count int
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithCeiling overrides the daily ceiling.
func WithCeiling(n int) Option {
	return func(l *Limiter) { l.ceiling = n }
}

// WithMaxKeys overrides the key-cardinality bound.
func WithMaxKeys(n int) Option {
	return func(l *Limiter) { l.maxKeys = n }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a Limiter with the default ceiling and key bound.
func New(opts ...Option) *Limiter {
	l := &Limiter{
		ceiling: DefaultDailyCeiling,
		maxKeys: DefaultMaxKeys,
		counts:  make(map[string]*list.Element),
		order:   list.New(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow reports whether identity may make another call today. At or above
// the ceiling it returns false without mutating the counter; otherwise it
// increments and returns true.
func (l *Limiter) Allow(identity string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := identity + ":" + dayKey(l.now())

	if el, ok := l.counts[key]; ok {
		e := el.Value.(*entry)
		if e.count >= l.ceiling {
			return false
		}
		e.count++
		return true
	}

	if l.ceiling <= 0 {
		return false
	}

	if len(l.counts) >= l.maxKeys {
		oldest := l.order.Front()
		if oldest != nil {
			l.order.Remove(oldest)
			delete(l.counts, oldest.Value.(*entry).key)
		}
	}

	l.counts[key] = l.order.PushBack(&entry{key: key, count: 1})
	return true
}

// Remaining returns how many calls identity has left today.
func (l *Limiter) Remaining(identity string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := identity + ":" + dayKey(l.now())
	if el, ok := l.counts[key]; ok {
		left := l.ceiling - el.Value.(*entry).count
		if left < 0 {
			return 0
		}
		return left
	}
	return l.ceiling
}

// ResetBoundary returns the next UTC midnight, when today's counters stop
// applying. Included in 429 responses so clients know when to come back.
func (l *Limiter) ResetBoundary() time.Time {
	day := l.now().UTC().Truncate(24 * time.Hour)
	return day.Add(24 * time.Hour)
}

// dayKey renders the UTC calendar date. All day-boundary logic in this
// codebase uses UTC.
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
