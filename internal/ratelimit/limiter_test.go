package ratelimit

import (
	"fmt"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAllow_CeilingBoundary(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	l := New(WithCeiling(200), WithClock(fixedClock(now)))

	for i := 0; i < 200; i++ {
		if !l.Allow("uid:bee") {
			t.Fatalf("call %d rejected below the ceiling", i+1)
		}
	}
	if l.Allow("uid:bee") {
		t.Errorf("call 201 must be rejected")
	}
	if got := l.Remaining("uid:bee"); got != 0 {
		t.Errorf("remaining after exhaustion = %d, want 0", got)
	}
	// The rejected call must not have mutated the counter.
	if l.Allow("uid:bee") {
		t.Errorf("counter mutated by a rejected call")
	}
}

func TestAllow_NewDayResets(t *testing.T) {
	day1 := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)
	current := day1
	l := New(WithCeiling(1), WithClock(func() time.Time { return current }))

	if !l.Allow("uid:bee") {
		t.Fatalf("first call rejected")
	}
	if l.Allow("uid:bee") {
		t.Fatalf("second call on the same day allowed")
	}

	current = day1.Add(2 * time.Minute) // crosses UTC midnight
	if !l.Allow("uid:bee") {
		t.Errorf("call on the next calendar day rejected")
	}
}

func TestAllow_IdentitiesIndependent(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	l := New(WithCeiling(1), WithClock(fixedClock(now)))

	if !l.Allow("uid:a") || !l.Allow("uid:b") {
		t.Errorf("identities must not share counters")
	}
}

func TestEviction_SoftBound(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	l := New(WithCeiling(5), WithMaxKeys(3), WithClock(fixedClock(now)))

	for i := 0; i < 4; i++ {
		l.Allow(fmt.Sprintf("uid:%d", i))
	}

	l.mu.Lock()
	n := len(l.counts)
	l.mu.Unlock()
	if n != 3 {
		t.Errorf("key count = %d, want 3 after eviction", n)
	}

	// The oldest identity was evicted, so its count starts fresh.
	if got := l.Remaining("uid:0"); got != 5 {
		t.Errorf("evicted identity remaining = %d, want full ceiling", got)
	}
}

func TestResetBoundary(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	l := New(WithClock(fixedClock(now)))

	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if got := l.ResetBoundary(); !got.Equal(want) {
		t.Errorf("ResetBoundary = %v, want %v", got, want)
	}
}
