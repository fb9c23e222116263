// Package vocab implements the per-term mastery state machine and its
// expanding review schedule.
package vocab

import (
	"sort"
	"strings"
	"time"
)

// ScheduleDays is the review interval table in days, indexed by bucket.
var ScheduleDays = []int{1, 3, 7, 14, 30}

// RecordOutcome folds one practice outcome into the term's entry and computes
// the next review date. Passing a nil existing entry creates a fresh one.
//
// Bucket selection is asymmetric on purpose: a correct answer schedules at
// min(mastery-1, 4) using the raised mastery, while an incorrect answer
// schedules at the lowered mastery value itself, which lands one interval
// short of that level's success interval. A term failing repeatedly at
// mastery 0 therefore stays on the 1-day interval. Product has not confirmed
// the intent behind the asymmetry; do not "fix" it without a decision.
func RecordOutcome(term string, correct bool, existing *Entry, now time.Time) *Entry {
	e := &Entry{Term: strings.TrimSpace(term)}
	if existing != nil {
		*e = *existing
	}

	e.SeenCount++

	var bucket int
	if correct {
		e.CorrectCount++
		e.Mastery = min(e.Mastery+1, MaxMastery)
		bucket = min(e.Mastery-1, len(ScheduleDays)-1)
	} else {
		e.Mastery = max(e.Mastery-1, 0)
		bucket = e.Mastery
	}
	if bucket < 0 {
		bucket = 0
	}
	if bucket >= len(ScheduleDays) {
		bucket = len(ScheduleDays) - 1
	}

	e.LastSeenAt = now
	e.NextReviewAt = now.Add(time.Duration(ScheduleDays[bucket]) * 24 * time.Hour)
	return e
}

// DueEntries returns up to limit entries due at now, most overdue first with
// the term as a deterministic tiebreaker.
func DueEntries(entries []*Entry, now time.Time, limit int) []*Entry {
	var due []*Entry
	for _, e := range entries {
		if e.IsDue(now) {
			due = append(due, e)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		oi, oj := due[i].OverdueDays(now), due[j].OverdueDays(now)
		if oi != oj {
			return oi > oj
		}
		return due[i].Term < due[j].Term
	})

	if limit > 0 && len(due) > limit {
		return due[:limit]
	}
	return due
}
