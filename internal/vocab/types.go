package vocab

import "time"

// MaxMastery is the top of the mastery scale.
const MaxMastery = 5

// Entry is the per-term spaced-repetition record for one learner.
// Entries are created on first encounter and updated forever after; they are
// never deleted.
type Entry struct {
	Term         string    `json:"term" db:"term"`
	SeenCount    int       `json:"seen_count" db:"seen_count"`
	CorrectCount int       `json:"correct_count" db:"correct_count"`
	Mastery      int       `json:"mastery" db:"mastery"`
	LastSeenAt   time.Time `json:"last_seen_at" db:"last_seen_at"`
	NextReviewAt time.Time `json:"next_review_at" db:"next_review_at"`
}

// IsDue reports whether the term is due for review at or past now.
func (e *Entry) IsDue(now time.Time) bool {
	return !now.Before(e.NextReviewAt)
}

// OverdueDays returns how many days past due the term is, or 0 if not due.
func (e *Entry) OverdueDays(now time.Time) float64 {
	if now.Before(e.NextReviewAt) {
		return 0
	}
	return now.Sub(e.NextReviewAt).Hours() / 24.0
}
