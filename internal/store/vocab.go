package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/thanida/engbee/internal/vocab"
)

// VocabRepo persists per-term spaced-repetition entries.
type VocabRepo interface {
	// Load returns the user's full vocabulary map keyed by term.
	Load(ctx context.Context, userID string) (map[string]*vocab.Entry, error)

	// Get returns a single entry, or nil when the term is unknown.
	Get(ctx context.Context, userID, term string) (*vocab.Entry, error)

	// Save upserts one entry.
	Save(ctx context.Context, userID string, e *vocab.Entry) error
}

type vocabRepo struct {
	db *sqlx.DB
}

func (r *vocabRepo) Load(ctx context.Context, userID string) (map[string]*vocab.Entry, error) {
	var rows []vocab.Entry
	err := r.db.SelectContext(ctx, &rows,
		`SELECT term, seen_count, correct_count, mastery, last_seen_at, next_review_at
		 FROM vocab WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("load vocab: %w", err)
	}

	out := make(map[string]*vocab.Entry, len(rows))
	for i := range rows {
		out[rows[i].Term] = &rows[i]
	}
	return out, nil
}

func (r *vocabRepo) Get(ctx context.Context, userID, term string) (*vocab.Entry, error) {
	var e vocab.Entry
	err := r.db.GetContext(ctx, &e,
		`SELECT term, seen_count, correct_count, mastery, last_seen_at, next_review_at
		 FROM vocab WHERE user_id = ? AND term = ?`, userID, term)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vocab entry: %w", err)
	}
	return &e, nil
}

func (r *vocabRepo) Save(ctx context.Context, userID string, e *vocab.Entry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO vocab (user_id, term, seen_count, correct_count, mastery, last_seen_at, next_review_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, term) DO UPDATE SET
			seen_count = excluded.seen_count,
			correct_count = excluded.correct_count,
			mastery = excluded.mastery,
			last_seen_at = excluded.last_seen_at,
			next_review_at = excluded.next_review_at`,
		userID, e.Term, e.SeenCount, e.CorrectCount, e.Mastery, e.LastSeenAt, e.NextReviewAt)
	if err != nil {
		return fmt.Errorf("save vocab entry: %w", err)
	}
	return nil
}
