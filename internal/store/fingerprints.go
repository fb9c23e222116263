package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// FingerprintRepo tracks the sentence and lesson fingerprints a learner has
// already seen, for duplicate avoidance.
type FingerprintRepo interface {
	// LoadKnown returns every recorded fingerprint for the user.
	LoadKnown(ctx context.Context, userID string) ([]string, error)

	// Record stores one fingerprint. Recording the same fingerprint twice
	// is a no-op, not an error.
	Record(ctx context.Context, userID, fp string) error
}

type fingerprintRepo struct {
	db *sqlx.DB
}

func (r *fingerprintRepo) LoadKnown(ctx context.Context, userID string) ([]string, error) {
	var fps []string
	err := r.db.SelectContext(ctx, &fps,
		`SELECT fingerprint FROM fingerprints WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("load fingerprints: %w", err)
	}
	return fps, nil
}

func (r *fingerprintRepo) Record(ctx context.Context, userID, fp string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO fingerprints (user_id, fingerprint) VALUES (?, ?)
		 ON CONFLICT (user_id, fingerprint) DO NOTHING`, userID, fp)
	if err != nil {
		return fmt.Errorf("record fingerprint: %w", err)
	}
	return nil
}
