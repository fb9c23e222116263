package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/thanida/engbee/internal/progress"
)

// ProfileRepo persists the per-learner aggregate progress record.
type ProfileRepo interface {
	// Load returns the user's profile, or a fresh default when none is
	// stored. Level is recomputed from XP on every load.
	Load(ctx context.Context, userID string) (*progress.Profile, error)

	// Save upserts the profile. Level is derived and never stored.
	Save(ctx context.Context, p *progress.Profile) error
}

type profileRepo struct {
	db *sqlx.DB
}

type profileRow struct {
	progress.Profile
	RecentScores string `db:"recent_scores"`
}

func (r *profileRepo) Load(ctx context.Context, userID string) (*progress.Profile, error) {
	var row profileRow
	err := r.db.GetContext(ctx, &row,
		`SELECT user_id, xp, streak_count, last_active_date, lessons_completed,
			next_lesson_index, active_lesson_id, recent_scores
		 FROM profiles WHERE user_id = ?`, userID)
	if err != nil {
		if isNoRows(err) {
			return progress.DefaultProfile(userID), nil
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	p := row.Profile
	if row.RecentScores != "" {
		if err := json.Unmarshal([]byte(row.RecentScores), &p.RecentScores); err != nil {
			return nil, fmt.Errorf("decode recent scores: %w", err)
		}
	}
	p.Level = progress.ComputeLevel(p.XP).Level
	return &p, nil
}

func (r *profileRepo) Save(ctx context.Context, p *progress.Profile) error {
	scores := p.RecentScores
	if scores == nil {
		scores = []float64{}
	}
	encoded, err := json.Marshal(scores)
	if err != nil {
		return fmt.Errorf("encode recent scores: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, xp, streak_count, last_active_date,
			lessons_completed, next_lesson_index, active_lesson_id, recent_scores)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
			xp = excluded.xp,
			streak_count = excluded.streak_count,
			last_active_date = excluded.last_active_date,
			lessons_completed = excluded.lessons_completed,
			next_lesson_index = excluded.next_lesson_index,
			active_lesson_id = excluded.active_lesson_id,
			recent_scores = excluded.recent_scores`,
		p.UserID, p.XP, p.StreakCount, p.LastActiveDate,
		p.LessonsCompleted, p.NextLessonIndex, p.ActiveLessonID, string(encoded))
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
