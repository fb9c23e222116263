package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/thanida/engbee/internal/lesson"
)

// ProgressRepo persists per-lesson item progress.
type ProgressRepo interface {
	// Load returns the lesson's progress, or an empty record when none is
	// stored.
	Load(ctx context.Context, lessonID string) (*lesson.Progress, error)

	// Save upserts the lesson's progress.
	Save(ctx context.Context, lessonID string, p *lesson.Progress) error
}

type progressRepo struct {
	db *sqlx.DB
}

type progressRow struct {
	LessonID         string `db:"lesson_id"`
	CompletedIndices string `db:"completed_indices"`
	LastIndex        int    `db:"last_index"`
}

func (r *progressRepo) Load(ctx context.Context, lessonID string) (*lesson.Progress, error) {
	var row progressRow
	err := r.db.GetContext(ctx, &row,
		`SELECT * FROM lesson_progress WHERE lesson_id = ?`, lessonID)
	if err != nil {
		if isNoRows(err) {
			return &lesson.Progress{}, nil
		}
		return nil, fmt.Errorf("load lesson progress: %w", err)
	}

	var p lesson.Progress
	if err := json.Unmarshal([]byte(row.CompletedIndices), &p.CompletedIndices); err != nil {
		return nil, fmt.Errorf("decode completed indices: %w", err)
	}
	p.LastIndex = row.LastIndex
	return &p, nil
}

func (r *progressRepo) Save(ctx context.Context, lessonID string, p *lesson.Progress) error {
	indices := p.CompletedIndices
	if indices == nil {
		indices = []int{}
	}
	raw, err := json.Marshal(indices)
	if err != nil {
		return fmt.Errorf("encode completed indices: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO lesson_progress (lesson_id, completed_indices, last_index)
		 VALUES (?, ?, ?)
		 ON CONFLICT (lesson_id) DO UPDATE SET
			completed_indices = excluded.completed_indices,
			last_index = excluded.last_index`,
		lessonID, string(raw), p.LastIndex)
	if err != nil {
		return fmt.Errorf("save lesson progress: %w", err)
	}
	return nil
}
