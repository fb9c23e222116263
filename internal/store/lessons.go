package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/thanida/engbee/internal/lesson"
)

// LessonRepo persists generated lessons. Lessons are never deleted; the
// accumulated set doubles as the duplicate-avoidance history.
type LessonRepo interface {
	// Save stores a new lesson for the user.
	Save(ctx context.Context, userID string, l *lesson.Lesson) error

	// Get returns a lesson by id, or nil when unknown.
	Get(ctx context.Context, id string) (*lesson.Lesson, error)

	// List returns the user's lessons, newest first, up to limit
	// (0 means no limit).
	List(ctx context.Context, userID string, limit int) ([]*lesson.Lesson, error)

	// MarkCompleted flips a lesson to completed at the given time.
	MarkCompleted(ctx context.Context, id string, at time.Time) error
}

type lessonRepo struct {
	db *sqlx.DB
}

// lessonRow is the flat database shape; items travel as a JSON column.
type lessonRow struct {
	ID          string       `db:"id"`
	UserID      string       `db:"user_id"`
	Title       string       `db:"title"`
	LevelTag    string       `db:"level_tag"`
	Topic       string       `db:"topic"`
	Items       string       `db:"items"`
	Fingerprint string       `db:"fingerprint"`
	Status      string       `db:"status"`
	CreatedAt   time.Time    `db:"created_at"`
	CompletedAt sql.NullTime `db:"completed_at"`
}

func (row *lessonRow) toLesson() (*lesson.Lesson, error) {
	var items []lesson.Item
	if err := json.Unmarshal([]byte(row.Items), &items); err != nil {
		return nil, fmt.Errorf("decode lesson items: %w", err)
	}
	l := &lesson.Lesson{
		ID:          row.ID,
		Title:       row.Title,
		LevelTag:    lesson.LevelTag(row.LevelTag),
		Topic:       row.Topic,
		Items:       items,
		Fingerprint: row.Fingerprint,
		Status:      lesson.Status(row.Status),
		CreatedAt:   row.CreatedAt,
	}
	if row.CompletedAt.Valid {
		t := row.CompletedAt.Time
		l.CompletedAt = &t
	}
	return l, nil
}

func (r *lessonRepo) Save(ctx context.Context, userID string, l *lesson.Lesson) error {
	items, err := json.Marshal(l.Items)
	if err != nil {
		return fmt.Errorf("encode lesson items: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO lessons (id, user_id, title, level_tag, topic, items,
			fingerprint, status, created_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)`,
		l.ID, userID, l.Title, string(l.LevelTag), l.Topic, string(items),
		l.Fingerprint, string(l.Status), l.CreatedAt)
	if err != nil {
		return fmt.Errorf("save lesson: %w", err)
	}
	return nil
}

func (r *lessonRepo) Get(ctx context.Context, id string) (*lesson.Lesson, error) {
	var row lessonRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM lessons WHERE id = ?`, id)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	return row.toLesson()
}

func (r *lessonRepo) List(ctx context.Context, userID string, limit int) ([]*lesson.Lesson, error) {
	query := `SELECT * FROM lessons WHERE user_id = ? ORDER BY created_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var rows []lessonRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}

	out := make([]*lesson.Lesson, 0, len(rows))
	for i := range rows {
		l, err := rows[i].toLesson()
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *lessonRepo) MarkCompleted(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE lessons SET status = ?, completed_at = ? WHERE id = ?`,
		string(lesson.StatusCompleted), at, id)
	if err != nil {
		return fmt.Errorf("mark lesson completed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark lesson completed: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("mark lesson completed: no lesson with id %q", id)
	}
	return nil
}
