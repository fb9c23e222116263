package progress

// Profile is the per-learner aggregate progress record.
//
// Level is derived: it must always equal ComputeLevel(XP).Level. Loaders
// recompute it rather than trusting the stored value, and callers must never
// set it independently of XP.
type Profile struct {
	UserID           string `json:"user_id" db:"user_id"`
	XP               int    `json:"xp" db:"xp"`
	Level            int    `json:"level" db:"-"`
	StreakCount      int    `json:"streak_count" db:"streak_count"`
	LastActiveDate   string `json:"last_active_date" db:"last_active_date"`
	LessonsCompleted int    `json:"lessons_completed" db:"lessons_completed"`
	NextLessonIndex  int    `json:"next_lesson_index" db:"next_lesson_index"`
	ActiveLessonID   string `json:"active_lesson_id,omitempty" db:"active_lesson_id"`

	// RecentScores holds the last few session scores in [0,1], newest
	// last, feeding the next-lesson difficulty decision. Persisted as a
	// JSON column.
	RecentScores []float64 `json:"recent_scores" db:"-"`
}

// PushScore appends a session score, keeping only the AdvanceWindow most
// recent values.
func (p *Profile) PushScore(score float64) {
	p.RecentScores = append(p.RecentScores, score)
	if len(p.RecentScores) > AdvanceWindow {
		p.RecentScores = p.RecentScores[len(p.RecentScores)-AdvanceWindow:]
	}
}

// DefaultProfile returns the starting state for a new learner.
func DefaultProfile(userID string) *Profile {
	return &Profile{
		UserID:          userID,
		Level:           1,
		NextLessonIndex: 1,
	}
}

// XP awards for completing a lesson.
const (
	XPPerItem         = 10
	XPCompletionBonus = 25
)

// CompletionXP returns the XP awarded for finishing a lesson of n items.
func CompletionXP(itemCount int) int {
	if itemCount < 0 {
		itemCount = 0
	}
	return itemCount*XPPerItem + XPCompletionBonus
}
