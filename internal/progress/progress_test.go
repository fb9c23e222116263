package progress

import (
	"testing"
	"time"

	"github.com/thanida/engbee/internal/lesson"
)

func TestComputeLevel_Basics(t *testing.T) {
	if got := ComputeLevel(0); got.Level != 1 {
		t.Errorf("ComputeLevel(0).Level = %d, want 1", got.Level)
	}
	if got := ComputeLevel(0); got.XPToNext != 100 {
		t.Errorf("ComputeLevel(0).XPToNext = %d, want 100", got.XPToNext)
	}

	// 100 XP clears level 1 exactly.
	info := ComputeLevel(100)
	if info.Level != 2 || info.XPIntoLevel != 0 {
		t.Errorf("ComputeLevel(100) = %+v, want level 2 with 0 into", info)
	}

	// Level 2 requires round(100*1.5) = 150.
	if info.XPToNext != 150 {
		t.Errorf("ComputeLevel(100).XPToNext = %d, want 150", info.XPToNext)
	}
}

func TestComputeLevel_Monotonic(t *testing.T) {
	prev := 0
	for xp := 0; xp <= 5000; xp += 37 {
		level := ComputeLevel(xp).Level
		if level < prev {
			t.Fatalf("level decreased from %d to %d at xp=%d", prev, level, xp)
		}
		prev = level
	}
}

func TestComputeLevel_NegativeClamped(t *testing.T) {
	if got := ComputeLevel(-50); got.Level != 1 || got.XPIntoLevel != 0 {
		t.Errorf("ComputeLevel(-50) = %+v, want fresh level 1", got)
	}
}

func TestNextLessonDifficulty(t *testing.T) {
	tests := []struct {
		name      string
		current   lesson.LevelTag
		scores    []float64
		wantTier  lesson.LevelTag
		wantCount int
	}{
		{"advance on strong average", lesson.LevelA1, []float64{0.9, 0.85, 0.95}, lesson.LevelA2, 8},
		{"hold on middling average", lesson.LevelA2, []float64{0.7, 0.6, 0.8}, lesson.LevelA2, 8},
		{"regress on weak average", lesson.LevelB1, []float64{0.3, 0.4, 0.5}, lesson.LevelA2, 8},
		{"no advance past top tier", lesson.LevelB2, []float64{1, 1, 1}, lesson.LevelB2, 10},
		{"no regress past bottom tier", lesson.LevelA0, []float64{0.1, 0.1, 0.1}, lesson.LevelA0, 6},
		{"zero average holds", lesson.LevelA1, []float64{0, 0, 0}, lesson.LevelA1, 6},
		{"no history holds", lesson.LevelA1, nil, lesson.LevelA1, 6},
		{"only last three scores count", lesson.LevelA1, []float64{0.1, 0.1, 0.9, 0.9, 0.9}, lesson.LevelA2, 8},
		{"unknown tag falls back to A1", lesson.LevelTag("Z9"), nil, lesson.LevelA1, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, count := NextLessonDifficulty(tt.current, tt.scores)
			if tier != tt.wantTier || count != tt.wantCount {
				t.Errorf("got (%s, %d), want (%s, %d)", tier, count, tt.wantTier, tt.wantCount)
			}
		})
	}
}

func TestUpdateStreak(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	streak, date := UpdateStreak(0, "", now)
	if streak != 1 || date != "2026-03-14" {
		t.Errorf("first activity = (%d, %s), want (1, 2026-03-14)", streak, date)
	}

	streak, _ = UpdateStreak(3, "2026-03-14", now)
	if streak != 3 {
		t.Errorf("same-day activity changed streak to %d", streak)
	}

	streak, _ = UpdateStreak(3, "2026-03-13", now)
	if streak != 4 {
		t.Errorf("next-day activity = %d, want 4", streak)
	}

	streak, _ = UpdateStreak(7, "2026-03-10", now)
	if streak != 1 {
		t.Errorf("gap reset = %d, want 1", streak)
	}

	streak, _ = UpdateStreak(5, "not-a-date", now)
	if streak != 1 {
		t.Errorf("unparseable date = %d, want 1", streak)
	}
}

func TestCompletionXP(t *testing.T) {
	if got := CompletionXP(10); got != 125 {
		t.Errorf("CompletionXP(10) = %d, want 125", got)
	}
	if got := CompletionXP(-1); got != XPCompletionBonus {
		t.Errorf("CompletionXP(-1) = %d, want bonus only", got)
	}
}
