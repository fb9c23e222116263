package progress

import "github.com/thanida/engbee/internal/lesson"

// Score thresholds for moving between difficulty tiers. Averaged over the
// last AdvanceWindow session scores, each in [0,1].
const (
	AdvanceWindow    = 3
	AdvanceThreshold = 0.85
	RegressThreshold = 0.5
)

// itemCounts maps a tier to the number of items in the next lesson.
var itemCounts = map[lesson.LevelTag]int{
	lesson.LevelA0: 6,
	lesson.LevelA1: 6,
	lesson.LevelA2: 8,
	lesson.LevelB1: 10,
	lesson.LevelB2: 10,
}

// NextLessonDifficulty decides the next lesson's tier and item count from
// recent session scores. A strong recent average advances one tier, a weak
// one regresses one tier, anything else holds steady.
func NextLessonDifficulty(current lesson.LevelTag, recentScores []float64) (lesson.LevelTag, int) {
	if !current.Valid() {
		current = lesson.LevelA1
	}

	tier := current
	if avg, ok := recentAverage(recentScores); ok {
		switch {
		case avg >= AdvanceThreshold:
			tier = current.Next()
		case avg > 0 && avg <= RegressThreshold:
			tier = current.Prev()
		}
	}

	return tier, itemCounts[tier]
}

// recentAverage averages the last AdvanceWindow scores. Returns ok=false
// when there are no scores at all.
func recentAverage(scores []float64) (float64, bool) {
	if len(scores) == 0 {
		return 0, false
	}
	if len(scores) > AdvanceWindow {
		scores = scores[len(scores)-AdvanceWindow:]
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores)), true
}
