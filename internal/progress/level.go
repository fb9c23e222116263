// Package progress converts practice history into learner-visible progress:
// XP levels, next-lesson difficulty, and the daily streak.
package progress

import "math"

// LevelInfo describes where a learner sits inside the XP curve.
type LevelInfo struct {
	Level       int `json:"level"`
	XPIntoLevel int `json:"xp_into_level"`
	XPToNext    int `json:"xp_to_next"`
}

// XPNeededForLevel returns the XP required to clear level l (1-indexed).
// The requirement grows geometrically: round(100 * 1.5^(l-1)).
func XPNeededForLevel(l int) int {
	if l < 1 {
		l = 1
	}
	return int(math.Round(100 * math.Pow(1.5, float64(l-1))))
}

// ComputeLevel derives the level from total XP. Terminates for any finite
// non-negative input because each level's requirement is strictly larger
// than the last.
func ComputeLevel(totalXP int) LevelInfo {
	if totalXP < 0 {
		totalXP = 0
	}
	level := 1
	xp := totalXP
	for xp >= XPNeededForLevel(level) {
		xp -= XPNeededForLevel(level)
		level++
	}
	return LevelInfo{
		Level:       level,
		XPIntoLevel: xp,
		XPToNext:    XPNeededForLevel(level) - xp,
	}
}
