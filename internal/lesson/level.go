package lesson

// LevelTag is a coarse CEFR-like difficulty code ordering lesson tiers.
type LevelTag string

const (
	LevelA0 LevelTag = "A0"
	LevelA1 LevelTag = "A1"
	LevelA2 LevelTag = "A2"
	LevelB1 LevelTag = "B1"
	LevelB2 LevelTag = "B2"
)

// Tiers lists all level tags from easiest to hardest.
var Tiers = []LevelTag{LevelA0, LevelA1, LevelA2, LevelB1, LevelB2}

// Valid reports whether t is a known level tag.
func (t LevelTag) Valid() bool {
	for _, tier := range Tiers {
		if t == tier {
			return true
		}
	}
	return false
}

// Next returns the tier one step harder, or t itself at the top.
func (t LevelTag) Next() LevelTag {
	for i, tier := range Tiers {
		if t == tier && i < len(Tiers)-1 {
			return Tiers[i+1]
		}
	}
	return t
}

// Prev returns the tier one step easier, or t itself at the bottom.
func (t LevelTag) Prev() LevelTag {
	for i, tier := range Tiers {
		if t == tier && i > 0 {
			return Tiers[i-1]
		}
	}
	return t
}
