package lessongen

import (
	"time"

	"github.com/thanida/engbee/internal/classify"
)

// Item count bounds for a single lesson. Requests outside the bounds are
// clamped, never rejected.
const (
	MinItems     = 4
	MaxItems     = 12
	DefaultItems = 10
)

// DefaultTopic is used when the request names no topic.
const DefaultTopic = "routines"

// Word-count band for an acceptable sentence, measured on normalized tokens.
const (
	MinSentenceWords = 8
	MaxSentenceWords = 14
)

// Config controls the behavior of the Service.
type Config struct {
	// Validators is the ordered chain run on every candidate in every
	// attempt. The first failure rejects the candidate. The relaxed
	// attempts resize the fetch, they never weaken this chain.
	Validators []Validator

	// Caps is the per-category balance table for one lesson.
	Caps classify.Caps

	// StrictAttempts is the number of full-constraint generation calls.
	StrictAttempts int

	// RelaxedAttempts is the number of additional calls made with the
	// smaller relaxed fetch when the strict attempts left the lesson short.
	RelaxedAttempts int

	// OverFetchCap bounds a single strict request's candidate count.
	OverFetchCap int

	// OverFetchBuffer pads the strict over-fetch: min(cap, needed*2+buffer).
	OverFetchBuffer int

	// RelaxedBuffer pads the relaxed fetch: needed+buffer.
	RelaxedBuffer int

	// CallTimeout bounds a single generator call. It must sit comfortably
	// below the outer request deadline so a clean error can still be
	// returned after an expiry.
	CallTimeout time.Duration

	// MaxTokens is the token budget for one generator response.
	MaxTokens int

	// Temperature controls generator output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns a Config with the standard validator chain and
// recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&WordBandValidator{Min: MinSentenceWords, Max: MaxSentenceWords},
			&StructuralValidator{},
			&ASCIIValidator{},
		},
		Caps:            classify.DefaultCaps(),
		StrictAttempts:  3,
		RelaxedAttempts: 2,
		OverFetchCap:    18,
		OverFetchBuffer: 8,
		RelaxedBuffer:   4,
		CallTimeout:     25 * time.Second,
		MaxTokens:       1500,
		Temperature:     0.7,
	}
}

// clampCount normalizes a requested item count to the allowed band.
func clampCount(n int) int {
	if n == 0 {
		return DefaultItems
	}
	if n < MinItems {
		return MinItems
	}
	if n > MaxItems {
		return MaxItems
	}
	return n
}
