// Package lessongen assembles sentence-drill lessons from LLM output. It
// over-fetches candidates, filters them through a validator chain plus
// stateful dedup and balance checks, and retries within a fixed attempt
// budget before giving up.
package lessongen

import (
	"github.com/thanida/engbee/internal/classify"
	"github.com/thanida/engbee/internal/fingerprint"
	"github.com/thanida/engbee/internal/lesson"
	"github.com/thanida/engbee/internal/textsim"
)

// Request describes one lesson-generation invocation.
type Request struct {
	// UserID identifies the learner; used only for logging.
	UserID string

	// Count is the desired item count. Clamped to [MinItems, MaxItems];
	// zero selects DefaultItems.
	Count int

	// Level is the difficulty tag. Invalid or empty falls back to A1.
	Level lesson.LevelTag

	// Topic steers sentence content ("routines", "market", ...).
	// Empty selects DefaultTopic.
	Topic string

	// AvoidFingerprints are sentence and lesson fingerprints from the
	// learner's history. Exact matches are rejected locally; the list is
	// also sent to the generator as an advisory hint.
	AvoidFingerprints []string

	// AvoidSentences are previously served sentences, forwarded to the
	// generator so it steers away from repeats. Advisory only.
	AvoidSentences []string

	// AvoidTokens are the learner's most-seen words, sent to the generator
	// to discourage lexical ruts. Advisory only.
	AvoidTokens []string
}

// Candidate is one generated sentence under evaluation.
type Candidate struct {
	Text        string
	Translation string
	Norm        string
	Tokens      []string
	Fingerprint string
	Kind        classify.Kind
}

// newCandidate derives the normalized views a raw sentence is judged on.
func newCandidate(text, translation string) Candidate {
	norm := textsim.Normalize(text)
	return Candidate{
		Text:        text,
		Translation: translation,
		Norm:        norm,
		Tokens:      textsim.Tokenize(text),
		Fingerprint: fingerprint.Sentence(norm),
		Kind:        classify.Classify(text),
	}
}
