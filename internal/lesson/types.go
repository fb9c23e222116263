package lesson

import "time"

// Kind describes what a single practice item is.
type Kind string

const (
	KindWord     Kind = "word"
	KindPhrase   Kind = "phrase"
	KindSentence Kind = "sentence"
	KindText     Kind = "text"
)

// Status tracks whether the learner has finished a lesson.
type Status string

const (
	StatusIncomplete Status = "incomplete"
	StatusCompleted  Status = "completed"
)

// Item is one practice unit inside a lesson.
type Item struct {
	// Kind selects how the item is practiced.
	Kind Kind `json:"kind"`

	// Term is the English text: a word, phrase, or full sentence.
	// For KindText it holds the passage content. Always non-empty and trimmed.
	Term string `json:"term"`

	// Translation is the Thai rendering. May be empty when the generator
	// did not supply one; the static dictionary backfills common words.
	Translation string `json:"translation,omitempty"`
}

// Lesson is an ordered collection of items plus metadata.
// Lessons are never deleted; completed lessons remain as the dedup history.
type Lesson struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	LevelTag    LevelTag   `json:"level"`
	Topic       string     `json:"topic"`
	Items       []Item     `json:"items"`
	Fingerprint string     `json:"fingerprint"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Progress records how far the learner got through a lesson.
type Progress struct {
	CompletedIndices []int `json:"completed_indices"`
	LastIndex        int   `json:"last_index"`
}
