package lessongen

import (
	"fmt"
	"strings"
	"unicode"
)

// Validator checks a generated candidate for acceptability.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator (for rejection
	// logging), e.g. "word-band", "structural", "ascii".
	Name() string

	// Validate checks the candidate and returns nil if it passes.
	Validate(c *Candidate) *ValidationError
}

// ValidationError describes why a candidate was rejected.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// WordBandValidator rejects sentences outside the acceptable word-count band,
// measured on the normalized token sequence.
type WordBandValidator struct {
	Min int
	Max int
}

func (v *WordBandValidator) Name() string { return "word-band" }

func (v *WordBandValidator) Validate(c *Candidate) *ValidationError {
	n := len(c.Tokens)
	if n < v.Min || n > v.Max {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("%d words, want %d-%d", n, v.Min, v.Max),
		}
	}
	return nil
}

// StructuralValidator checks that a sentence reads as a complete sentence:
// it starts with a capital letter and ends in terminal punctuation.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(c *Candidate) *ValidationError {
	text := strings.TrimSpace(c.Text)
	if text == "" {
		return &ValidationError{Validator: v.Name(), Message: "empty sentence"}
	}
	first := rune(text[0])
	if first > unicode.MaxASCII || !unicode.IsUpper(first) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "does not start with a capital letter",
		}
	}
	last := text[len(text)-1]
	if last != '.' && last != '!' && last != '?' {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "missing terminal punctuation",
		}
	}
	return nil
}

// ASCIIValidator rejects English text carrying non-ASCII characters, which
// usually means the generator leaked Thai or typographic quotes into the
// English field. The Thai translation is not checked.
type ASCIIValidator struct{}

func (v *ASCIIValidator) Name() string { return "ascii" }

func (v *ASCIIValidator) Validate(c *Candidate) *ValidationError {
	for _, r := range c.Text {
		if r > unicode.MaxASCII {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("non-ASCII character %q in English text", r),
			}
		}
	}
	return nil
}
