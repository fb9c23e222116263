// Package classify buckets generated sentences into surface categories so a
// lesson carries a balanced mix of sentence shapes.
package classify

import (
	"regexp"
	"strings"

	"github.com/thanida/engbee/internal/textsim"
)

// Kind is the surface category of a sentence.
type Kind string

const (
	Statement Kind = "statement"
	Question  Kind = "question"
	Request   Kind = "request"
	Negation  Kind = "negation"
)

// negationPattern matches standalone negation tokens on the normalized form,
// where contractions have already collapsed ("don't" -> "dont").
var negationPattern = regexp.MustCompile(`\b(?:not|dont|doesnt|cant|wont|isnt|arent)\b`)

// Classify applies the category rules in fixed precedence: negation, then
// request, then question, then statement. A sentence can show several surface
// features at once (a negated question, say); the precedence keeps the result
// deterministic.
func Classify(sentence string) Kind {
	norm := textsim.Normalize(sentence)
	if negationPattern.MatchString(norm) {
		return Negation
	}
	if strings.HasPrefix(norm, "please ") {
		return Request
	}
	if strings.HasSuffix(strings.TrimSpace(sentence), "?") {
		return Question
	}
	return Statement
}

// Caps is the per-category ceiling for one lesson. Values are policy, sized
// for a 10-sentence lesson.
type Caps map[Kind]int

// DefaultCaps returns the standard 4/3/2/1 balance.
func DefaultCaps() Caps {
	return Caps{
		Statement: 4,
		Question:  3,
		Request:   2,
		Negation:  1,
	}
}

// Counter tracks accepted sentences per category against a cap table.
type Counter struct {
	caps   Caps
	counts map[Kind]int
}

// NewCounter creates a counter for the given caps.
func NewCounter(caps Caps) *Counter {
	return &Counter{caps: caps, counts: make(map[Kind]int)}
}

// WouldExceed reports whether accepting another sentence of kind k would
// break its cap.
func (c *Counter) WouldExceed(k Kind) bool {
	cap, ok := c.caps[k]
	if !ok {
		return false
	}
	return c.counts[k] >= cap
}

// Record counts an accepted sentence of kind k.
func (c *Counter) Record(k Kind) {
	c.counts[k]++
}

// Count returns the number of accepted sentences of kind k.
func (c *Counter) Count(k Kind) int {
	return c.counts[k]
}
