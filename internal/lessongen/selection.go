package lessongen

import (
	"github.com/thanida/engbee/internal/classify"
	"github.com/thanida/engbee/internal/textsim"
)

// selection accumulates accepted candidates for one lesson. Acceptance is
// strictly sequential and order-dependent: the first candidate to claim a
// first word, a category slot, or a lexical neighborhood wins.
type selection struct {
	target     int
	accepted   []Candidate
	counter    *classify.Counter
	firstWords map[string]struct{}
}

func newSelection(target int, caps classify.Caps) *selection {
	return &selection{
		target:     target,
		counter:    classify.NewCounter(caps),
		firstWords: make(map[string]struct{}),
	}
}

func (s *selection) full() bool  { return len(s.accepted) >= s.target }
func (s *selection) short() bool { return !s.full() }
func (s *selection) empty() bool { return len(s.accepted) == 0 }

// consider runs a candidate through the validator chain and the stateful
// selection rules. On acceptance the candidate's fingerprint is added to
// avoid, so later candidates (and later attempts) see it as history.
// Returns the rejection reason, or "" when accepted.
func (s *selection) consider(c Candidate, validators []Validator, avoid map[string]struct{}) string {
	if s.full() {
		return "lesson full"
	}
	if len(c.Tokens) == 0 {
		return "empty after normalization"
	}

	for _, v := range validators {
		if verr := v.Validate(&c); verr != nil {
			return verr.Error()
		}
	}

	if _, seen := avoid[c.Fingerprint]; seen {
		return "exact duplicate"
	}

	for _, prev := range s.accepted {
		if textsim.TooSimilar(c.Tokens, prev.Tokens) {
			return "near duplicate"
		}
	}

	if s.counter.WouldExceed(c.Kind) {
		return "category cap reached: " + string(c.Kind)
	}

	if _, taken := s.firstWords[c.Tokens[0]]; taken {
		return "repeated opening word"
	}

	s.accepted = append(s.accepted, c)
	s.counter.Record(c.Kind)
	s.firstWords[c.Tokens[0]] = struct{}{}
	avoid[c.Fingerprint] = struct{}{}
	return ""
}
