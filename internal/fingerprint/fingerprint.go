// Package fingerprint derives short deterministic hashes from lesson content
// for approximate duplicate detection. The hash is 32-bit FNV-1a, which is
// deliberately small: collisions are possible at scale and callers must treat
// a match as "almost certainly a duplicate", never as a security property.
package fingerprint

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/thanida/engbee/internal/lesson"
)

const (
	fnvSeed  uint32 = 0x811c9dc5
	fnvPrime uint32 = 0x01000193
)

// Sum returns the FNV-1a 32-bit hash of s as a zero-padded 8-hex-digit string.
func Sum(s string) string {
	h := fnvSeed
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return fmt.Sprintf("%08x", h)
}

// Lesson fingerprints a lesson's normalized content. Two lessons whose items
// differ only in order produce the same fingerprint.
func Lesson(l *lesson.Lesson) string {
	fields := collect(l)
	for i, s := range fields {
		fields[i] = normalize(s)
	}
	sort.Strings(fields)

	// Deterministic serialization; a sorted string slice marshals identically
	// regardless of the lesson's item order.
	raw, err := json.Marshal(fields)
	if err != nil {
		// A []string cannot fail to marshal; fall back to a crude join so the
		// function stays total.
		raw = []byte(strings.Join(fields, "|"))
	}
	return Sum(string(raw))
}

// Sentence fingerprints a single normalized sentence, used for per-candidate
// exact-duplicate checks during generation.
func Sentence(norm string) string {
	return Sum(norm)
}

func collect(l *lesson.Lesson) []string {
	var acc []string
	if l.Title != "" {
		acc = append(acc, l.Title)
	}
	for _, it := range l.Items {
		if it.Term != "" {
			acc = append(acc, it.Term)
		}
	}
	if l.LevelTag != "" {
		acc = append(acc, string(l.LevelTag))
	}
	if l.Topic != "" {
		acc = append(acc, l.Topic)
	}
	return acc
}

// normalize lowercases, trims, and collapses internal whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
