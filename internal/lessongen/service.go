package lessongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/thanida/engbee/internal/fingerprint"
	"github.com/thanida/engbee/internal/lesson"
	"github.com/thanida/engbee/internal/llm"
	"github.com/thanida/engbee/internal/logger"
)

// Service orchestrates lesson generation against an LLM provider.
type Service struct {
	provider llm.Provider
	cfg      Config
	log      *logger.Logger
	now      func() time.Time
}

// NewService creates a Service with the given provider and config.
func NewService(provider llm.Provider, cfg Config, log *logger.Logger) *Service {
	return &Service{
		provider: provider,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// Generate assembles one lesson. Per-attempt failures (timeouts, upstream
// errors, unparseable batches) are absorbed by the retry loop; the only
// terminal outcomes are a lesson or ErrGenerationExhausted. All candidate
// state is local to the call.
func (s *Service) Generate(ctx context.Context, req Request) (*lesson.Lesson, error) {
	count := clampCount(req.Count)
	level := req.Level
	if !level.Valid() {
		level = lesson.LevelA1
	}
	topic := req.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	known := make(map[string]struct{}, len(req.AvoidFingerprints))
	for _, fp := range req.AvoidFingerprints {
		known[fp] = struct{}{}
	}
	// avoid grows with accepted candidates; known stays the caller's history.
	avoid := make(map[string]struct{}, len(known))
	for fp := range known {
		avoid[fp] = struct{}{}
	}

	used := 0
	total := s.cfg.StrictAttempts + s.cfg.RelaxedAttempts

	for {
		sel := newSelection(count, s.cfg.Caps)

		for used < s.cfg.StrictAttempts && sel.short() {
			used++
			needed := count - len(sel.accepted)
			fetch := needed*2 + s.cfg.OverFetchBuffer
			if fetch > s.cfg.OverFetchCap {
				fetch = s.cfg.OverFetchCap
			}
			if err := s.attempt(ctx, level, topic, fetch, sel, avoid, req); err != nil {
				return nil, err
			}
		}

		// Relaxed attempts shrink the fetch to needed+buffer; every
		// rejection rule stays in force.
		for used < total && sel.short() {
			used++
			fetch := count - len(sel.accepted) + s.cfg.RelaxedBuffer
			if err := s.attempt(ctx, level, topic, fetch, sel, avoid, req); err != nil {
				return nil, err
			}
		}

		if sel.empty() {
			return nil, ErrGenerationExhausted
		}

		l := s.assemble(sel, level, topic)
		if _, dup := known[l.Fingerprint]; !dup {
			return l, nil
		}
		if used >= total {
			// Duplicate-lesson prevention is best-effort once the budget
			// is spent; serve the lesson rather than fail a healthy one.
			s.log.Warn("serving lesson with known fingerprint, attempt budget spent",
				"user_id", req.UserID, "fingerprint", l.Fingerprint)
			return l, nil
		}
		s.log.Info("regenerating duplicate lesson",
			"user_id", req.UserID, "fingerprint", l.Fingerprint, "attempts_used", used)
	}
}

// attempt issues one generation call and feeds its candidates into the
// selection. Upstream failures are logged and swallowed; only context
// cancellation aborts the whole operation.
func (s *Service) attempt(ctx context.Context, level lesson.LevelTag, topic string, fetch int, sel *selection, avoid map[string]struct{}, req Request) error {
	batch, err := s.fetch(ctx, level, topic, fetch, req.AvoidSentences, req.AvoidTokens)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Warn("generation attempt failed",
			"user_id", req.UserID, "topic", topic, "error", err)
		return nil
	}

	for _, it := range batch.Items {
		text := strings.TrimSpace(it.En)
		if text == "" {
			continue
		}
		c := newCandidate(text, strings.TrimSpace(it.Th))
		if reason := sel.consider(c, s.cfg.Validators, avoid); reason != "" {
			s.log.Debug("candidate rejected", "reason", reason, "sentence", text)
		}
		if sel.full() {
			break
		}
	}
	return nil
}

// fetch performs one bounded generator call, with a single repair round-trip
// when the response is schema-invalid.
func (s *Service) fetch(ctx context.Context, level lesson.LevelTag, topic string, count int, avoidSentences, avoidTokens []string) (*batchOutput, error) {
	cctx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()
	cctx = llm.WithPurpose(cctx, "lesson-gen")

	lreq := llm.Request{
		System: systemPrompt(level),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(topic, count, avoidSentences, avoidTokens)},
		},
		Schema:      BatchSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(cctx, lreq)
	if err != nil {
		var inv *llm.ErrInvalidResponse
		if !errors.As(err, &inv) || len(inv.Content) == 0 {
			return nil, err
		}
		// One repair round-trip: replay the rejected output and ask for
		// strict JSON.
		repair := lreq
		repair.PriorOutput = string(inv.Content)
		repair.Messages = append(repair.Messages, llm.Message{Role: llm.RoleUser, Content: repairPrompt})
		resp, err = s.provider.Generate(cctx, repair)
		if err != nil {
			return nil, fmt.Errorf("repair round-trip: %w", err)
		}
	}

	var batch batchOutput
	if err := json.Unmarshal(resp.Content, &batch); err != nil {
		return nil, fmt.Errorf("parse generator batch: %w", err)
	}
	return &batch, nil
}

// assemble builds the final lesson from the accepted candidates and
// fingerprints the whole.
func (s *Service) assemble(sel *selection, level lesson.LevelTag, topic string) *lesson.Lesson {
	items := make([]lesson.Item, 0, len(sel.accepted))
	for _, c := range sel.accepted {
		items = append(items, lesson.Item{
			Kind:        lesson.KindSentence,
			Term:        c.Text,
			Translation: c.Translation,
		})
	}

	l := &lesson.Lesson{
		ID:        uuid.NewString(),
		Title:     lessonTitle(topic),
		LevelTag:  level,
		Topic:     topic,
		Items:     items,
		Status:    lesson.StatusIncomplete,
		CreatedAt: s.now().UTC(),
	}
	l.Fingerprint = fingerprint.Lesson(l)
	return l
}

func lessonTitle(topic string) string {
	if topic == "" {
		return "Sentences"
	}
	// Capitalize the first rune; topics may arrive in Thai.
	r, size := utf8.DecodeRuneInString(topic)
	return string(unicode.ToUpper(r)) + topic[size:] + " Sentences"
}
