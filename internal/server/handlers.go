package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thanida/engbee/internal/dict"
	"github.com/thanida/engbee/internal/fingerprint"
	"github.com/thanida/engbee/internal/lesson"
	"github.com/thanida/engbee/internal/lessongen"
	"github.com/thanida/engbee/internal/progress"
	"github.com/thanida/engbee/internal/textsim"
	"github.com/thanida/engbee/internal/vocab"
)

// Machine-readable reason codes for error responses. Upstream error text is
// logged, never echoed to clients.
const (
	reasonInvalidRequest      = "invalid_request"
	reasonRateLimited         = "rate_limited"
	reasonNotFound            = "not_found"
	reasonGenerationExhausted = "generation_exhausted"
	reasonUpstreamTimeout     = "upstream_timeout"
	reasonUpstreamFailure     = "upstream_failure"
	reasonStorageFailure      = "storage_failure"
)

// generateDeadline bounds the whole lesson-generation request, including
// every retry the generator makes internally.
const generateDeadline = 60 * time.Second

// Advisory-hint caps keep prompt size bounded for long-lived learners.
const (
	recentLessonWindow = 5
	maxAvoidSentences  = 40
	maxAvoidTokens     = 30
)

func respondError(c *gin.Context, status int, reason, message string) {
	c.JSON(status, gin.H{"error": message, "reason": reason})
}

func (s *Server) handleHealthcheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type newLessonRequest struct {
	Count int    `json:"count"`
	Level string `json:"level"`
	Topic string `json:"topic"`

	// AvoidTerms are sentences the client wants excluded, merged with the
	// server-side history.
	AvoidTerms []string `json:"avoid_terms"`
}

func (s *Server) handleNewLesson(c *gin.Context) {
	var body newLessonRequest
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, reasonInvalidRequest, "malformed request body")
		return
	}

	uid := identityFrom(c)
	ctx, cancel := context.WithTimeout(c.Request.Context(), generateDeadline)
	defer cancel()

	req := lessongen.Request{
		UserID: uid,
		Count:  body.Count,
		Level:  lesson.LevelTag(strings.ToUpper(strings.TrimSpace(body.Level))),
		Topic:  strings.TrimSpace(body.Topic),
	}

	// History loads are fail-soft: a lesson without dedup hints beats no
	// lesson at all.
	known, err := s.store.Fingerprints().LoadKnown(ctx, uid)
	if err != nil {
		s.log.Warn("loading known fingerprints failed, generating without history",
			"user_id", uid, "error", err)
	}
	req.AvoidFingerprints = known
	req.AvoidSentences = s.recentSentences(ctx, uid)
	req.AvoidTokens = s.frequentTokens(ctx, uid)

	// Client-supplied avoid terms join the exact-match exclusion set as
	// well as the advisory prompt hints.
	for _, term := range body.AvoidTerms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		req.AvoidFingerprints = append(req.AvoidFingerprints, fingerprint.Sentence(textsim.Normalize(term)))
		req.AvoidSentences = append(req.AvoidSentences, term)
	}

	degraded := false
	l, err := s.gen.Generate(ctx, req)
	if err != nil {
		l = s.recoverLesson(c, req, err)
		if l == nil {
			return
		}
		degraded = true
	}

	if err := s.persistLesson(ctx, uid, l); err != nil {
		s.log.Error("persisting lesson failed", "user_id", uid, "lesson_id", l.ID, "error", err)
		respondError(c, http.StatusInternalServerError, reasonStorageFailure, "failed to store lesson")
		return
	}

	resp := gin.H{
		"lesson":    l,
		"remaining": s.limiter.Remaining(uid),
	}
	if degraded {
		resp["degraded"] = true
	}
	c.JSON(http.StatusOK, resp)
}

// recoverLesson maps a generation error to either the static fallback lesson
// (when enabled) or an error response. Returns nil after writing a response.
func (s *Server) recoverLesson(c *gin.Context, req lessongen.Request, err error) *lesson.Lesson {
	if errors.Is(err, lessongen.ErrGenerationExhausted) {
		if s.cfg.FallbackEnabled {
			s.log.Warn("generation exhausted, serving fallback lesson",
				"user_id", req.UserID, "topic", req.Topic)
			return lessongen.FallbackLesson(req.Level, req.Topic)
		}
		respondError(c, http.StatusBadGateway, reasonGenerationExhausted,
			"could not assemble a lesson, try again later")
		return nil
	}

	s.log.Error("lesson generation failed", "user_id", req.UserID, "error", err)
	if errors.Is(err, context.DeadlineExceeded) {
		respondError(c, http.StatusBadGateway, reasonUpstreamTimeout, "generation timed out")
		return nil
	}
	respondError(c, http.StatusBadGateway, reasonUpstreamFailure, "generation failed")
	return nil
}

// persistLesson stores the lesson, records its fingerprints for future
// dedup, and points the profile at it as the active lesson.
func (s *Server) persistLesson(ctx context.Context, uid string, l *lesson.Lesson) error {
	if err := s.store.Lessons().Save(ctx, uid, l); err != nil {
		return err
	}

	fps := s.store.Fingerprints()
	if err := fps.Record(ctx, uid, l.Fingerprint); err != nil {
		return err
	}
	for _, it := range l.Items {
		fp := fingerprint.Sentence(textsim.Normalize(it.Term))
		if err := fps.Record(ctx, uid, fp); err != nil {
			return err
		}
	}

	p, err := s.store.Profiles().Load(ctx, uid)
	if err != nil {
		return err
	}
	p.ActiveLessonID = l.ID
	return s.store.Profiles().Save(ctx, p)
}

// recentSentences collects sentences from the learner's latest lessons as
// advisory avoid hints. Fail-soft.
func (s *Server) recentSentences(ctx context.Context, uid string) []string {
	lessons, err := s.store.Lessons().List(ctx, uid, recentLessonWindow)
	if err != nil {
		s.log.Warn("loading recent lessons failed", "user_id", uid, "error", err)
		return nil
	}
	var out []string
	for _, l := range lessons {
		for _, it := range l.Items {
			if len(out) >= maxAvoidSentences {
				return out
			}
			out = append(out, it.Term)
		}
	}
	return out
}

// frequentTokens returns the learner's most-seen vocabulary terms so the
// generator can steer away from lexical ruts. Fail-soft.
func (s *Server) frequentTokens(ctx context.Context, uid string) []string {
	entries, err := s.store.Vocab().Load(ctx, uid)
	if err != nil {
		s.log.Warn("loading vocab failed", "user_id", uid, "error", err)
		return nil
	}
	terms := make([]*vocab.Entry, 0, len(entries))
	for _, e := range entries {
		terms = append(terms, e)
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].SeenCount != terms[j].SeenCount {
			return terms[i].SeenCount > terms[j].SeenCount
		}
		return terms[i].Term < terms[j].Term
	})
	if len(terms) > maxAvoidTokens {
		terms = terms[:maxAvoidTokens]
	}
	out := make([]string, len(terms))
	for i, e := range terms {
		out[i] = e.Term
	}
	return out
}

func (s *Server) handleListLessons(c *gin.Context) {
	uid := identityFrom(c)

	limit := 20
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondError(c, http.StatusBadRequest, reasonInvalidRequest, "limit must be a positive integer")
			return
		}
		if n > 100 {
			n = 100
		}
		limit = n
	}

	lessons, err := s.store.Lessons().List(c.Request.Context(), uid, limit)
	if err != nil {
		s.log.Error("listing lessons failed", "user_id", uid, "error", err)
		respondError(c, http.StatusInternalServerError, reasonStorageFailure, "failed to list lessons")
		return
	}
	c.JSON(http.StatusOK, gin.H{"lessons": lessons})
}

// loadLesson fetches the lesson from the path id, writing a 404 or 500 and
// returning nil when it cannot.
func (s *Server) loadLesson(c *gin.Context) *lesson.Lesson {
	id := c.Param("id")
	l, err := s.store.Lessons().Get(c.Request.Context(), id)
	if err != nil {
		s.log.Error("loading lesson failed", "lesson_id", id, "error", err)
		respondError(c, http.StatusInternalServerError, reasonStorageFailure, "failed to load lesson")
		return nil
	}
	if l == nil {
		respondError(c, http.StatusNotFound, reasonNotFound, "lesson not found")
		return nil
	}
	return l
}

func (s *Server) handleGetLesson(c *gin.Context) {
	l := s.loadLesson(c)
	if l == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{"lesson": l})
}

func (s *Server) handleGetProgress(c *gin.Context) {
	l := s.loadLesson(c)
	if l == nil {
		return
	}
	p, err := s.store.Progress().Load(c.Request.Context(), l.ID)
	if err != nil {
		s.log.Error("loading lesson progress failed", "lesson_id", l.ID, "error", err)
		respondError(c, http.StatusInternalServerError, reasonStorageFailure, "failed to load progress")
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": p})
}

func (s *Server) handlePutProgress(c *gin.Context) {
	var body lesson.Progress
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, reasonInvalidRequest, "malformed request body")
		return
	}
	if body.LastIndex < 0 {
		respondError(c, http.StatusBadRequest, reasonInvalidRequest, "last_index must not be negative")
		return
	}
	for _, idx := range body.CompletedIndices {
		if idx < 0 {
			respondError(c, http.StatusBadRequest, reasonInvalidRequest, "completed indices must not be negative")
			return
		}
	}

	l := s.loadLesson(c)
	if l == nil {
		return
	}
	if err := s.store.Progress().Save(c.Request.Context(), l.ID, &body); err != nil {
		s.log.Error("saving lesson progress failed", "lesson_id", l.ID, "error", err)
		respondError(c, http.StatusInternalServerError, reasonStorageFailure, "failed to save progress")
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": &body})
}

type completeLessonRequest struct {
	// Score is the session score in [0,1]. Optional; when present it feeds
	// the next-lesson difficulty decision.
	Score *float64 `json:"score"`
}

func (s *Server) handleCompleteLesson(c *gin.Context) {
	var body completeLessonRequest
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, reasonInvalidRequest, "malformed request body")
		return
	}
	if body.Score != nil && (*body.Score < 0 || *body.Score > 1) {
		respondError(c, http.StatusBadRequest, reasonInvalidRequest, "score must be between 0 and 1")
		return
	}

	uid := identityFrom(c)
	ctx := c.Request.Context()

	l := s.loadLesson(c)
	if l == nil {
		return
	}

	p, err := s.store.Profiles().Load(ctx, uid)
	if err != nil {
		s.log.Error("loading profile failed", "user_id", uid, "error", err)
		respondError(c, http.StatusInternalServerError, reasonStorageFailure, "failed to load profile")
		return
	}

	// Completing twice is a no-op, not an error; XP is awarded once.
	awarded := 0
	if l.Status != lesson.StatusCompleted {
		now := s.now().UTC()
		if err := s.store.Lessons().MarkCompleted(ctx, l.ID, now); err != nil {
			s.log.Error("marking lesson completed failed", "lesson_id", l.ID, "error", err)
			respondError(c, http.StatusInternalServerError, reasonStorageFailure, "failed to complete lesson")
			return
		}

		awarded = progress.CompletionXP(len(l.Items))
		p.XP += awarded
		p.Level = progress.ComputeLevel(p.XP).Level
		p.StreakCount, p.LastActiveDate = progress.UpdateStreak(p.StreakCount, p.LastActiveDate, now)
		p.LessonsCompleted++
		p.NextLessonIndex++
		if p.ActiveLessonID == l.ID {
			p.ActiveLessonID = ""
		}
		if body.Score != nil {
			p.PushScore(*body.Score)
		}

		if err := s.store.Profiles().Save(ctx, p); err != nil {
			s.log.Error("saving profile failed", "user_id", uid, "error", err)
			respondError(c, http.StatusInternalServerError, reasonStorageFailure, "failed to save profile")
			return
		}
	}

	nextTag, nextCount := progress.NextLessonDifficulty(l.LevelTag, p.RecentScores)
	c.JSON(http.StatusOK, gin.H{
		"profile":    p,
		"xp_awarded": awarded,
		"next": gin.H{
			"level":      nextTag,
			"item_count": nextCount,
		},
	})
}

type vocabOutcomeRequest struct {
	Term    string `json:"term"`
	Correct bool   `json:"correct"`
}

func (s *Server) handleVocabOutcome(c *gin.Context) {
	var body vocabOutcomeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, reasonInvalidRequest, "malformed request body")
		return
	}
	term := strings.TrimSpace(body.Term)
	if term == "" {
		respondError(c, http.StatusBadRequest, reasonInvalidRequest, "term is required")
		return
	}

	uid := identityFrom(c)
	ctx := c.Request.Context()

	// A failed read must not silently reset the term's history.
	existing, err := s.store.Vocab().Get(ctx, uid, term)
	if err != nil {
		s.log.Error("loading vocab entry failed", "user_id", uid, "term", term, "error", err)
		respondError(c, http.StatusInternalServerError, reasonStorageFailure, "failed to load vocab entry")
		return
	}

	entry := vocab.RecordOutcome(term, body.Correct, existing, s.now().UTC())
	if err := s.store.Vocab().Save(ctx, uid, entry); err != nil {
		s.log.Error("saving vocab entry failed", "user_id", uid, "term", term, "error", err)
		respondError(c, http.StatusInternalServerError, reasonStorageFailure, "failed to save vocab entry")
		return
	}

	resp := gin.H{"entry": entry}
	if th, ok := dict.Lookup(term); ok {
		resp["translation"] = th
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleVocabDue(c *gin.Context) {
	uid := identityFrom(c)

	limit := 20
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondError(c, http.StatusBadRequest, reasonInvalidRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := s.store.Vocab().Load(c.Request.Context(), uid)
	if err != nil {
		s.log.Error("loading vocab failed", "user_id", uid, "error", err)
		respondError(c, http.StatusInternalServerError, reasonStorageFailure, "failed to load vocab")
		return
	}
	all := make([]*vocab.Entry, 0, len(entries))
	for _, e := range entries {
		all = append(all, e)
	}
	due := vocab.DueEntries(all, s.now().UTC(), limit)
	if due == nil {
		due = []*vocab.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"due": due})
}

func (s *Server) handleProfile(c *gin.Context) {
	uid := identityFrom(c)
	p, err := s.store.Profiles().Load(c.Request.Context(), uid)
	if err != nil {
		s.log.Error("loading profile failed", "user_id", uid, "error", err)
		respondError(c, http.StatusInternalServerError, reasonStorageFailure, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profile": p,
		"level":   progress.ComputeLevel(p.XP),
	})
}
