// Package server exposes the learner API over HTTP: lesson generation,
// lesson progress, vocabulary review, and the learner profile.
package server

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thanida/engbee/internal/config"
	"github.com/thanida/engbee/internal/lesson"
	"github.com/thanida/engbee/internal/lessongen"
	"github.com/thanida/engbee/internal/logger"
	"github.com/thanida/engbee/internal/ratelimit"
	"github.com/thanida/engbee/internal/store"
)

// Generator produces lessons on demand. Satisfied by *lessongen.Service.
type Generator interface {
	Generate(ctx context.Context, req lessongen.Request) (*lesson.Lesson, error)
}

// Server wires the HTTP handlers to their backing services.
type Server struct {
	cfg     config.Config
	log     *logger.Logger
	store   *store.Store
	gen     Generator
	limiter *ratelimit.Limiter
	now     func() time.Time
}

// New assembles a Server. The limiter enforces the per-identity daily
// generation quota; everything else is per-request.
func New(cfg config.Config, log *logger.Logger, st *store.Store, gen Generator, limiter *ratelimit.Limiter) *Server {
	return &Server{
		cfg:     cfg,
		log:     log,
		store:   st,
		gen:     gen,
		limiter: limiter,
		now:     time.Now,
	}
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/healthcheck", s.handleHealthcheck)

	api := router.Group("/api")
	api.Use(s.identity())
	{
		api.POST("/lessons/new", s.rateLimit(), s.handleNewLesson)
		api.GET("/lessons", s.handleListLessons)
		api.GET("/lessons/:id", s.handleGetLesson)
		api.GET("/lessons/:id/progress", s.handleGetProgress)
		api.PUT("/lessons/:id/progress", s.handlePutProgress)
		api.POST("/lessons/:id/complete", s.handleCompleteLesson)
		api.POST("/vocab/outcome", s.handleVocabOutcome)
		api.GET("/vocab/due", s.handleVocabDue)
		api.GET("/profile", s.handleProfile)
	}

	return router
}
