// Package server exposes the matcher over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/document"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/ranking"
	"github.com/spigell/resume-matcher/internal/skills"
)

const (
	apiName    = "Resume Matcher API"
	apiVersion = "1.0.0"

	shutdownTimeout = 30 * time.Second
)

// Config holds HTTP settings.
type Config struct {
	Listen         string   `mapstructure:"listen"`
	MaxUploadBytes int64    `mapstructure:"max-upload-bytes"`
	CORSOrigins    []string `mapstructure:"cors-origins"`
	Debug          bool     `mapstructure:"debug"`
}

// Server serves resume uploads, job postings and match rankings.
type Server struct {
	cfg     Config
	rank    ranking.Config
	scorer  ranking.Scorer
	loader  document.Loader
	store   *store
	logger  *zap.Logger
	now     func() time.Time
	version string
}

// New builds a server around scorer.
func New(cfg Config, rank ranking.Config, scorer ranking.Scorer, vocab *skills.Vocabulary, log *zap.Logger) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = document.DefaultMaxBytes
	}
	if cfg.Listen == "" {
		cfg.Listen = ":8000"
	}

	return &Server{
		cfg:     cfg,
		rank:    rank,
		scorer:  scorer,
		loader:  document.Loader{Vocabulary: vocab, MaxBytes: cfg.MaxUploadBytes},
		store:   newStore(),
		logger:  logger.WithFields(log, zap.String("component", "server")),
		now:     time.Now,
		version: apiVersion,
	}
}

// Router returns the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	if s.cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = s.cfg.MaxUploadBytes
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	router.GET("/", s.root)
	router.POST("/resumes", s.uploadResume)
	router.POST("/jobs", s.createJob)
	router.GET("/jobs/:id", s.getJob)
	router.POST("/match/:job_id", s.matchCandidates)
	router.GET("/matches/:job_id", s.getMatches)
	router.GET("/matches/:job_id/:candidate_id/report", s.getReport)

	return router
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Listen,
		Handler:      s.Router(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", zap.String("listen", s.cfg.Listen))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
