package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/document"
	"github.com/spigell/resume-matcher/internal/explain"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/ranking"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Details string `json:"details,omitempty"`
}

// Envelope wraps successful responses.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// JobRequest is the body of POST /jobs.
type JobRequest struct {
	Title              string   `json:"title" binding:"required"`
	Description        string   `json:"description" binding:"required"`
	RequiredSkills     []string `json:"required_skills"`
	PreferredSkills    []string `json:"preferred_skills"`
	ExperienceRequired string   `json:"experience_required"`
	Responsibilities   []string `json:"role_responsibilities"`
}

// MatchRequest optionally narrows the shortlist of POST /match/:job_id.
// Unset fields fall back to the server configuration.
type MatchRequest struct {
	MinimumScore     *float64 `json:"minimum_score"`
	MaxMissingSkills *int     `json:"max_missing_skills"`
	RequiredSignals  []string `json:"required_signals"`
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

func fail(c *gin.Context, status int, msg string, err error) {
	resp := ErrorResponse{Error: msg, Code: status}
	if err != nil {
		resp.Details = err.Error()
	}
	c.JSON(status, resp)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, document.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, document.ErrUnsupportedFormat),
		errors.Is(err, document.ErrEmptyDocument),
		errors.Is(err, explain.ErrInvalidAnalysis):
		return http.StatusBadRequest
	case errors.Is(err, matching.ErrEmbedding):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": apiName, "version": s.version})
}

func (s *Server) uploadResume(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "No file uploaded", err)
		return
	}
	if header.Size > s.cfg.MaxUploadBytes {
		fail(c, http.StatusRequestEntityTooLarge, "File too large", document.ErrTooLarge)
		return
	}
	if _, err := document.FormatOf(header.Filename); err != nil {
		fail(c, http.StatusBadRequest, "Unsupported file type", err)
		return
	}

	var experience []matching.ExperienceEntry
	if raw := strings.TrimSpace(c.PostForm("experience")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &experience); err != nil {
			fail(c, http.StatusBadRequest, "Invalid experience field", err)
			return
		}
	}

	file, err := header.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "Failed to read file", err)
		return
	}
	defer file.Close()

	data, err := document.ReadLimited(file, s.cfg.MaxUploadBytes)
	if err != nil {
		fail(c, statusFor(err), "Failed to read file", err)
		return
	}

	doc, err := document.Extract(header.Filename, data, s.cfg.MaxUploadBytes)
	if err != nil {
		fail(c, statusFor(err), "Failed to process resume", err)
		return
	}

	resume := s.loader.ResumeFromDocument(uuid.NewString(), doc)
	if name := strings.TrimSpace(c.PostForm("name")); name != "" {
		resume.Name = name
	}
	if experience != nil {
		resume.Experience = experience
	}

	stored := &StoredResume{Resume: resume, Document: doc, UploadedAt: s.now().UTC()}
	s.store.addResume(stored)

	s.logger.Info("resume uploaded",
		zap.String(logger.FieldResumeID, resume.ID),
		zap.String("file", doc.Name),
		zap.Int("skills", len(resume.Skills)),
	)

	ok(c, http.StatusCreated, gin.H{
		"resume_id":         resume.ID,
		"original_filename": doc.Name,
		"file_type":         doc.Format,
		"skills":            resume.Skills,
		"experience":        resume.Experience,
		"upload_date":       stored.UploadedAt,
	})
}

func (s *Server) createJob(c *gin.Context) {
	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid job posting", err)
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		fail(c, http.StatusBadRequest, "Invalid job posting", errors.New("description is blank"))
		return
	}

	job := &StoredJob{
		Job: matching.Job{
			ID:                 uuid.NewString(),
			Title:              strings.TrimSpace(req.Title),
			Description:        req.Description,
			RequiredSkills:     nonNil(req.RequiredSkills),
			PreferredSkills:    nonNil(req.PreferredSkills),
			ExperienceRequired: req.ExperienceRequired,
			Responsibilities:   req.Responsibilities,
		},
		CreatedAt: s.now().UTC(),
	}
	s.store.addJob(job)

	s.logger.Info("job created", zap.String(logger.FieldJobID, job.ID), zap.String("title", job.Title))

	ok(c, http.StatusCreated, job)
}

func (s *Server) getJob(c *gin.Context) {
	job, found := s.store.job(c.Param("id"))
	if !found {
		fail(c, http.StatusNotFound, "Job not found", nil)
		return
	}
	ok(c, http.StatusOK, job)
}

func (s *Server) matchCandidates(c *gin.Context) {
	job, found := s.store.job(c.Param("job_id"))
	if !found {
		fail(c, http.StatusNotFound, "Job not found", nil)
		return
	}

	cfg := s.rank
	if c.Request.ContentLength > 0 {
		var req MatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid match request", err)
			return
		}
		if req.MinimumScore != nil {
			cfg.MinimumScore = *req.MinimumScore
		}
		if req.MaxMissingSkills != nil {
			cfg.MaxMissingSkills = *req.MaxMissingSkills
		}
		if req.RequiredSignals != nil {
			cfg.RequiredSignals = req.RequiredSignals
		}
	}

	resumes := s.store.resumeList()
	if len(resumes) == 0 {
		fail(c, http.StatusBadRequest, "No resumes uploaded", nil)
		return
	}

	ctx := c.Request.Context()
	list, err := ranking.Rank(ctx, s.scorer, job.Job, resumes, ranking.Options{
		Concurrency: cfg.Concurrency,
		Logger:      s.logger,
		Now:         s.now,
	})
	if err != nil {
		s.logger.Error("ranking failed", zap.String(logger.FieldJobID, job.ID), zap.Error(err))
		fail(c, statusFor(err), "Failed to match candidates", err)
		return
	}

	// Filters keep per-run state, so every request gets its own set.
	list, err = ranking.Run(ctx, &cfg, ranking.Deps{Logger: s.logger}, ranking.DefaultFilters(), list)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid shortlist settings", err)
		return
	}
	s.store.saveMatches(list)

	ok(c, http.StatusOK, gin.H{
		"job_id":     job.ID,
		"candidates": list.Items,
	})
}

func (s *Server) getMatches(c *gin.Context) {
	jobID := c.Param("job_id")
	if _, found := s.store.job(jobID); !found {
		fail(c, http.StatusNotFound, "Job not found", nil)
		return
	}
	ok(c, http.StatusOK, s.store.matchesFor(jobID))
}

func (s *Server) getReport(c *gin.Context) {
	candidate, found := s.store.candidate(c.Param("job_id"), c.Param("candidate_id"))
	if !found {
		fail(c, http.StatusNotFound, "Match not found", nil)
		return
	}

	report, err := explain.NewReport(candidate.Analysis, s.now())
	if err != nil {
		fail(c, statusFor(err), "Failed to build report", err)
		return
	}
	ok(c, http.StatusOK, report)
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
