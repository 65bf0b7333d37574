// Package ranking scores many resumes against one job, orders them and
// trims the result with a pipeline of shortlist filters.
package ranking

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/matching"
)

// Scorer computes the analysis of one resume against one job.
type Scorer interface {
	ScoreMatch(ctx context.Context, resume matching.Resume, job matching.Job) (*matching.MatchAnalysis, error)
}

// Options tune Rank.
type Options struct {
	// Concurrency bounds parallel ScoreMatch calls. Zero uses GOMAXPROCS.
	Concurrency int
	Logger      *zap.Logger
	// Now stamps candidates; defaults to time.Now.
	Now func() time.Time
}

// Rank scores every resume against job in parallel and returns the
// candidates ordered by overall score, best first. Equal scores keep input
// order. Any scoring error aborts the whole ranking.
func Rank(ctx context.Context, scorer Scorer, job matching.Job, resumes []matching.Resume, opts Options) (*Shortlist, error) {
	log := logger.WithFields(opts.Logger, zap.String(logger.FieldJobID, job.ID))
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	candidates := make([]*Candidate, len(resumes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, resume := range resumes {
		g.Go(func() error {
			analysis, err := scorer.ScoreMatch(gctx, resume, job)
			if err != nil {
				return fmt.Errorf("score resume %s: %w", resume.ID, err)
			}

			candidates[i] = &Candidate{
				ID:        uuid.NewString(),
				ResumeID:  resume.ID,
				JobID:     job.ID,
				Name:      resume.Name,
				Analysis:  analysis,
				CreatedAt: now().UTC(),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	list := &Shortlist{JobID: job.ID, Items: candidates}
	Order(list)

	log.Info("candidates ranked", zap.Int("candidates", list.Len()), zap.Int("concurrency", limit))

	return list, nil
}

// Order sorts the shortlist by overall score, best first, keeping the
// relative order of equal scores, and fills in Rank and Percentile.
func Order(s *Shortlist) {
	sort.SliceStable(s.Items, func(i, j int) bool {
		return s.Items[i].Overall() > s.Items[j].Overall()
	})

	scores := s.Scores()
	for i, c := range s.Items {
		c.Rank = i + 1
		c.Percentile = Percentile(c.Overall(), scores)
	}
}
