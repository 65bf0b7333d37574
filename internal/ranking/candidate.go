package ranking

import (
	"time"

	"github.com/spigell/resume-matcher/internal/matching"
)

// Candidate is one resume scored against a job.
type Candidate struct {
	ID         string                  `json:"candidate_id"`
	ResumeID   string                  `json:"resume_id"`
	JobID      string                  `json:"job_id"`
	Name       string                  `json:"name,omitempty"`
	Rank       int                     `json:"rank"`
	Percentile float64                 `json:"percentile"`
	Analysis   *matching.MatchAnalysis `json:"match_analysis"`
	CreatedAt  time.Time               `json:"created_at"`
}

// Overall returns the overall score or zero without an analysis.
func (c *Candidate) Overall() float64 {
	if c == nil || c.Analysis == nil {
		return 0
	}
	return c.Analysis.Score.Overall
}

// Shortlist is an ordered list of candidates for one job.
type Shortlist struct {
	JobID string       `json:"job_id"`
	Items []*Candidate `json:"candidates"`
}

// Len returns the number of candidates.
func (s *Shortlist) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Items)
}

// Exclude drops every candidate for which drop returns true, keeping order,
// and returns the resume IDs of the dropped candidates.
func (s *Shortlist) Exclude(drop func(*Candidate) bool) []string {
	kept := s.Items[:0]
	var dropped []string

	for _, c := range s.Items {
		if drop(c) {
			dropped = append(dropped, c.ResumeID)
			continue
		}
		kept = append(kept, c)
	}

	for i := len(kept); i < len(s.Items); i++ {
		s.Items[i] = nil
	}
	s.Items = kept

	return dropped
}

// Scores returns the overall scores in list order.
func (s *Shortlist) Scores() []float64 {
	scores := make([]float64, 0, s.Len())
	for _, c := range s.Items {
		scores = append(scores, c.Overall())
	}
	return scores
}

// Percentile places value among values: every lower value counts one, every
// equal value counts half. The result is in [0, 100].
func Percentile(value float64, values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var pos float64
	for _, v := range values {
		switch {
		case value > v:
			pos++
		case value == v:
			pos += 0.5
		}
	}

	return min(pos/float64(len(values))*100, 100)
}
