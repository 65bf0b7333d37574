package server

import (
	"sync"
	"time"

	"github.com/spigell/resume-matcher/internal/document"
	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/ranking"
)

// StoredResume is an uploaded resume with its source file details.
type StoredResume struct {
	Resume     matching.Resume    `json:"resume"`
	Document   *document.Document `json:"document,omitempty"`
	UploadedAt time.Time          `json:"upload_date"`
}

// StoredJob is a posted job.
type StoredJob struct {
	matching.Job
	CreatedAt time.Time `json:"created_at"`
}

// store keeps everything in memory. Resumes are listed in upload order.
type store struct {
	mu sync.RWMutex

	resumeOrder []string
	resumes     map[string]*StoredResume
	jobs        map[string]*StoredJob
	matches     map[string]*ranking.Shortlist
}

func newStore() *store {
	return &store{
		resumes: make(map[string]*StoredResume),
		jobs:    make(map[string]*StoredJob),
		matches: make(map[string]*ranking.Shortlist),
	}
}

func (s *store) addResume(r *StoredResume) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.resumes[r.Resume.ID]; !ok {
		s.resumeOrder = append(s.resumeOrder, r.Resume.ID)
	}
	s.resumes[r.Resume.ID] = r
}

func (s *store) resumeList() []matching.Resume {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]matching.Resume, 0, len(s.resumeOrder))
	for _, id := range s.resumeOrder {
		out = append(out, s.resumes[id].Resume)
	}
	return out
}

func (s *store) addJob(j *StoredJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.ID] = j
}

func (s *store) job(id string) (*StoredJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	return j, ok
}

// saveMatches replaces the previous ranking of the job.
func (s *store) saveMatches(list *ranking.Shortlist) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[list.JobID] = list
}

func (s *store) matchesFor(jobID string) []*ranking.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list, ok := s.matches[jobID]
	if !ok {
		return []*ranking.Candidate{}
	}
	return append([]*ranking.Candidate{}, list.Items...)
}

func (s *store) candidate(jobID, candidateID string) (*ranking.Candidate, bool) {
	for _, c := range s.matchesFor(jobID) {
		if c.ID == candidateID {
			return c, true
		}
	}
	return nil, false
}
