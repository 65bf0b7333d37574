package ranking

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

type minimumScoreFilter struct {
	disabled bool
	reason   string
	minimum  float64
}

// NewMinimumScore drops candidates whose overall score is below
// Config.MinimumScore. A zero minimum keeps everyone.
func NewMinimumScore() Filter {
	return &minimumScoreFilter{}
}

func (f *minimumScoreFilter) Name() string { return "minimum_score" }

func (f *minimumScoreFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *minimumScoreFilter) IsEnabled() bool { return !f.disabled }

func (f *minimumScoreFilter) Validate(cfg *Config) error {
	f.minimum = 0
	if cfg != nil {
		f.minimum = cfg.MinimumScore
	}
	if f.minimum < 0 || f.minimum > 1 {
		return fmt.Errorf("minimum score %.2f is outside [0, 1]", f.minimum)
	}
	return nil
}

func (f *minimumScoreFilter) Apply(_ context.Context, deps Deps, s *Shortlist) (*Shortlist, Step, error) {
	initial := s.Len()
	if f.minimum == 0 {
		return s, Step{Initial: initial, Left: initial}, nil
	}

	excluded := s.Exclude(func(c *Candidate) bool { return c.Overall() < f.minimum })
	if len(excluded) > 0 {
		deps.Logger.Info("excluding candidates below minimum score",
			zap.Float64("minimum_score", f.minimum),
			zap.Strings("excluded_resumes", excluded),
			zap.Int("candidates_left", s.Len()),
		)
	}

	return s, Step{Initial: initial, Dropped: len(excluded), Left: s.Len()}, nil
}

func (f *minimumScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"minimum_score": fmt.Sprintf("%.2f", f.minimum)},
	}
}

type maxMissingSkillsFilter struct {
	disabled bool
	reason   string
	max      int
}

// NewMaxMissingSkills drops candidates missing more job skills than
// Config.MaxMissingSkills. Zero or less disables the check.
func NewMaxMissingSkills() Filter {
	return &maxMissingSkillsFilter{}
}

func (f *maxMissingSkillsFilter) Name() string { return "max_missing_skills" }

func (f *maxMissingSkillsFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *maxMissingSkillsFilter) IsEnabled() bool { return !f.disabled }

func (f *maxMissingSkillsFilter) Validate(cfg *Config) error {
	f.max = 0
	if cfg != nil {
		f.max = cfg.MaxMissingSkills
	}
	return nil
}

func (f *maxMissingSkillsFilter) Apply(_ context.Context, deps Deps, s *Shortlist) (*Shortlist, Step, error) {
	initial := s.Len()
	if f.max <= 0 {
		return s, Step{Initial: initial, Left: initial}, nil
	}

	excluded := s.Exclude(func(c *Candidate) bool {
		return c.Analysis == nil || len(c.Analysis.MissingSkills) > f.max
	})
	if len(excluded) > 0 {
		deps.Logger.Info("excluding candidates with too many missing skills",
			zap.Int("max_missing_skills", f.max),
			zap.Strings("excluded_resumes", excluded),
			zap.Int("candidates_left", s.Len()),
		)
	}

	return s, Step{Initial: initial, Dropped: len(excluded), Left: s.Len()}, nil
}

func (f *maxMissingSkillsFilter) Status() Status {
	details := map[string]string{}
	if f.max > 0 {
		details["max_missing_skills"] = strconv.Itoa(f.max)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type requiredSignalsFilter struct {
	disabled bool
	reason   string
	signals  []string
}

// NewRequiredSignals keeps only candidates whose resume triggered every
// bonus detector named in Config.RequiredSignals.
func NewRequiredSignals() Filter {
	return &requiredSignalsFilter{}
}

func (f *requiredSignalsFilter) Name() string { return "required_signals" }

func (f *requiredSignalsFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *requiredSignalsFilter) IsEnabled() bool { return !f.disabled }

func (f *requiredSignalsFilter) Validate(cfg *Config) error {
	f.signals = nil
	if cfg == nil {
		return nil
	}
	for _, name := range cfg.RequiredSignals {
		if name = strings.TrimSpace(name); name != "" {
			f.signals = append(f.signals, name)
		}
	}
	return nil
}

func (f *requiredSignalsFilter) Apply(_ context.Context, deps Deps, s *Shortlist) (*Shortlist, Step, error) {
	initial := s.Len()
	if len(f.signals) == 0 {
		return s, Step{Initial: initial, Left: initial}, nil
	}

	excluded := s.Exclude(func(c *Candidate) bool {
		if c.Analysis == nil {
			return true
		}
		for _, want := range f.signals {
			if !slices.Contains(c.Analysis.Signals, want) {
				return true
			}
		}
		return false
	})
	if len(excluded) > 0 {
		deps.Logger.Info("excluding candidates without required signals",
			zap.Strings("required_signals", f.signals),
			zap.Strings("excluded_resumes", excluded),
			zap.Int("candidates_left", s.Len()),
		)
	}

	return s, Step{Initial: initial, Dropped: len(excluded), Left: s.Len()}, nil
}

func (f *requiredSignalsFilter) Status() Status {
	details := map[string]string{}
	if len(f.signals) > 0 {
		details["signals"] = strings.Join(f.signals, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
