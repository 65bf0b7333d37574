package ranking

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Filter is a single shortlist step applied to ranked candidates.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, s *Shortlist) (*Shortlist, Step, error)
}

// Deps aggregates dependencies shared across filters.
type Deps struct {
	Logger *zap.Logger
}

// Step describes the result of executing a filter.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config holds the shortlist settings.
type Config struct {
	MinimumScore     float64  `mapstructure:"minimum-score"`
	MaxMissingSkills int      `mapstructure:"max-missing-skills"`
	RequiredSignals  []string `mapstructure:"required-signals"`
	Concurrency      int      `mapstructure:"concurrency"`
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string            `json:"name"`
	Enabled bool              `json:"enabled"`
	Reason  string            `json:"reason,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type statusProvider interface {
	Status() Status
}

// DefaultFilters returns the shortlist filters in execution order.
func DefaultFilters() []Filter {
	return []Filter{
		NewMinimumScore(),
		NewMaxMissingSkills(),
		NewRequiredSignals(),
	}
}

// DisableByName marks the named filter as disabled while keeping it listed.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run validates every enabled filter, applies them in order and renumbers
// the survivors so Rank and Percentile describe the returned shortlist.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, s *Shortlist) (*Shortlist, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			deps.Logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, deps, s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		deps.Logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		s = next
	}

	Order(s)

	return s, nil
}

// Describe returns status entries for the filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}
