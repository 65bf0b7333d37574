package ai

import (
	"context"
)

// Narration carries everything a narrator may use to explain a match. Scores
// are already final; a narrator only phrases them.
type Narration struct {
	ResumeID       string
	JobID          string
	ResumeText     string
	JobText        string
	Overall        float64
	Skills         float64
	Experience     float64
	RoleFit        float64
	BonusSignals   float64
	Matched        []string
	Missing        []string
	Recommendation string
}

// Narrator writes a free-text explanation for a scored match. It is optional
// and best-effort: callers fall back to a rule-based explanation on error.
type Narrator interface {
	Narrate(ctx context.Context, n Narration) (string, error)
}
