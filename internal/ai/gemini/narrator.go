package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength     = 200
	maxDocumentRunes        = 4000
	maxUserInstructionRunes = 500
)

// PromptOverrides tune the narration style.
type PromptOverrides struct {
	Audience         string `mapstructure:"audience"`
	Tone             string `mapstructure:"tone"`
	Focus            string `mapstructure:"focus"`
	UserInstructions string `mapstructure:"user-instructions"`
}

// Narrator asks Gemini to phrase a scored match as prose.
type Narrator struct {
	generator contentGenerator
	overrides PromptOverrides
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.Narrator = (*Narrator)(nil)

// NewNarrator returns a Narrator backed by generator.
func NewNarrator(generator contentGenerator, log *zap.Logger, maxLogLength int) *Narrator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Narrator{
		generator: generator,
		logger:    logger.WithFields(log),
		maxLogLen: maxLogLength,
	}
}

// SetPromptOverrides replaces the style preferences.
func (n *Narrator) SetPromptOverrides(o PromptOverrides) {
	n.overrides = o
}

// Narrate returns the explanation text for a scored match.
func (n *Narrator) Narrate(ctx context.Context, in ai.Narration) (string, error) {
	if n == nil || n.generator == nil {
		return "", errors.New("gemini narrator is not initialized")
	}

	payload := map[string]any{
		"scores": map[string]float64{
			"overall":       in.Overall,
			"skills":        in.Skills,
			"experience":    in.Experience,
			"role_fit":      in.RoleFit,
			"bonus_signals": in.BonusSignals,
		},
		"matched_skills": nonNil(in.Matched),
		"missing_skills": nonNil(in.Missing),
		"recommendation": in.Recommendation,
		"resume":         utils.TruncateForLog(in.ResumeText, maxDocumentRunes),
		"job":            utils.TruncateForLog(in.JobText, maxDocumentRunes),
	}

	message, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal narration payload: %w", err)
	}

	system := buildPrompt(n.overrides)
	log := logger.WithFields(n.logger, logger.MatchFields(in.ResumeID, in.JobID)...)

	log.Debug("gemini narration request",
		zap.Int("prompt_length", utf8.RuneCountInString(system)+len(message)),
		zap.String("message_preview", utils.TruncateForLog(string(message), n.maxLogLen)),
	)

	raw, err := n.generator.GenerateContent(ctx, system, string(message))
	if err != nil {
		return "", err
	}

	log.Debug("gemini narration response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, n.maxLogLen)),
	)

	return parseResponse(raw)
}

func buildPrompt(o PromptOverrides) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Explain the match result.\n{{USER_INSTRUCTIONS}}\n"
	}

	replacer := strings.NewReplacer(
		"{{AUDIENCE}}", singleLineOr(o.Audience, "recruiter"),
		"{{TONE}}", singleLineOr(o.Tone, "Neutral"),
		"{{FOCUS}}", singleLineOr(o.Focus, "none"),
		"{{USER_INSTRUCTIONS}}", userInstructionsBlock(o.UserInstructions),
	)
	return replacer.Replace(template)
}

func singleLineOr(value, fallback string) string {
	value = strings.Join(strings.Fields(neutralizeBrackets(value)), " ")
	if value == "" {
		return fallback
	}
	return value
}

func userInstructionsBlock(raw string) string {
	raw = strings.TrimSpace(neutralizeBrackets(raw))
	if raw == "" {
		return "  - none"
	}

	if runes := []rune(raw); len(runes) > maxUserInstructionRunes {
		raw = string(runes[:maxUserInstructionRunes])
	}

	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, "  - "+line)
		}
	}
	return strings.Join(lines, "\n")
}

// neutralizeBrackets keeps user text from imitating prompt section headers.
func neutralizeBrackets(s string) string {
	return strings.NewReplacer("[", "(", "]", ")", "{{", "(", "}}", ")").Replace(s)
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func parseResponse(raw string) (string, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return "", fmt.Errorf("parse gemini response: %w", err)
	}

	explanation := coerceString(data["explanation"])
	if explanation == "" {
		return "", errors.New("gemini response has no explanation")
	}

	return explanation, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
