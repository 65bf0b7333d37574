package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldResumeID identifies the resume being scored.
	FieldResumeID = "resume_id"
	// FieldJobID identifies the job posting being scored against.
	FieldJobID = "job_id"
	// FieldProvider is the LLM provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the LLM or embedding model identifier.
	FieldModel = "ai_model"
	// FieldEmbeddingProvider names the embedding backend.
	FieldEmbeddingProvider = "embedding_provider"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields, trimming whitespace
// and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to logger. A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CommonFields returns the provider and model fields, skipping empty values.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithCommonFields attaches the provider and model fields to logger.
func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, CommonFields(provider, model)...)
}

// MatchFields returns the resume and job identifiers of a scoring call.
func MatchFields(resumeID, jobID string) []zap.Field {
	return StringFields(
		StringField{Key: FieldResumeID, Value: resumeID},
		StringField{Key: FieldJobID, Value: jobID},
	)
}
