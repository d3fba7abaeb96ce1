package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldCandidate = "candidate_id"
	FieldSource    = "source"
	FieldProvider  = "ai_provider"
	FieldModel     = "ai_model"
)

// StringField is a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields. Keys and values are
// trimmed and pairs with an empty key or value are dropped.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		value := strings.TrimSpace(field.Value)
		if key == "" || value == "" {
			continue
		}
		result = append(result, zap.String(key, value))
	}
	return result
}

// WithFields attaches fields to the logger. A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// CandidateFields identifies the candidate, and optionally the bundle file it
// was loaded from.
func CandidateFields(id string, source ...string) []zap.Field {
	fields := []StringField{{Key: FieldCandidate, Value: id}}
	if len(source) > 0 {
		fields = append(fields, StringField{Key: FieldSource, Value: source[0]})
	}
	return StringFields(fields...)
}

// AIFields describe the AI provider and model.
func AIFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}
