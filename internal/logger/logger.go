// Package logger builds the zap logger shared by the API and the CLI, plus the
// field helpers used to tag screening log lines.
package logger

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const service = "cv-screener"

// New returns a console logger, or a JSON one for log shippers. Stack traces
// are only attached in debug mode.
func New(json bool, debug bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	encoding := "console"
	encodeLevel := zapcore.CapitalColorLevelEncoder

	if json {
		encoding = "json"
		encodeLevel = zapcore.LowercaseLevelEncoder
	}

	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.Config{
		Encoding:          encoding,
		Level:             zap.NewAtomicLevelAt(level),
		DisableStacktrace: !debug,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:    "message",
			LevelKey:      "level",
			TimeKey:       "ts",
			CallerKey:     "caller",
			StacktraceKey: "stacktrace",
			NameKey:       "component",

			EncodeLevel:    encodeLevel,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
		},
	}
	if json {
		cfg.InitialFields = map[string]interface{}{"service": service}
	}
	return cfg.Build()
}

// Candidate tags a log line with the candidate being screened.
func Candidate(name, jobID string) []zap.Field {
	return []zap.Field{
		zap.String("candidate", name),
		zap.String("job_id", jobID),
	}
}

// Batch tags a log line with the batch run it belongs to.
func Batch(id uuid.UUID) zap.Field {
	return zap.String("batch_id", id.String())
}

// Truncate shortens s for log output, appending an ellipsis when cut.
func Truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
