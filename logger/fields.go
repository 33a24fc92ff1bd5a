package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across grit.
// Use these constants instead of raw strings to ensure consistency.
const (
	FieldOperation = "operation"

	// Inputs and outputs
	FieldGRD        = "grd"
	FieldOutput     = "output"
	FieldOutputType = "output_type"
	FieldOutputDir  = "output_dir"
	FieldLang       = "lang"
	FieldPath       = "path"

	// Tree contents
	FieldTextualID = "textual_id"
	FieldNumericID = "numeric_id"
	FieldExpr      = "expr"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount = "count"
	FieldSize  = "size"
	FieldJobs  = "jobs"
)

type contextKey string

const (
	outputKey    contextKey = "logger_output"
	operationKey contextKey = "logger_operation"
)

// WithOutput adds the output file being generated to the context for logging
func WithOutput(ctx context.Context, output string) context.Context {
	return context.WithValue(ctx, outputKey, output)
}

// WithOperation adds the running operation (build, check) to the context for logging
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, operationKey, operation)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if operation, ok := ctx.Value(operationKey).(string); ok && operation != "" {
		fields = append(fields, FieldOperation, operation)
	}
	if output, ok := ctx.Value(outputKey).(string); ok && output != "" {
		fields = append(fields, FieldOutput, output)
	}

	return fields
}

// LoggerFromContext returns base (or the global Logger when base is nil)
// with the fields carried by ctx attached.
func LoggerFromContext(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if base == nil {
		base = Logger
	}
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	b := &build.Builder{Logger: logger.ComponentLogger("build")}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
