// Package errors provides error handling for grit.
//
// This package re-exports github.com/cockroachdb/errors so every package
// gets stack traces, wrapping and user-facing hints from one import:
//
//	// Wrap with context
//	if err := loadTree(); err != nil {
//	    return errors.Wrap(err, "failed to load resource tree")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "declare the output with type=\"rc_header\"")
//
//	// Check errors
//	if errors.Is(err, errors.ErrUnknownTextualID) {
//	    // the tree handed out an id it never assigned
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Sentinel errors shared across grit.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrUnknownTextualID indicates a textual id with no assigned numeric id
	ErrUnknownTextualID = New("unknown textual id")

	// ErrInvalidGRD indicates a malformed resource definition file
	ErrInvalidGRD = New("invalid grd")

	// ErrInvalidConfig indicates a configuration value out of range
	ErrInvalidConfig = New("invalid config")

	// ErrUnknownOutputType indicates an output type with no registered formatter
	ErrUnknownOutputType = New("unknown output type")

	// ErrStaleOutput indicates generated files differ from what is on disk
	ErrStaleOutput = New("generated output is out of date")
)

// IsUnknownTextualID checks if an error is or wraps ErrUnknownTextualID
func IsUnknownTextualID(err error) bool {
	return err != nil && Is(err, ErrUnknownTextualID)
}

// IsInvalidGRD checks if an error is or wraps ErrInvalidGRD
func IsInvalidGRD(err error) bool {
	return err != nil && Is(err, ErrInvalidGRD)
}

// IsStaleOutput checks if an error is or wraps ErrStaleOutput
func IsStaleOutput(err error) bool {
	return err != nil && Is(err, ErrStaleOutput)
}

// NewUnknownTextualID creates an unknown-textual-id error naming the id
func NewUnknownTextualID(tid string) error {
	return Wrapf(ErrUnknownTextualID, "%s", tid)
}

// NewInvalidGRDError creates an invalid-grd error with a formatted message
func NewInvalidGRDError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidGRD, Newf(format, args...).Error())
}

// NewInvalidConfigError creates an invalid-config error with a formatted message
func NewInvalidConfigError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidConfig, Newf(format, args...).Error())
}
