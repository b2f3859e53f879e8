// Package errors defines custom error types for probekit
package errors

import (
	"fmt"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// EnvironmentError indicates process environment issues (time offset,
	// data directory)
	EnvironmentError ErrorType = "environment"
	// IOError indicates file read/write/create issues
	IOError ErrorType = "io"
	// ParseError indicates malformed input content
	ParseError ErrorType = "parse"
	// ConfigError indicates configuration issues
	ConfigError ErrorType = "config"
	// ProbeError indicates debug probe related issues
	ProbeError ErrorType = "probe"
	// CommandError indicates a subcommand failure
	CommandError ErrorType = "command"
)

// ProbeKitError is the base error type for all probekit errors
type ProbeKitError struct {
	Type    ErrorType
	Message string
	Err     error
	Path    string
}

// Error implements the error interface
func (e *ProbeKitError) Error() string {
	switch {
	case e.Err != nil && e.Path != "":
		return fmt.Sprintf("[%s] %s (%s): %v", e.Type, e.Message, e.Path, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	case e.Path != "":
		return fmt.Sprintf("[%s] %s (%s)", e.Type, e.Message, e.Path)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *ProbeKitError) Unwrap() error {
	return e.Err
}

// WithPath records the offending file path on the error
func (e *ProbeKitError) WithPath(path string) *ProbeKitError {
	e.Path = path
	return e
}

// New creates a new ProbeKitError
func New(errType ErrorType, message string, err error) *ProbeKitError {
	return &ProbeKitError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// NewEnvironmentError creates a new environment error
func NewEnvironmentError(message string, err error) *ProbeKitError {
	return New(EnvironmentError, message, err)
}

// NewIOError creates a new I/O error
func NewIOError(message string, err error) *ProbeKitError {
	return New(IOError, message, err)
}

// NewParseError creates a new parse error
func NewParseError(message string, err error) *ProbeKitError {
	return New(ParseError, message, err)
}

// NewConfigError creates a new configuration error
func NewConfigError(message string, err error) *ProbeKitError {
	return New(ConfigError, message, err)
}

// NewProbeError creates a new probe error
func NewProbeError(message string, err error) *ProbeKitError {
	return New(ProbeError, message, err)
}

// NewCommandError creates a new subcommand error
func NewCommandError(message string, err error) *ProbeKitError {
	return New(CommandError, message, err)
}

// IsEnvironmentError checks if the error is an environment error
func IsEnvironmentError(err error) bool {
	if pe, ok := err.(*ProbeKitError); ok {
		return pe.Type == EnvironmentError
	}
	return false
}

// IsIOError checks if the error is an I/O error
func IsIOError(err error) bool {
	if pe, ok := err.(*ProbeKitError); ok {
		return pe.Type == IOError
	}
	return false
}

// IsParseError checks if the error is a parse error
func IsParseError(err error) bool {
	if pe, ok := err.(*ProbeKitError); ok {
		return pe.Type == ParseError
	}
	return false
}

// IsConfigError checks if the error is a configuration error
func IsConfigError(err error) bool {
	if pe, ok := err.(*ProbeKitError); ok {
		return pe.Type == ConfigError
	}
	return false
}

// IsProbeError checks if the error is a probe error
func IsProbeError(err error) bool {
	if pe, ok := err.(*ProbeKitError); ok {
		return pe.Type == ProbeError
	}
	return false
}
