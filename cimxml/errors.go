package cimxml

import (
	"errors"
	"fmt"

	"github.com/geoknoesis/cimxml-go/graph"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeConfig indicates invalid serializer configuration.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"
	// ErrCodeUnrepresentable indicates a predicate with no XML element name.
	ErrCodeUnrepresentable ErrorCode = "UNREPRESENTABLE_PREDICATE"
	// ErrCodeInvalidTriple indicates a store returned a malformed triple.
	ErrCodeInvalidTriple ErrorCode = "INVALID_TRIPLE"
	// ErrCodeIOError indicates the store or the sink failed.
	ErrCodeIOError ErrorCode = "IO_ERROR"
)

var (
	// ErrMissingProfile indicates the profile URI was not configured.
	ErrMissingProfile = errors.New("cimxml: profile_uri is required")
	// ErrInvalidMaxDepth indicates max_depth is not a positive integer.
	ErrInvalidMaxDepth = errors.New("cimxml: max_depth must be a positive integer")
	// ErrUnsupportedEncoding indicates the output encoding is unknown.
	ErrUnsupportedEncoding = errors.New("cimxml: unsupported encoding")
	// ErrInvalidValue indicates a configuration value of the wrong type.
	ErrInvalidValue = errors.New("cimxml: invalid configuration value")
	// ErrUnrepresentablePredicate indicates a predicate IRI that cannot be
	// split into an XML qualified name.
	ErrUnrepresentablePredicate = errors.New("cimxml: predicate cannot be written as an XML element")
)

// ConfigError reports an invalid configuration field. No output is written
// when Serialize returns a ConfigError.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("cimxml: config %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Code returns the error code for an error, or ErrCodeIOError if unknown.
func Code(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var cfgErr *ConfigError
	switch {
	case errors.As(err, &cfgErr):
		return ErrCodeConfig
	case errors.Is(err, ErrUnrepresentablePredicate):
		return ErrCodeUnrepresentable
	case errors.Is(err, graph.ErrInvalidTriple):
		return ErrCodeInvalidTriple
	}
	return ErrCodeIOError
}
