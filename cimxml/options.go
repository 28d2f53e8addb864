package cimxml

import (
	"go.uber.org/zap"

	"github.com/geoknoesis/cimxml-go/namespace"
)

// Option configures a Serializer.
type Option func(*options)

type options struct {
	logger     *zap.Logger
	namespaces *namespace.Manager
	onWarning  WarningHandler
	indent     string
}

func defaultOptions() options {
	return options{
		logger: zap.NewNop(),
		indent: "  ",
	}
}

// WithLogger sets the logger. Warnings are logged at warn level, progress at
// debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithNamespaces supplies the namespace bindings to start from. The manager
// is cloned for every Serialize call and never modified.
func WithNamespaces(m *namespace.Manager) Option {
	return func(o *options) {
		o.namespaces = m
	}
}

// WithWarningHandler registers a callback for non-fatal warnings.
func WithWarningHandler(h WarningHandler) Option {
	return func(o *options) {
		o.onWarning = h
	}
}

// WithIndent sets the per-level indentation of the output.
func WithIndent(indent string) Option {
	return func(o *options) {
		o.indent = indent
	}
}
