package rdf

import "context"

const (
	DefaultMaxLineBytes = 1 << 20
	DefaultMaxTriples   = 0
)

// DecodeOptions configures parser behavior and limits.
// Zero values use defaults. Use negative values to disable specific limits.
type DecodeOptions struct {
	MaxLineBytes int
	// MaxTriples stops decoding with ErrTripleLimitExceeded once exceeded.
	MaxTriples int64
	// Base resolves relative IRIs in JSON-LD input.
	Base string
	// Context provides cancellation for decoding work.
	Context context.Context
}

// DefaultDecodeOptions returns safe defaults for parser limits.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{
		MaxLineBytes: DefaultMaxLineBytes,
		MaxTriples:   DefaultMaxTriples,
	}
}

func normalizeDecodeOptions(opts DecodeOptions) DecodeOptions {
	if opts.MaxLineBytes == 0 {
		opts.MaxLineBytes = DefaultMaxLineBytes
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	return opts
}
