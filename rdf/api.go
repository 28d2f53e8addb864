package rdf

import (
	"context"
	"io"
)

// TripleDecoder streams RDF triples from an input.
type TripleDecoder interface {
	// Next returns the next triple or io.EOF.
	Next() (Triple, error)
	Close() error
}

// TripleEncoder streams RDF triples to an output.
type TripleEncoder interface {
	Write(Triple) error
	Flush() error
	Close() error
}

// TripleHandler processes triples in push mode.
type TripleHandler func(Triple) error

// Option configures decoder behavior.
type Option func(*DecodeOptions)

// OptContext sets the context for cancellation.
func OptContext(ctx context.Context) Option {
	return func(opts *DecodeOptions) {
		opts.Context = ctx
	}
}

// OptMaxLineBytes sets the maximum line size limit.
func OptMaxLineBytes(maxBytes int) Option {
	return func(opts *DecodeOptions) {
		opts.MaxLineBytes = maxBytes
	}
}

// OptMaxTriples sets the maximum number of triples to decode.
func OptMaxTriples(maxTriples int64) Option {
	return func(opts *DecodeOptions) {
		opts.MaxTriples = maxTriples
	}
}

// OptBase sets the base IRI used to resolve relative JSON-LD identifiers.
func OptBase(base string) Option {
	return func(opts *DecodeOptions) {
		opts.Base = base
	}
}

// NewTripleDecoder creates a decoder for the given format. FormatAuto sniffs
// the format from content; the reader position is advanced by the sniffing.
func NewTripleDecoder(r io.Reader, format Format, opts ...Option) (TripleDecoder, error) {
	options := DefaultDecodeOptions()
	for _, opt := range opts {
		opt(&options)
	}

	if format == FormatAuto {
		detected, reader, ok := DetectFormat(r)
		if !ok {
			return nil, ErrUnsupportedFormat
		}
		format = detected
		r = reader
	}

	switch format {
	case FormatNTriples, FormatNQuads:
		return newNTriplesDecoder(r, format, options), nil
	case FormatJSONLD:
		return newJSONLDDecoder(r, normalizeDecodeOptions(options))
	default:
		return nil, ErrUnsupportedFormat
	}
}

// NewTripleEncoder creates an encoder. Only N-Triples output is supported.
func NewTripleEncoder(w io.Writer, format Format) (TripleEncoder, error) {
	switch format {
	case FormatNTriples, FormatNQuads:
		return newNTriplesEncoder(w), nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// Parse decodes r and streams triples to the handler.
// If ctx is nil, context.Background() is used.
func Parse(ctx context.Context, r io.Reader, format Format, handler TripleHandler, opts ...Option) error {
	if ctx == nil {
		ctx = context.Background()
	}
	opts = append([]Option{OptContext(ctx)}, opts...)
	dec, err := NewTripleDecoder(r, format, opts...)
	if err != nil {
		return err
	}
	defer dec.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		triple, err := dec.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := handler(triple); err != nil {
			return err
		}
	}
}
