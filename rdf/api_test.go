package rdf

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestParseAutoDetect(t *testing.T) {
	input := "<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n" +
		"<http://example.org/s> <http://example.org/p> \"v\" .\n"
	var got []Triple
	err := Parse(context.Background(), strings.NewReader(input), FormatAuto, func(t Triple) error {
		got = append(got, t)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 triples, got %d", len(got))
	}
}

func TestParseHandlerError(t *testing.T) {
	stop := errors.New("stop")
	input := "<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n"
	err := Parse(context.Background(), strings.NewReader(input+input), FormatNTriples, func(Triple) error {
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("expected handler error, got %v", err)
	}
}

func TestParseCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	input := "<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n"
	err := Parse(ctx, strings.NewReader(input), FormatNTriples, func(Triple) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestNewTripleDecoderUnsupported(t *testing.T) {
	if _, err := NewTripleDecoder(strings.NewReader("@prefix x: <y> ."), FormatAuto); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
	if _, err := NewTripleDecoder(strings.NewReader(""), Format("turtle")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
}
