package rdf

import (
	"io"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"nt":        FormatNTriples,
		"N-Triples": FormatNTriples,
		"nquads":    FormatNQuads,
		"json-ld":   FormatJSONLD,
		" auto ":    FormatAuto,
		"":          FormatAuto,
	}
	for in, want := range cases {
		got, ok := ParseFormat(in)
		if !ok || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	if _, ok := ParseFormat("turtle"); ok {
		t.Fatal("turtle should not be accepted")
	}
}

func TestFormatFromPath(t *testing.T) {
	cases := map[string]Format{
		"model.nt":     FormatNTriples,
		"MODEL.NQ":     FormatNQuads,
		"a/b.jsonld":   FormatJSONLD,
		"context.json": FormatJSONLD,
	}
	for path, want := range cases {
		got, ok := FormatFromPath(path)
		if !ok || got != want {
			t.Fatalf("FormatFromPath(%q) = %q, %v", path, got, ok)
		}
	}
	if _, ok := FormatFromPath("model.xml"); ok {
		t.Fatal("xml should not map to an input format")
	}
}

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		input string
		want  Format
		ok    bool
	}{
		{"<http://a> <http://b> <http://c> .\n", FormatNTriples, true},
		{"# header\n_:b <http://b> \"c\" .\n", FormatNTriples, true},
		{"<http://a> <http://b> <http://c> <http://g> .\n", FormatNQuads, true},
		{"  {\"@id\": \"http://a\"}", FormatJSONLD, true},
		{"[]", FormatJSONLD, true},
		{"", FormatNTriples, true},
		{"@prefix ex: <http://a> .", FormatAuto, false},
	}
	for _, c := range cases {
		got, r, ok := DetectFormat(strings.NewReader(c.input))
		if got != c.want || ok != c.ok {
			t.Fatalf("DetectFormat(%q) = %q, %v; want %q, %v", c.input, got, ok, c.want, c.ok)
		}
		replayed, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("read replay: %v", err)
		}
		if string(replayed) != c.input {
			t.Fatalf("replayed %q, want %q", replayed, c.input)
		}
	}
}
