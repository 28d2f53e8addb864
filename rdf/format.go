package rdf

import (
	"bufio"
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format identifies RDF input formats accepted by the loaders.
type Format string

const (
	// FormatAuto asks the reader to sniff the format from content.
	FormatAuto     Format = ""
	FormatNTriples Format = "ntriples"
	FormatNQuads   Format = "nquads"
	FormatJSONLD   Format = "jsonld"
)

// ParseFormat normalizes a format string.
func ParseFormat(value string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "ntriples", "nt", "n-triples":
		return FormatNTriples, true
	case "nquads", "nq", "n-quads":
		return FormatNQuads, true
	case "jsonld", "json-ld", "json":
		return FormatJSONLD, true
	case "", "auto":
		return FormatAuto, true
	default:
		return "", false
	}
}

// FormatFromPath infers the format from a filename extension.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".nt":
		return FormatNTriples, true
	case ".nq":
		return FormatNQuads, true
	case ".jsonld", ".json":
		return FormatJSONLD, true
	default:
		return FormatAuto, false
	}
}

// formatDetectionBufferSize is how much input DetectFormat inspects.
const formatDetectionBufferSize = 512

// DetectFormat sniffs the format from the first bytes of r. The returned
// reader replays the inspected bytes so decoding can start from the beginning.
func DetectFormat(r io.Reader) (Format, io.Reader, bool) {
	br := bufio.NewReaderSize(r, formatDetectionBufferSize)
	sample, err := br.Peek(formatDetectionBufferSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull && len(sample) == 0 {
		return FormatAuto, br, false
	}
	sample = bytes.TrimSpace(sample)
	if len(sample) == 0 {
		// Empty input is a valid, empty N-Triples document.
		return FormatNTriples, br, true
	}

	switch sample[0] {
	case '{', '[':
		return FormatJSONLD, br, true
	case '<', '_', '#':
		if looksLikeNQuads(sample) {
			return FormatNQuads, br, true
		}
		return FormatNTriples, br, true
	}
	return FormatAuto, br, false
}

// looksLikeNQuads reports whether the first complete statement carries a
// fourth term.
func looksLikeNQuads(sample []byte) bool {
	for _, line := range bytes.Split(sample, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if !bytes.HasSuffix(line, []byte(".")) {
			return false
		}
		_, err := parseNTLine(string(line), FormatNTriples)
		if err == nil {
			return false
		}
		_, err = parseNTLine(string(line), FormatNQuads)
		return err == nil
	}
	return false
}
