package rdf

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateIRI performs a basic absolute-IRI check: a scheme starting with a
// letter, parseable by net/url, and free of control characters and raw angle
// brackets. Errors wrap ErrInvalidIRI.
func ValidateIRI(iri string) error {
	if iri == "" {
		return fmt.Errorf("%w: empty IRI", ErrInvalidIRI)
	}
	parsed, err := url.Parse(iri)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidIRI, err)
	}
	if parsed.Scheme == "" {
		return fmt.Errorf("%w: missing scheme in %q", ErrInvalidIRI, iri)
	}
	first := parsed.Scheme[0]
	if !((first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
		return fmt.Errorf("%w: scheme must start with a letter: %q", ErrInvalidIRI, iri)
	}
	for i, r := range iri {
		if r < 0x20 {
			return fmt.Errorf("%w: control character at position %d in %q", ErrInvalidIRI, i, iri)
		}
	}
	if strings.ContainsAny(iri, "<>") {
		return fmt.Errorf("%w: raw angle bracket in %q", ErrInvalidIRI, iri)
	}
	return nil
}
