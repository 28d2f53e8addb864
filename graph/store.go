// Package graph defines the query surface the serializer needs from a triple
// store, an insertion-ordered in-memory implementation, and list helpers.
package graph

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/geoknoesis/cimxml-go/rdf"
)

// ErrInvalidTriple is returned when a triple cannot be stored.
var ErrInvalidTriple = errors.New("graph: invalid triple")

// Pattern selects triples. A nil S or O and an empty P act as wildcards.
type Pattern struct {
	S rdf.Term
	P rdf.IRI
	O rdf.Term
}

// Matches reports whether t satisfies the pattern.
func (p Pattern) Matches(t rdf.Triple) bool {
	if p.S != nil && p.S != t.S {
		return false
	}
	if p.P.Value != "" && p.P != t.P {
		return false
	}
	if p.O != nil && p.O != t.O {
		return false
	}
	return true
}

// Store is a queryable triple collection. Enumeration order is the store's
// natural order; implementations in this module use insertion order.
type Store interface {
	// Subjects returns every distinct subject.
	Subjects() ([]rdf.Term, error)
	// Predicates returns every distinct predicate.
	Predicates() ([]rdf.IRI, error)
	// Match returns the triples matching the pattern.
	Match(Pattern) ([]rdf.Triple, error)
	// Contains reports whether at least one triple matches the pattern.
	Contains(Pattern) (bool, error)
	// Len returns the number of stored triples.
	Len() (int, error)
}

// Adder accepts triples. Adding a triple that is already present is a no-op.
type Adder interface {
	Add(rdf.Triple) error
}

// Based is implemented by stores that carry a base IRI.
type Based interface {
	Base() string
}

// ValidateTriple checks the structural constraints every store enforces.
func ValidateTriple(t rdf.Triple) error {
	switch t.S.(type) {
	case rdf.IRI, rdf.BlankNode:
	default:
		return fmt.Errorf("%w: subject %v must be an IRI or blank node", ErrInvalidTriple, t.S)
	}
	if t.P.Value == "" {
		return fmt.Errorf("%w: empty predicate", ErrInvalidTriple)
	}
	if t.O == nil {
		return fmt.Errorf("%w: missing object", ErrInvalidTriple)
	}
	return nil
}

// Load decodes r in the given format and adds every triple to dst.
// It returns the number of triples read.
func Load(ctx context.Context, dst Adder, r io.Reader, format rdf.Format, opts ...rdf.Option) (int, error) {
	count := 0
	err := rdf.Parse(ctx, r, format, func(t rdf.Triple) error {
		count++
		return dst.Add(t)
	}, opts...)
	return count, err
}
