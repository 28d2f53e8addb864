package cimxml

import (
	"fmt"

	"github.com/geoknoesis/cimxml-go/graph"
	"github.com/geoknoesis/cimxml-go/rdf"
)

// subject writes node as a full element unless it was written before.
// A forced list member is written as an empty rdf:Description reference
// instead, whatever its ledger state.
func (e *emitter) subject(node rdf.Term, depth int) error {
	if iri, ok := node.(rdf.IRI); ok && e.forced.take(iri) {
		if err := e.w.Push(rdf.RDFDesc.Value); err != nil {
			return err
		}
		if err := e.w.Attribute(rdf.RDFID.Value, e.relativize(iri)); err != nil {
			return err
		}
		return e.w.Pop(rdf.RDFDesc.Value)
	}
	if e.serialized.has(node) {
		return nil
	}
	if lit, ok := node.(rdf.Literal); ok {
		e.raise(Warning{
			Code:    WarnLiteralSubject,
			Node:    lit,
			Message: fmt.Sprintf("literal %s cannot be written as a collection member", lit),
		})
		return nil
	}
	e.serialized.mark(node)

	typ, err := e.elementType(node)
	if err != nil {
		return err
	}
	element := rdf.RDFDesc
	if typ != nil {
		element = *typ
	}

	if err := e.w.Push(element.Value); err != nil {
		return err
	}
	switch n := node.(type) {
	case rdf.BlankNode:
		err = e.w.Attribute(rdf.RDFNodeID.Value, nodeID(n))
	case rdf.IRI:
		err = e.w.Attribute(rdf.RDFID.Value, e.relativize(n))
	default:
		err = fmt.Errorf("%w: unsupported subject %T", graph.ErrInvalidTriple, node)
	}
	if err != nil {
		return err
	}

	triples, err := graph.PredicateObjects(e.store, node)
	if err != nil {
		return err
	}
	for _, t := range triples {
		if t.P.IsZero() || t.O == nil {
			continue
		}
		if typ != nil && t.P == rdf.RDFType && t.O == rdf.Term(*typ) {
			continue
		}
		if err := e.predicate(t.P, t.O, depth+1); err != nil {
			return err
		}
	}
	return e.w.Pop(element.Value)
}

// elementType returns the first rdf:type of node when it can be written as a
// qualified element name, or nil for the generic rdf:Description.
func (e *emitter) elementType(node rdf.Term) (*rdf.IRI, error) {
	typ, ok, err := graph.FirstObject(e.store, node, rdf.RDFType)
	if err != nil || !ok {
		return nil, err
	}
	iri, ok := typ.(rdf.IRI)
	if !ok {
		return nil, nil
	}
	if _, err := e.names.QName(iri.Value); err != nil {
		return nil, nil
	}
	return &iri, nil
}
