package cimxml

import (
	"errors"
	"fmt"

	"github.com/geoknoesis/cimxml-go/graph"
	"github.com/geoknoesis/cimxml-go/namespace"
	"github.com/geoknoesis/cimxml-go/rdf"
)

// predicate writes one property element for (p, o).
func (e *emitter) predicate(p rdf.IRI, o rdf.Term, depth int) error {
	if err := e.w.Push(p.Value); err != nil {
		if errors.Is(err, namespace.ErrNoQName) {
			return fmt.Errorf("%w: %s", ErrUnrepresentablePredicate, p.Value)
		}
		return err
	}
	if err := e.object(o, depth); err != nil {
		return err
	}
	return e.w.Pop(p.Value)
}

// object decides how o is written inside the open property element. The
// checks run in a fixed order: literal, already written or leaf, list head,
// class reference, depth-bounded inlining, then the single-use blank node
// exception past the depth bound.
func (e *emitter) object(o rdf.Term, depth int) error {
	if lit, ok := o.(rdf.Literal); ok {
		return e.literal(lit)
	}

	outgoing, err := graph.HasOutgoing(e.store, o)
	if err != nil {
		return err
	}
	if e.serialized.has(o) || !outgoing {
		return e.reference(o)
	}

	isList, err := e.store.Contains(graph.Pattern{S: o, P: rdf.RDFFirst})
	if err != nil {
		return err
	}
	if isList {
		return e.collection(o, depth)
	}

	if iri, ok := o.(rdf.IRI); ok {
		isClass, err := e.isClass(iri)
		if err != nil {
			return err
		}
		if isClass {
			return e.w.Attribute(rdf.RDFResource.Value, e.relativize(iri))
		}
	}

	if depth <= e.cfg.MaxDepth {
		return e.subject(o, depth+1)
	}

	if b, ok := o.(rdf.BlankNode); ok {
		// Not yet written and has outgoing triples: both were checked above.
		refs, err := graph.CountReferences(e.store, b)
		if err != nil {
			return err
		}
		if refs == 1 {
			return e.subject(b, depth+1)
		}
	}
	return e.reference(o)
}

func (e *emitter) literal(lit rdf.Literal) error {
	if lit.Lang != "" {
		if err := e.w.Attribute(rdf.XMLLang.Value, lit.Lang); err != nil {
			return err
		}
	} else if e.cfg.EmitDatatypes && !lit.Datatype.IsZero() && lit.Datatype != rdf.XSDString {
		if err := e.w.Attribute(rdf.RDFDatatype.Value, lit.Datatype.Value); err != nil {
			return err
		}
	}
	return e.w.Text(lit.Lexical)
}

// reference writes o as rdf:resource or rdf:nodeID. A blank node that no
// triple points at gets no attribute at all.
func (e *emitter) reference(o rdf.Term) error {
	switch n := o.(type) {
	case rdf.IRI:
		return e.w.Attribute(rdf.RDFResource.Value, e.relativize(n))
	case rdf.BlankNode:
		refs, err := graph.CountReferences(e.store, n)
		if err != nil {
			return err
		}
		if refs > 0 {
			return e.w.Attribute(rdf.RDFNodeID.Value, nodeID(n))
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported object %T", graph.ErrInvalidTriple, o)
	}
}

// collection writes the list starting at head with rdf:parseType="Collection".
// The list nodes are marked written, so statements on them other than
// rdf:first and rdf:rest are never output.
func (e *emitter) collection(head rdf.Term, depth int) error {
	items, cells, err := graph.CollectionCells(e.store, head)
	if err != nil {
		return err
	}
	e.serialized.mark(head)
	for _, cell := range cells {
		e.serialized.mark(cell)
	}
	e.raise(Warning{
		Code: WarnCollectionHead,
		Node: head,
		Message: fmt.Sprintf("assertions on %s other than rdf:first and rdf:rest are ignored, including rdf:List",
			head),
	})
	if err := e.w.Attribute(rdf.RDFParseType.Value, "Collection"); err != nil {
		return err
	}

	for _, item := range items {
		iri, named := item.(rdf.IRI)
		if named {
			e.forced.add(iri)
		}
		if err := e.subject(item, depth); err != nil {
			return err
		}
		if !named {
			e.serialized.mark(item)
		}
	}
	return nil
}

func (e *emitter) isClass(iri rdf.IRI) (bool, error) {
	for _, class := range []rdf.IRI{rdf.OWLClass, rdf.RDFSClass} {
		ok, err := e.store.Contains(graph.Pattern{S: iri, P: rdf.RDFType, O: class})
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}
