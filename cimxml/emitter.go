package cimxml

import (
	"strings"

	"go.uber.org/zap"

	"github.com/geoknoesis/cimxml-go/graph"
	"github.com/geoknoesis/cimxml-go/namespace"
	"github.com/geoknoesis/cimxml-go/rdf"
	"github.com/geoknoesis/cimxml-go/xmlwriter"
)

// idMarker prefixes every relativized identifier.
const idMarker = "_"

// ledger records nodes whose element has been written. It only grows.
type ledger map[rdf.Term]struct{}

func (l ledger) mark(t rdf.Term) { l[t] = struct{}{} }

func (l ledger) has(t rdf.Term) bool {
	_, ok := l[t]
	return ok
}

// forcedRefs holds list members that must be written as a bare reference the
// next time they are visited as a subject.
type forcedRefs map[rdf.IRI]struct{}

func (f forcedRefs) add(iri rdf.IRI) { f[iri] = struct{}{} }

// take removes iri and reports whether it was present.
func (f forcedRefs) take(iri rdf.IRI) bool {
	if _, ok := f[iri]; !ok {
		return false
	}
	delete(f, iri)
	return true
}

// emitter carries the traversal state of one Serialize call.
type emitter struct {
	store    graph.Store
	w        *xmlwriter.Writer
	names    *namespace.Manager
	declared []namespace.Binding
	cfg      resolved
	logger   *zap.Logger
	warn     WarningHandler

	serialized ledger
	forced     forcedRefs
}

func newEmitter(store graph.Store, w *xmlwriter.Writer, names *namespace.Manager, declared []namespace.Binding, cfg resolved, o options) *emitter {
	return &emitter{
		store:      store,
		w:          w,
		names:      names,
		declared:   declared,
		cfg:        cfg,
		logger:     o.logger,
		warn:       o.onWarning,
		serialized: make(ledger),
		forced:     make(forcedRefs),
	}
}

// relativize shortens iri against the longest declared namespace it starts
// with. Distinct IRIs may map to the same token.
func (e *emitter) relativize(iri rdf.IRI) string {
	best := ""
	for _, b := range e.declared {
		if len(b.Namespace) > len(best) && strings.HasPrefix(iri.Value, b.Namespace) {
			best = b.Namespace
		}
	}
	return idMarker + strings.TrimPrefix(iri.Value, best)
}

func (e *emitter) raise(w Warning) {
	e.logger.Warn(w.Message, zap.String("code", string(w.Code)), zap.Stringer("node", w.Node))
	if e.warn != nil {
		e.warn(w)
	}
}

// nodeID renders a blank node identifier as an rdf:nodeID value.
func nodeID(b rdf.BlankNode) string {
	return rdf.StripBlankPrefix(b.ID)
}
