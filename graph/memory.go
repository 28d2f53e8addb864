package graph

import (
	"sync"

	"github.com/geoknoesis/cimxml-go/rdf"
)

// Graph is an in-memory Store. Triples keep their insertion order and
// duplicates are ignored. A Graph is safe for concurrent use.
type Graph struct {
	mu sync.RWMutex

	base       string
	triples    []rdf.Triple
	set        map[rdf.Triple]struct{}
	bySubject  map[rdf.Term][]int
	byObject   map[rdf.Term][]int
	byPred     map[rdf.IRI][]int
	subjects   []rdf.Term
	predicates []rdf.IRI
}

// New returns an empty graph, optionally seeded with triples.
// It panics if a seed triple is invalid.
func New(triples ...rdf.Triple) *Graph {
	g := &Graph{
		set:       make(map[rdf.Triple]struct{}),
		bySubject: make(map[rdf.Term][]int),
		byObject:  make(map[rdf.Term][]int),
		byPred:    make(map[rdf.IRI][]int),
	}
	for _, t := range triples {
		if err := g.Add(t); err != nil {
			panic(err)
		}
	}
	return g
}

// SetBase records the graph base IRI.
func (g *Graph) SetBase(base string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.base = base
}

// Base returns the graph base IRI, if any.
func (g *Graph) Base() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.base
}

// Add stores t unless it is already present.
func (g *Graph) Add(t rdf.Triple) error {
	if err := ValidateTriple(t); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.set[t]; ok {
		return nil
	}
	idx := len(g.triples)
	g.triples = append(g.triples, t)
	g.set[t] = struct{}{}
	if _, ok := g.bySubject[t.S]; !ok {
		g.subjects = append(g.subjects, t.S)
	}
	if _, ok := g.byPred[t.P]; !ok {
		g.predicates = append(g.predicates, t.P)
	}
	g.bySubject[t.S] = append(g.bySubject[t.S], idx)
	g.byObject[t.O] = append(g.byObject[t.O], idx)
	g.byPred[t.P] = append(g.byPred[t.P], idx)
	return nil
}

// Subjects returns the distinct subjects in first-seen order.
func (g *Graph) Subjects() ([]rdf.Term, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]rdf.Term(nil), g.subjects...), nil
}

// Predicates returns the distinct predicates in first-seen order.
func (g *Graph) Predicates() ([]rdf.IRI, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]rdf.IRI(nil), g.predicates...), nil
}

// Match returns the matching triples in insertion order.
func (g *Graph) Match(p Pattern) ([]rdf.Triple, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []rdf.Triple
	g.scan(p, func(t rdf.Triple) bool {
		out = append(out, t)
		return true
	})
	return out, nil
}

// Contains reports whether any triple matches.
func (g *Graph) Contains(p Pattern) (bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if p.S != nil && p.P.Value != "" && p.O != nil {
		_, ok := g.set[rdf.Triple{S: p.S, P: p.P, O: p.O}]
		return ok, nil
	}
	found := false
	g.scan(p, func(rdf.Triple) bool {
		found = true
		return false
	})
	return found, nil
}

// Len returns the number of triples.
func (g *Graph) Len() (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.triples), nil
}

// Triples returns a copy of every triple in insertion order.
func (g *Graph) Triples() []rdf.Triple {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]rdf.Triple(nil), g.triples...)
}

// scan walks the narrowest index for p; fn returns false to stop.
// Callers hold the read lock.
func (g *Graph) scan(p Pattern, fn func(rdf.Triple) bool) {
	var candidates []int
	switch {
	case p.S != nil:
		candidates = g.bySubject[p.S]
	case p.O != nil:
		candidates = g.byObject[p.O]
	case p.P.Value != "":
		candidates = g.byPred[p.P]
	default:
		for _, t := range g.triples {
			if !fn(t) {
				return
			}
		}
		return
	}
	for _, idx := range candidates {
		t := g.triples[idx]
		if p.Matches(t) && !fn(t) {
			return
		}
	}
}
