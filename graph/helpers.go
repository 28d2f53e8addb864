package graph

import (
	"github.com/geoknoesis/cimxml-go/rdf"
)

// Objects returns the objects of (s, p, *).
func Objects(st Store, s rdf.Term, p rdf.IRI) ([]rdf.Term, error) {
	triples, err := st.Match(Pattern{S: s, P: p})
	if err != nil {
		return nil, err
	}
	out := make([]rdf.Term, 0, len(triples))
	for _, t := range triples {
		out = append(out, t.O)
	}
	return out, nil
}

// FirstObject returns the first object of (s, p, *), if any.
func FirstObject(st Store, s rdf.Term, p rdf.IRI) (rdf.Term, bool, error) {
	triples, err := st.Match(Pattern{S: s, P: p})
	if err != nil || len(triples) == 0 {
		return nil, false, err
	}
	return triples[0].O, true, nil
}

// PredicateObjects returns every triple whose subject is s.
func PredicateObjects(st Store, s rdf.Term) ([]rdf.Triple, error) {
	return st.Match(Pattern{S: s})
}

// HasOutgoing reports whether n is the subject of any triple.
func HasOutgoing(st Store, n rdf.Term) (bool, error) {
	return st.Contains(Pattern{S: n})
}

// CountReferences returns the number of triples whose object is n.
func CountReferences(st Store, n rdf.Term) (int, error) {
	triples, err := st.Match(Pattern{O: n})
	if err != nil {
		return 0, err
	}
	return len(triples), nil
}

// TypeObjects returns the objects of every rdf:type triple, deduplicated in
// first-seen order.
func TypeObjects(st Store) ([]rdf.Term, error) {
	triples, err := st.Match(Pattern{P: rdf.RDFType})
	if err != nil {
		return nil, err
	}
	seen := make(map[rdf.Term]struct{}, len(triples))
	out := make([]rdf.Term, 0, len(triples))
	for _, t := range triples {
		if _, ok := seen[t.O]; ok {
			continue
		}
		seen[t.O] = struct{}{}
		out = append(out, t.O)
	}
	return out, nil
}

// Collection materializes the rdf:first/rdf:rest list starting at head.
// Walking stops at rdf:nil, at a node without rdf:first or rdf:rest, or when
// a list node repeats.
func Collection(st Store, head rdf.Term) ([]rdf.Term, error) {
	items, _, err := CollectionCells(st, head)
	return items, err
}

// CollectionCells is Collection that also returns the list nodes visited,
// head first.
func CollectionCells(st Store, head rdf.Term) (items, cells []rdf.Term, err error) {
	visited := make(map[rdf.Term]struct{})
	node := head
	for node != nil && node != rdf.Term(rdf.RDFNil) {
		if _, ok := visited[node]; ok {
			break
		}
		visited[node] = struct{}{}

		first, ok, err := FirstObject(st, node, rdf.RDFFirst)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			break
		}
		cells = append(cells, node)
		items = append(items, first)

		rest, ok, err := FirstObject(st, node, rdf.RDFRest)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			break
		}
		node = rest
	}
	return items, cells, nil
}
