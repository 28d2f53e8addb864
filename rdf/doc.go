// Package rdf provides the compact RDF term model shared by the graph store,
// the namespace manager and the CIM/XML serializer, plus streaming loaders.
//
// Terms form a closed set: IRI (named node), BlankNode (anonymous node) and
// Literal. All three are comparable values and can be used as map keys.
//
// Loaders:
//   - N-Triples and N-Quads via a line-oriented pull decoder. N-Quads graph
//     labels are accepted and dropped; every statement lands in one graph.
//   - JSON-LD via github.com/piprate/json-gold, converted up front.
//
// Example (decoding triples):
//
//	dec, err := rdf.NewTripleDecoder(strings.NewReader(input), rdf.FormatNTriples)
//	if err != nil {
//	    // handle error
//	}
//	defer dec.Close()
//
//	for {
//	    triple, err := dec.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        // handle error
//	    }
//	    // process triple.S, triple.P, triple.O
//	}
//
// FormatTerm and ParseTerm convert single terms to and from N-Triples syntax;
// the SQL-backed store uses them as its column encoding.
package rdf
