package rdf

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	ld "github.com/piprate/json-gold/ld"
)

const rdfLangString = RDFNS + "langString"

// jsonldDecoder converts a whole JSON-LD document up front and replays the
// resulting triples. Named graphs are merged into one triple stream.
type jsonldDecoder struct {
	triples []Triple
	pos     int
}

func newJSONLDDecoder(r io.Reader, opts DecodeOptions) (*jsonldDecoder, error) {
	var doc interface{}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, &ParseError{Format: string(FormatJSONLD), Err: err}
	}
	if err := opts.Context.Err(); err != nil {
		return nil, err
	}

	proc := ld.NewJsonLdProcessor()
	goldOpts := ld.NewJsonLdOptions(opts.Base)
	result, err := proc.ToRDF(doc, goldOpts)
	if err != nil {
		return nil, &ParseError{Format: string(FormatJSONLD), Err: err}
	}
	dataset, ok := result.(*ld.RDFDataset)
	if !ok {
		return nil, fmt.Errorf("jsonld: unexpected ToRDF result %T", result)
	}

	triples, err := datasetTriples(dataset)
	if err != nil {
		return nil, err
	}
	if opts.MaxTriples > 0 && int64(len(triples)) > opts.MaxTriples {
		return nil, ErrTripleLimitExceeded
	}
	return &jsonldDecoder{triples: triples}, nil
}

func (d *jsonldDecoder) Next() (Triple, error) {
	if d.pos >= len(d.triples) {
		return Triple{}, io.EOF
	}
	t := d.triples[d.pos]
	d.pos++
	return t, nil
}

func (d *jsonldDecoder) Close() error { return nil }

// datasetTriples flattens a json-gold dataset, default graph first and named
// graphs in name order.
func datasetTriples(dataset *ld.RDFDataset) ([]Triple, error) {
	names := make([]string, 0, len(dataset.Graphs))
	for name := range dataset.Graphs {
		if name != "@default" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	names = append([]string{"@default"}, names...)

	var triples []Triple
	for _, name := range names {
		for _, quad := range dataset.Graphs[name] {
			if quad == nil {
				continue
			}
			s, err := fromGoldNode(quad.Subject)
			if err != nil {
				return nil, err
			}
			p, err := fromGoldNode(quad.Predicate)
			if err != nil {
				return nil, err
			}
			pred, ok := p.(IRI)
			if !ok {
				return nil, fmt.Errorf("jsonld: predicate %s is not an IRI", p)
			}
			o, err := fromGoldNode(quad.Object)
			if err != nil {
				return nil, err
			}
			triples = append(triples, Triple{S: s, P: pred, O: o})
		}
	}
	return triples, nil
}

func fromGoldNode(node ld.Node) (Term, error) {
	switch value := node.(type) {
	case ld.IRI:
		return IRI{Value: value.Value}, nil
	case *ld.IRI:
		return IRI{Value: value.Value}, nil
	case ld.BlankNode:
		return BlankNode{ID: StripBlankPrefix(value.Attribute)}, nil
	case *ld.BlankNode:
		return BlankNode{ID: StripBlankPrefix(value.Attribute)}, nil
	case ld.Literal:
		return goldLiteral(value), nil
	case *ld.Literal:
		return goldLiteral(*value), nil
	default:
		return nil, fmt.Errorf("jsonld: unsupported node %T", node)
	}
}

func goldLiteral(value ld.Literal) Literal {
	lit := Literal{Lexical: value.Value, Lang: value.Language}
	if value.Datatype != XSDString.Value && value.Datatype != rdfLangString {
		lit.Datatype = IRI{Value: value.Datatype}
	}
	return lit
}
