package rdf

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const sampleJSONLD = `{
  "@context": {"cim": "http://iec.ch/TC57/CIM100#"},
  "@id": "cim:Breaker1",
  "@type": "cim:Breaker",
  "cim:IdentifiedObject.name": "BRK 1",
  "cim:Switch.normalOpen": {"@value": "false", "@type": "http://www.w3.org/2001/XMLSchema#boolean"},
  "cim:IdentifiedObject.description": {"@value": "Leistungsschalter", "@language": "de"},
  "cim:Equipment.part": {"cim:IdentifiedObject.name": "inner"}
}`

func TestJSONLDDecode(t *testing.T) {
	got, err := decodeAll(t, sampleJSONLD, FormatJSONLD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	const cim = "http://iec.ch/TC57/CIM100#"
	breaker := IRI{Value: cim + "Breaker1"}
	want := map[Triple]bool{
		{S: breaker, P: RDFType, O: IRI{Value: cim + "Breaker"}}:                                false,
		{S: breaker, P: IRI{Value: cim + "IdentifiedObject.name"}, O: Literal{Lexical: "BRK 1"}}: false,
		{S: breaker, P: IRI{Value: cim + "Switch.normalOpen"},
			O: Literal{Lexical: "false", Datatype: IRI{Value: XSDNS + "boolean"}}}: false,
		{S: breaker, P: IRI{Value: cim + "IdentifiedObject.description"},
			O: Literal{Lexical: "Leistungsschalter", Lang: "de"}}: false,
	}
	var part Term
	for _, triple := range got {
		if _, ok := want[triple]; ok {
			want[triple] = true
		}
		if triple.P.Value == cim+"Equipment.part" {
			part = triple.O
		}
	}
	for triple, seen := range want {
		if !seen {
			t.Fatalf("missing triple %s", triple)
		}
	}
	b, ok := part.(BlankNode)
	if !ok {
		t.Fatalf("expected blank node object, got %#v", part)
	}
	if strings.HasPrefix(b.ID, BlankPrefix) {
		t.Fatalf("blank node id should not keep the marker: %q", b.ID)
	}
	if len(got) != 6 {
		t.Fatalf("expected 6 triples, got %d", len(got))
	}
}

func TestJSONLDDecodeErrors(t *testing.T) {
	_, err := decodeAll(t, `{"@id": `, FormatJSONLD)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) || parseErr.Format != string(FormatJSONLD) {
		t.Fatalf("expected jsonld ParseError, got %v", err)
	}

	_, err = decodeAll(t, sampleJSONLD, FormatJSONLD, OptMaxTriples(2))
	if !errors.Is(err, ErrTripleLimitExceeded) {
		t.Fatalf("expected triple limit error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = decodeAll(t, sampleJSONLD, FormatJSONLD, OptContext(ctx))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestJSONLDNamedGraphsAreMerged(t *testing.T) {
	input := `{
  "@context": {"ex": "http://example.org/"},
  "@id": "ex:g",
  "@graph": [{"@id": "ex:a", "ex:p": "in graph"}]
}`
	got, err := decodeAll(t, input, FormatJSONLD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].S != (IRI{Value: "http://example.org/a"}) {
		t.Fatalf("unexpected triples %v", got)
	}
}
