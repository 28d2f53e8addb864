package rdf

import "testing"

func TestTermKinds(t *testing.T) {
	cases := []struct {
		term Term
		kind TermKind
		str  string
	}{
		{IRI{Value: "http://example.org/s"}, TermIRI, "http://example.org/s"},
		{BlankNode{ID: "b1"}, TermBlankNode, "_:b1"},
		{Literal{Lexical: "v"}, TermLiteral, `"v"`},
		{Literal{Lexical: "v", Lang: "en"}, TermLiteral, `"v"@en`},
		{Literal{Lexical: "1", Datatype: IRI{Value: XSDNS + "int"}}, TermLiteral, `"1"^^<http://www.w3.org/2001/XMLSchema#int>`},
	}
	for _, c := range cases {
		if c.term.Kind() != c.kind {
			t.Fatalf("%v: kind %v, want %v", c.term, c.term.Kind(), c.kind)
		}
		if c.term.String() != c.str {
			t.Fatalf("String() = %q, want %q", c.term.String(), c.str)
		}
	}
	if TermKind(9).String() != "kind(9)" {
		t.Fatalf("unexpected unknown kind name %q", TermKind(9).String())
	}
}

func TestTermsAreMapKeys(t *testing.T) {
	seen := map[Term]int{}
	seen[IRI{Value: "x"}]++
	seen[IRI{Value: "x"}]++
	seen[BlankNode{ID: "x"}]++
	seen[Literal{Lexical: "x"}]++
	if len(seen) != 3 || seen[IRI{Value: "x"}] != 2 {
		t.Fatalf("unexpected map contents: %v", seen)
	}
}

func TestTripleString(t *testing.T) {
	triple := Triple{S: BlankNode{ID: "b"}, P: RDFType, O: Literal{Lexical: "a \"q\"\n"}}
	want := `_:b <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> "a \"q\"\n" .`
	if got := triple.String(); got != want {
		t.Fatalf("String() = %s, want %s", got, want)
	}
	if !(Triple{}).IsZero() || triple.IsZero() {
		t.Fatal("IsZero mismatch")
	}
}

func TestStripBlankPrefix(t *testing.T) {
	if got := StripBlankPrefix("_:b1"); got != "b1" {
		t.Fatalf("got %q", got)
	}
	if got := StripBlankPrefix("_:_:b1"); got != "_:b1" {
		t.Fatalf("only one marker should be removed, got %q", got)
	}
	if got := StripBlankPrefix("b1"); got != "b1" {
		t.Fatalf("got %q", got)
	}
}

func TestTermPredicates(t *testing.T) {
	if !IsNamed(RDFType) || IsNamed(BlankNode{ID: "b"}) {
		t.Fatal("IsNamed mismatch")
	}
	if !IsBlank(BlankNode{ID: "b"}) || IsBlank(RDFType) {
		t.Fatal("IsBlank mismatch")
	}
	if !IsLiteral(Literal{Lexical: "x"}) || IsLiteral(RDFType) {
		t.Fatal("IsLiteral mismatch")
	}
}
