package cimxml

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoknoesis/cimxml-go/graph"
	"github.com/geoknoesis/cimxml-go/namespace"
	"github.com/geoknoesis/cimxml-go/rdf"
)

func breakerGraph() *graph.Graph {
	return graph.New(
		tr(cim("Breaker1"), rdf.RDFType, cim("Breaker")),
		tr(cim("Breaker1"), cim("IdentifiedObject.name"), lit("BRK 1")),
	)
}

func TestSerializeDocument(t *testing.T) {
	out, warnings := render(t, breakerGraph(), Config{
		ProfileURI:   "http://example.com/profile",
		ScenarioTime: "2024-01-01T00:00:00Z",
		Description:  "a < b",
		Version:      "1",
	})
	want := `<?xml version="1.0" encoding="UTF-8"?>
<?iec61970-552 version="2.0"?>
<rdf:RDF xml:base="urn:uuid:"
  xmlns:cim="http://iec.ch/TC57/CIM100#"
  xmlns:md="http://iec.ch/TC57/61970-552/ModelDescription/1#"
  xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <md:FullModel rdf:about="urn:uuid:00000000-0000-0000-0000-000000000000">
    <md:Model.scenarioTime>2024-01-01T00:00:00Z</md:Model.scenarioTime>
    <md:Model.created></md:Model.created>
    <md:Model.description>a &lt; b</md:Model.description>
    <md:Model.version>1</md:Model.version>
    <md:Model.profile>http://example.com/profile</md:Model.profile>
    <md:Model.modelingAuthoritySet></md:Model.modelingAuthoritySet>
  </md:FullModel>
  <cim:Breaker rdf:ID="_Breaker1">
    <cim:IdentifiedObject.name>BRK 1</cim:IdentifiedObject.name>
  </cim:Breaker>
</rdf:RDF>
`
	assert.Equal(t, want, out)
	assert.Empty(t, warnings)
}

func TestSerializeEmptyGraph(t *testing.T) {
	out, _ := render(t, graph.New(), Config{About: "urn:uuid:1234"})
	assert.Contains(t, out, `<md:FullModel rdf:about="urn:uuid:1234">`)
	assert.True(t, strings.HasSuffix(out, "  </md:FullModel>\n</rdf:RDF>\n"))
}

func TestSerializeConfigErrorsWriteNothing(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"missing profile", Config{}, ErrMissingProfile},
		{"negative depth", Config{ProfileURI: testProfile, MaxDepth: -1}, ErrInvalidMaxDepth},
		{"unknown encoding", Config{ProfileURI: testProfile, Encoding: "no-such-charset"}, ErrUnsupportedEncoding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := Serialize(&buf, breakerGraph(), tt.cfg)
			require.ErrorIs(t, err, tt.want)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, ErrCodeConfig, Code(err))
			assert.Zero(t, buf.Len())
		})
	}
}

func TestSerializeCycleTerminates(t *testing.T) {
	g := graph.New(
		tr(cim("a"), rdf.RDFType, cim("Node")),
		tr(cim("a"), cim("Node.next"), cim("b")),
		tr(cim("b"), rdf.RDFType, cim("Node")),
		tr(cim("b"), cim("Node.next"), cim("a")),
		tr(cim("c"), cim("Node.next"), cim("c")),
	)
	out, _ := render(t, g, Config{})
	assert.Equal(t, 1, strings.Count(out, `rdf:ID="_a"`))
	assert.Equal(t, 1, strings.Count(out, `rdf:ID="_b"`))
	assert.Equal(t, 1, strings.Count(out, `rdf:ID="_c"`))
	assert.Contains(t, out, `<cim:Node.next rdf:resource="_a"/>`)
	assert.Contains(t, out, `<cim:Node.next rdf:resource="_c"/>`)
}

func chainGraph() *graph.Graph {
	g := graph.New()
	for i := 1; i <= 5; i++ {
		n := cim("n" + string(rune('0'+i)))
		_ = g.Add(tr(n, rdf.RDFType, cim("Thing")))
		if i < 5 {
			_ = g.Add(tr(n, cim("Thing.next"), cim("n"+string(rune('0'+i+1)))))
		}
	}
	return g
}

func TestSerializeDepthBound(t *testing.T) {
	out, _ := render(t, chainGraph(), Config{})
	for i := 1; i <= 5; i++ {
		assert.Equal(t, 1, strings.Count(out, `rdf:ID="_n`+string(rune('0'+i))+`"`), "n%d", i)
	}
	assert.Contains(t, out, "\n      <cim:Thing rdf:ID=\"_n2\">")
	assert.Contains(t, out, `<cim:Thing.next rdf:resource="_n3"/>`)
	assert.Contains(t, out, "\n  <cim:Thing rdf:ID=\"_n3\">")
	assert.Contains(t, out, `<cim:Thing.next rdf:resource="_n5"/>`)
	assert.NotContains(t, out, `rdf:resource="_n2"`)
	assert.NotContains(t, out, `rdf:resource="_n4"`)
}

func TestSerializeMaxDepthOneKeepsSubjectsFlat(t *testing.T) {
	out, _ := render(t, chainGraph(), Config{MaxDepth: 1})
	for i := 1; i <= 5; i++ {
		assert.Contains(t, out, "\n  <cim:Thing rdf:ID=\"_n"+string(rune('0'+i))+"\"")
	}
	assert.Contains(t, out, `<cim:Thing.next rdf:resource="_n2"/>`)
}

func TestSerializeSingleUseBlankNodePastDepth(t *testing.T) {
	g := graph.New(
		tr(cim("a"), rdf.RDFType, cim("Thing")),
		tr(cim("a"), cim("Thing.part"), blank("b")),
		tr(blank("b"), cim("IdentifiedObject.name"), lit("x")),
	)
	out, _ := render(t, g, Config{MaxDepth: 1})
	assert.Equal(t, 1, strings.Count(out, `rdf:nodeID="b"`))
	assert.Contains(t, out, "<cim:Thing.part>\n      <rdf:Description rdf:nodeID=\"b\">")
}

func TestSerializeSharedBlankNodePastDepth(t *testing.T) {
	g := graph.New(
		tr(cim("a"), cim("Thing.part"), blank("b")),
		tr(cim("c"), cim("Thing.part"), blank("b")),
		tr(blank("b"), cim("IdentifiedObject.name"), lit("x")),
	)
	out, _ := render(t, g, Config{MaxDepth: 1})
	assert.Equal(t, 2, strings.Count(out, `<cim:Thing.part rdf:nodeID="b"/>`))
	assert.Contains(t, out, "\n  <rdf:Description rdf:nodeID=\"b\">")
}

func TestSerializeLeafObjectsAreReferences(t *testing.T) {
	g := graph.New(
		tr(cim("a"), cim("Thing.ref"), cim("elsewhere")),
		tr(cim("a"), cim("Thing.anon"), blank("leaf")),
	)
	out, _ := render(t, g, Config{})
	assert.Contains(t, out, `<cim:Thing.ref rdf:resource="_elsewhere"/>`)
	assert.Contains(t, out, `<cim:Thing.anon rdf:nodeID="leaf"/>`)
}

func collectionGraph() *graph.Graph {
	return graph.New(
		tr(cim("s"), rdf.RDFType, cim("Thing")),
		tr(cim("s"), cim("Thing.members"), blank("l1")),
		tr(blank("l1"), rdf.RDFType, rdf.RDFList),
		tr(blank("l1"), rdf.RDFFirst, cim("a")),
		tr(blank("l1"), rdf.RDFRest, blank("l2")),
		tr(blank("l2"), rdf.RDFFirst, cim("b")),
		tr(blank("l2"), rdf.RDFRest, blank("l3")),
		tr(blank("l3"), rdf.RDFFirst, cim("c")),
		tr(blank("l3"), rdf.RDFRest, rdf.RDFNil),
		tr(cim("a"), rdf.RDFType, cim("Thing")),
		tr(cim("b"), rdf.RDFType, cim("Thing")),
		tr(cim("c"), rdf.RDFType, cim("Thing")),
	)
}

func TestSerializeCollection(t *testing.T) {
	out, warnings := render(t, collectionGraph(), Config{})

	want := `  <cim:Thing rdf:ID="_s">
    <cim:Thing.members rdf:parseType="Collection">
      <rdf:Description rdf:ID="_a"/>
      <rdf:Description rdf:ID="_b"/>
      <rdf:Description rdf:ID="_c"/>
    </cim:Thing.members>
  </cim:Thing>`
	assert.Contains(t, out, want)
	assert.NotContains(t, out, "rdf:List")
	assert.NotContains(t, out, "rdf:first")
	assert.NotContains(t, out, `rdf:nodeID="l2"`)
	for _, id := range []string{"a", "b", "c"} {
		assert.Contains(t, out, "\n  <cim:Thing rdf:ID=\"_"+id+"\"/>")
	}

	require.Len(t, warnings, 1)
	assert.Equal(t, WarnCollectionHead, warnings[0].Code)
	assert.Equal(t, rdf.Term(blank("l1")), warnings[0].Node)
}

func TestSerializeCollectionWithLiteralAndBlankItems(t *testing.T) {
	g := graph.New(
		tr(cim("s"), cim("Thing.members"), blank("l1")),
		tr(blank("l1"), rdf.RDFFirst, lit("1")),
		tr(blank("l1"), rdf.RDFRest, blank("l2")),
		tr(blank("l2"), rdf.RDFFirst, blank("item")),
		tr(blank("l2"), rdf.RDFRest, rdf.RDFNil),
		tr(blank("item"), cim("IdentifiedObject.name"), lit("inner")),
	)
	out, warnings := render(t, g, Config{})

	assert.Contains(t, out, `<cim:Thing.members rdf:parseType="Collection">`)
	assert.Contains(t, out, `<rdf:Description rdf:nodeID="item">`)
	assert.Equal(t, 1, strings.Count(out, `rdf:nodeID="item"`))

	require.Len(t, warnings, 2)
	assert.Equal(t, WarnCollectionHead, warnings[0].Code)
	assert.Equal(t, WarnLiteralSubject, warnings[1].Code)
	assert.Equal(t, rdf.Term(lit("1")), warnings[1].Node)
}

func TestSerializeLanguageLiteral(t *testing.T) {
	g := graph.New(
		tr(cim("a"), cim("IdentifiedObject.name"), rdf.Literal{Lexical: "Hallo & Tschüss", Lang: "de"}),
	)
	out, _ := render(t, g, Config{})
	assert.Contains(t, out, `<cim:IdentifiedObject.name xml:lang="de">Hallo &amp; Tschüss</cim:IdentifiedObject.name>`)
}

func TestSerializeDatatypes(t *testing.T) {
	xsdInt := rdf.IRI{Value: rdf.XSDNS + "int"}
	g := graph.New(
		tr(cim("a"), cim("Thing.count"), rdf.Literal{Lexical: "5", Datatype: xsdInt}),
		tr(cim("a"), cim("Thing.label"), rdf.Literal{Lexical: "five", Datatype: rdf.XSDString}),
	)

	plain, _ := render(t, g, Config{})
	assert.Contains(t, plain, `<cim:Thing.count>5</cim:Thing.count>`)

	typed, _ := render(t, g, Config{EmitDatatypes: true})
	assert.Contains(t, typed, `<cim:Thing.count rdf:datatype="http://www.w3.org/2001/XMLSchema#int">5</cim:Thing.count>`)
	assert.Contains(t, typed, `<cim:Thing.label>five</cim:Thing.label>`)
}

func TestSerializeClassReferenceIsNotInlined(t *testing.T) {
	for _, class := range []rdf.IRI{rdf.OWLClass, rdf.RDFSClass} {
		t.Run(class.Value, func(t *testing.T) {
			g := graph.New(
				tr(cim("a"), rdf.RDFType, cim("Thing")),
				tr(cim("a"), cim("Thing.kind"), cim("Kind")),
				tr(cim("Kind"), rdf.RDFType, class),
				tr(cim("Kind"), rdf.IRI{Value: rdf.RDFSNS + "label"}, lit("kind")),
			)
			out, _ := render(t, g, Config{})
			assert.Contains(t, out, `<cim:Thing.kind rdf:resource="_Kind"/>`)
			assert.Equal(t, 1, strings.Count(out, `rdf:ID="_Kind"`))
			assert.Contains(t, out, "\n  <"+map[rdf.IRI]string{rdf.OWLClass: "owl", rdf.RDFSClass: "rdfs"}[class]+`:Class rdf:ID="_Kind">`)
		})
	}
}

func TestSerializeUntypedSubjectUsesDescription(t *testing.T) {
	g := graph.New(
		tr(cim("a"), rdf.RDFType, lit("not a class")),
		tr(cim("a"), cim("IdentifiedObject.name"), lit("x")),
	)
	out, _ := render(t, g, Config{})
	assert.Contains(t, out, `<rdf:Description rdf:ID="_a">`)
	assert.Contains(t, out, `<rdf:type>not a class</rdf:type>`)
}

func TestSerializeUnrepresentablePredicate(t *testing.T) {
	g := graph.New(tr(cim("a"), rdf.IRI{Value: "http://example.com/123"}, lit("x")))
	err := Serialize(&bytes.Buffer{}, g, Config{ProfileURI: testProfile})
	require.ErrorIs(t, err, ErrUnrepresentablePredicate)
	assert.Equal(t, ErrCodeUnrepresentable, Code(err))
}

func TestSerializeXMLBasePrecedence(t *testing.T) {
	g := breakerGraph()

	out, _ := render(t, g, Config{})
	assert.Contains(t, out, `xml:base="urn:uuid:"`)

	g.SetBase("http://graph.example/")
	out, _ = render(t, g, Config{})
	assert.Contains(t, out, `xml:base="http://graph.example/"`)

	out, _ = render(t, g, Config{Base: "http://base.example/"})
	assert.Contains(t, out, `xml:base="http://base.example/"`)

	out, _ = render(t, g, Config{Base: "http://base.example/", XMLBase: "http://xmlbase.example/"})
	assert.Contains(t, out, `xml:base="http://xmlbase.example/"`)
}

func TestSerializeLatin1(t *testing.T) {
	g := graph.New(tr(cim("a"), cim("IdentifiedObject.name"), lit("café Ω")))
	out, _ := render(t, g, Config{Encoding: "latin1"})
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="ISO-8859-1"?>`))
	assert.Contains(t, out, "caf\xe9 &#937;")
}

func TestSerializeNamespaces(t *testing.T) {
	const eu = "http://iec.ch/TC57/CIM100-European#"
	const other = "http://example.com/other#"
	names := namespace.NewManager()
	require.NoError(t, names.Bind("eu", eu, false))

	g := graph.New(
		tr(cim("a"), rdf.RDFType, rdf.IRI{Value: eu + "Thing"}),
		tr(cim("a"), rdf.IRI{Value: other + "p"}, lit("x")),
	)
	out, _ := render(t, g, Config{}, WithNamespaces(names))
	assert.Contains(t, out, `xmlns:eu="`+eu+`"`)
	assert.Contains(t, out, `xmlns:ns1="`+other+`"`)
	assert.Contains(t, out, `<eu:Thing rdf:ID="_a">`)
	assert.Contains(t, out, `<ns1:p>x</ns1:p>`)
	assert.NotContains(t, out, "xmlns:owl")

	_, bound := names.Prefix(other)
	assert.False(t, bound, "caller manager must not be modified")
}

func TestSerializeIndent(t *testing.T) {
	out, _ := render(t, breakerGraph(), Config{}, WithIndent("\t"))
	assert.Contains(t, out, "\n\t<cim:Breaker rdf:ID=\"_Breaker1\">\n\t\t<cim:IdentifiedObject.name>")
}

func TestSerializerConcurrentUse(t *testing.T) {
	s := New(collectionGraph())
	cfg := Config{ProfileURI: testProfile}

	var want bytes.Buffer
	require.NoError(t, s.Serialize(&want, cfg))

	var wg sync.WaitGroup
	results := make([]string, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var buf bytes.Buffer
			errs[i] = s.Serialize(&buf, cfg)
			results[i] = buf.String()
		}(i)
	}
	wg.Wait()
	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, want.String(), results[i])
	}
}

var errSink = errors.New("sink closed")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errSink }

func TestSerializeSinkFailure(t *testing.T) {
	err := Serialize(failingWriter{}, breakerGraph(), Config{ProfileURI: testProfile})
	require.ErrorIs(t, err, errSink)
	assert.Equal(t, ErrCodeIOError, Code(err))
}

var errStore = errors.New("store offline")

type brokenStore struct {
	*graph.Graph
	failMatch bool
}

func (s brokenStore) Subjects() ([]rdf.Term, error) {
	return nil, errStore
}

func (s brokenStore) Match(p graph.Pattern) ([]rdf.Triple, error) {
	if s.failMatch {
		return nil, errStore
	}
	return s.Graph.Match(p)
}

func TestSerializeStoreFailure(t *testing.T) {
	for _, failMatch := range []bool{false, true} {
		var buf bytes.Buffer
		err := Serialize(&buf, brokenStore{Graph: breakerGraph(), failMatch: failMatch}, Config{ProfileURI: testProfile})
		require.ErrorIs(t, err, errStore)
		assert.Equal(t, ErrCodeIOError, Code(err))
		assert.Zero(t, buf.Len())
	}
}
