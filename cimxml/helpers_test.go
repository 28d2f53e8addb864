package cimxml

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geoknoesis/cimxml-go/graph"
	"github.com/geoknoesis/cimxml-go/rdf"
)

const testProfile = "http://iec.ch/TC57/ns/CIM/CoreEquipment-EU/3.0"

func cim(local string) rdf.IRI { return rdf.IRI{Value: CIMNS + local} }

func blank(id string) rdf.BlankNode { return rdf.BlankNode{ID: id} }

func lit(s string) rdf.Literal { return rdf.Literal{Lexical: s} }

func tr(s rdf.Term, p rdf.IRI, o rdf.Term) rdf.Triple {
	return rdf.Triple{S: s, P: p, O: o}
}

// render serializes g and returns the document and the raised warnings.
func render(t *testing.T, g graph.Store, cfg Config, opts ...Option) (string, []Warning) {
	t.Helper()
	if cfg.ProfileURI == "" {
		cfg.ProfileURI = testProfile
	}
	var warnings []Warning
	opts = append(opts, WithWarningHandler(func(w Warning) { warnings = append(warnings, w) }))
	var buf bytes.Buffer
	require.NoError(t, Serialize(&buf, g, cfg, opts...))
	return buf.String(), warnings
}
