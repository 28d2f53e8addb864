package rdf

// Well-known namespaces.
const (
	RDFNS  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNS = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNS  = "http://www.w3.org/2002/07/owl#"
	XSDNS  = "http://www.w3.org/2001/XMLSchema#"
	XMLNS  = "http://www.w3.org/XML/1998/namespace"
)

// RDF syntax vocabulary used by the serializers.
var (
	RDFType      = IRI{Value: RDFNS + "type"}
	RDFFirst     = IRI{Value: RDFNS + "first"}
	RDFRest      = IRI{Value: RDFNS + "rest"}
	RDFNil       = IRI{Value: RDFNS + "nil"}
	RDFList      = IRI{Value: RDFNS + "List"}
	RDFRDF       = IRI{Value: RDFNS + "RDF"}
	RDFDesc      = IRI{Value: RDFNS + "Description"}
	RDFID        = IRI{Value: RDFNS + "ID"}
	RDFAbout     = IRI{Value: RDFNS + "about"}
	RDFResource  = IRI{Value: RDFNS + "resource"}
	RDFNodeID    = IRI{Value: RDFNS + "nodeID"}
	RDFParseType = IRI{Value: RDFNS + "parseType"}
	RDFDatatype  = IRI{Value: RDFNS + "datatype"}

	RDFSClass = IRI{Value: RDFSNS + "Class"}
	OWLClass  = IRI{Value: OWLNS + "Class"}

	XSDString = IRI{Value: XSDNS + "string"}

	XMLLang = IRI{Value: XMLNS + "lang"}
	XMLBase = IRI{Value: XMLNS + "base"}
)
