// Package cimxml serializes an RDF graph as an IEC 61970-552 style CIM/XML
// document: an RDF/XML body preceded by a processing instruction and a single
// md:FullModel header block.
//
// Every subject of the store is visited in store order. For each triple the
// object is written either as text (literals), as a reference attribute
// (rdf:resource for IRIs, rdf:nodeID for blank nodes), as a nested element,
// or as an rdf:parseType="Collection" list. A per-call ledger guarantees that
// each node is written as a full element at most once, which also makes
// cyclic graphs terminate. Config.MaxDepth bounds how deep nested elements
// are inlined; class references (owl:Class, rdfs:Class) are never inlined.
//
// Example:
//
//	g := graph.New()
//	// ... add triples ...
//	err := cimxml.Serialize(os.Stdout, g, cimxml.Config{
//	    ProfileURI: "http://iec.ch/TC57/ns/CIM/CoreEquipment-EU/3.0",
//	    Version:    "1",
//	})
//
// Identifiers are written relative to the longest declared namespace with a
// leading underscore, so http://iec.ch/TC57/CIM100#Breaker1 becomes
// rdf:ID="_Breaker1". The mapping is not guaranteed to be injective.
package cimxml
