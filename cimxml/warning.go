package cimxml

import (
	"fmt"

	"github.com/geoknoesis/cimxml-go/rdf"
)

// WarningCode classifies non-fatal serialization events.
type WarningCode string

const (
	// WarnCollectionHead is raised for every list written with
	// rdf:parseType="Collection": statements on the list head other than
	// rdf:first and rdf:rest are not written.
	WarnCollectionHead WarningCode = "COLLECTION_HEAD_ASSERTIONS_DROPPED"
	// WarnLiteralSubject is raised when a literal list item is skipped.
	WarnLiteralSubject WarningCode = "LITERAL_LIST_ITEM_DROPPED"
)

// Warning is a non-fatal event raised while serializing.
type Warning struct {
	Code    WarningCode
	Node    rdf.Term
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// WarningHandler receives warnings synchronously during Serialize.
type WarningHandler func(Warning)
