package cimxml

import (
	"fmt"
	"io"
	"sort"

	"go.uber.org/zap"

	"github.com/geoknoesis/cimxml-go/graph"
	"github.com/geoknoesis/cimxml-go/namespace"
	"github.com/geoknoesis/cimxml-go/rdf"
	"github.com/geoknoesis/cimxml-go/xmlwriter"
)

// Fixed namespaces every document declares.
const (
	ModelDescriptionNS = "http://iec.ch/TC57/61970-552/ModelDescription/1#"
	CIMNS              = "http://iec.ch/TC57/CIM100#"
)

// ProfileInstruction is the processing instruction written after the XML
// declaration.
const ProfileInstruction = `<?iec61970-552 version="2.0"?>`

// Header block vocabulary.
var (
	mdFullModel            = rdf.IRI{Value: ModelDescriptionNS + "FullModel"}
	mdScenarioTime         = rdf.IRI{Value: ModelDescriptionNS + "Model.scenarioTime"}
	mdCreated              = rdf.IRI{Value: ModelDescriptionNS + "Model.created"}
	mdDescription          = rdf.IRI{Value: ModelDescriptionNS + "Model.description"}
	mdVersion              = rdf.IRI{Value: ModelDescriptionNS + "Model.version"}
	mdProfile              = rdf.IRI{Value: ModelDescriptionNS + "Model.profile"}
	mdModelingAuthoritySet = rdf.IRI{Value: ModelDescriptionNS + "Model.modelingAuthoritySet"}
)

func fixedBindings() []namespace.Binding {
	return []namespace.Binding{
		{Prefix: "rdf", Namespace: rdf.RDFNS},
		{Prefix: "md", Namespace: ModelDescriptionNS},
		{Prefix: "cim", Namespace: CIMNS},
	}
}

// Serializer writes a graph.Store as a CIM/XML document. Configuration that
// varies per document is passed to Serialize; a Serializer keeps no state
// between calls and may be used from several goroutines.
type Serializer struct {
	store graph.Store
	opts  options
}

// New returns a Serializer for store.
func New(store graph.Store, opts ...Option) *Serializer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Serializer{store: store, opts: o}
}

// Serialize is shorthand for New(store, opts...).Serialize(w, cfg).
func Serialize(w io.Writer, store graph.Store, cfg Config, opts ...Option) error {
	return New(store, opts...).Serialize(w, cfg)
}

// Serialize writes the whole store to w. Configuration errors are reported
// before anything is written; store and sink errors abort the document.
func (s *Serializer) Serialize(w io.Writer, cfg Config) error {
	rc, err := cfg.resolve(s.store)
	if err != nil {
		return err
	}
	logger := s.opts.logger

	names := namespace.NewManager()
	if s.opts.namespaces != nil {
		names = s.opts.namespaces.Clone()
	}
	declared, err := collectNamespaces(s.store, names, logger)
	if err != nil {
		return err
	}

	xw, err := xmlwriter.New(w, names, rc.Encoding, xmlwriter.WithIndent(s.opts.indent))
	if err != nil {
		return &ConfigError{Field: KeyEncoding, Err: err}
	}
	subjects, err := s.store.Subjects()
	if err != nil {
		return err
	}
	logger.Debug("serializing graph",
		zap.Int("subjects", len(subjects)),
		zap.Int("namespaces", len(declared)),
		zap.Int("maxDepth", rc.MaxDepth),
		zap.String("encoding", xw.Encoding()))

	e := newEmitter(s.store, xw, names, declared, rc, s.opts)
	if err := e.document(subjects); err != nil {
		return err
	}
	logger.Debug("graph serialized", zap.Int("written", len(e.serialized)))
	return nil
}

// collectNamespaces resolves the namespaces of every predicate and every
// rdf:type object. Unresolvable IRIs are skipped. The fixed bindings are
// bound first so discovery reuses their prefixes, and applied again last so
// they win over any same-prefix discovery.
func collectNamespaces(store graph.Store, names *namespace.Manager, logger *zap.Logger) ([]namespace.Binding, error) {
	fixed := fixedBindings()
	for _, b := range fixed {
		if err := names.Bind(b.Prefix, b.Namespace, true); err != nil {
			return nil, err
		}
	}

	predicates, err := store.Predicates()
	if err != nil {
		return nil, err
	}
	types, err := graph.TypeObjects(store)
	if err != nil {
		return nil, err
	}
	possible := make([]string, 0, len(predicates)+len(types))
	for _, p := range predicates {
		possible = append(possible, p.Value)
	}
	for _, t := range types {
		if iri, ok := t.(rdf.IRI); ok {
			possible = append(possible, iri.Value)
		}
	}

	found := make(map[string]string)
	for _, iri := range possible {
		prefix, ns, _, err := names.ComputeQNameStrict(iri)
		if err != nil {
			logger.Debug("namespace not registered", zap.String("iri", iri), zap.Error(err))
			continue
		}
		found[prefix] = ns
	}
	for _, b := range fixed {
		found[b.Prefix] = b.Namespace
	}

	out := make([]namespace.Binding, 0, len(found))
	for prefix, ns := range found {
		out = append(out, namespace.Binding{Prefix: prefix, Namespace: ns})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Prefix < out[j].Prefix })
	return out, nil
}

// document writes the prologue, the root element, the header block and every
// subject.
func (e *emitter) document(subjects []rdf.Term) error {
	w := e.w
	prologue := fmt.Sprintf("<?xml version=\"1.0\" encoding=\"%s\"?>\n%s\n", w.Encoding(), ProfileInstruction)
	if err := w.Raw(prologue); err != nil {
		return err
	}

	if err := w.Push(rdf.RDFRDF.Value); err != nil {
		return err
	}
	if err := w.Attribute(rdf.XMLBase.Value, e.cfg.xmlBase); err != nil {
		return err
	}
	if err := w.Namespaces(e.declared); err != nil {
		return err
	}
	if err := e.header(); err != nil {
		return err
	}

	for _, subject := range subjects {
		if err := e.subject(subject, 1); err != nil {
			return err
		}
	}

	if err := w.Pop(rdf.RDFRDF.Value); err != nil {
		return err
	}
	if err := w.Raw("\n"); err != nil {
		return err
	}
	return w.Flush()
}

// header writes the md:FullModel block.
func (e *emitter) header() error {
	w := e.w
	if err := w.Push(mdFullModel.Value); err != nil {
		return err
	}
	if err := w.Attribute(rdf.RDFAbout.Value, e.cfg.about); err != nil {
		return err
	}
	fields := []struct {
		element rdf.IRI
		value   string
	}{
		{mdScenarioTime, e.cfg.ScenarioTime},
		{mdCreated, e.cfg.Created},
		{mdDescription, e.cfg.Description},
		{mdVersion, e.cfg.Version},
		{mdProfile, e.cfg.ProfileURI},
		{mdModelingAuthoritySet, e.cfg.ModelingAuthoritySet},
	}
	for _, f := range fields {
		if err := w.Push(f.element.Value); err != nil {
			return err
		}
		if err := w.Text(f.value); err != nil {
			return err
		}
		if err := w.Pop(f.element.Value); err != nil {
			return err
		}
	}
	return w.Pop(mdFullModel.Value)
}
