// Package namespace maps IRIs to prefixed XML names and tracks the prefix
// bindings a document declares.
package namespace

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/geoknoesis/cimxml-go/rdf"
)

var (
	// ErrNoQName indicates an IRI cannot be written as prefix:local.
	ErrNoQName = errors.New("namespace: IRI has no valid qualified name")
	// ErrPrefixInUse indicates a prefix is already bound to another namespace.
	ErrPrefixInUse = errors.New("namespace: prefix already bound")
	// ErrInvalidPrefix indicates a prefix that is not an NCName.
	ErrInvalidPrefix = errors.New("namespace: invalid prefix")
)

// Binding is a prefix/namespace pair.
type Binding struct {
	Prefix    string
	Namespace string
}

// Manager resolves IRIs to qualified names. Unknown namespaces encountered by
// ComputeQNameStrict and QName are bound to generated ns1, ns2, ... prefixes.
// The xml prefix is implicit and never listed.
type Manager struct {
	mu       sync.RWMutex
	byPrefix map[string]string
	byNS     map[string]string
	autoSeq  int
}

// NewManager returns a manager seeded with rdf, rdfs, owl and xsd.
func NewManager() *Manager {
	m := &Manager{
		byPrefix: make(map[string]string),
		byNS:     make(map[string]string),
	}
	for _, b := range []Binding{
		{"rdf", rdf.RDFNS},
		{"rdfs", rdf.RDFSNS},
		{"owl", rdf.OWLNS},
		{"xsd", rdf.XSDNS},
	} {
		m.bind(b.Prefix, b.Namespace)
	}
	return m
}

// Clone returns an independent copy of the manager.
func (m *Manager) Clone() *Manager {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := &Manager{
		byPrefix: make(map[string]string, len(m.byPrefix)),
		byNS:     make(map[string]string, len(m.byNS)),
		autoSeq:  m.autoSeq,
	}
	for k, v := range m.byPrefix {
		c.byPrefix[k] = v
	}
	for k, v := range m.byNS {
		c.byNS[k] = v
	}
	return c
}

// Bind associates prefix with ns. When the prefix is already bound to a
// different namespace, Bind fails with ErrPrefixInUse unless override is set.
// An empty prefix binds the default namespace.
func (m *Manager) Bind(prefix, ns string, override bool) error {
	if prefix != "" && (!IsNCName(prefix) || strings.EqualFold(prefix, "xml")) {
		return fmt.Errorf("%w: %q", ErrInvalidPrefix, prefix)
	}
	if err := rdf.ValidateIRI(ns); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.byPrefix[prefix]; ok && existing != ns && !override {
		return fmt.Errorf("%w: %s -> %s", ErrPrefixInUse, prefix, existing)
	}
	m.bind(prefix, ns)
	return nil
}

// bind replaces any previous binding of prefix or ns. Callers hold the lock.
func (m *Manager) bind(prefix, ns string) {
	if old, ok := m.byPrefix[prefix]; ok {
		delete(m.byNS, old)
	}
	if old, ok := m.byNS[ns]; ok {
		delete(m.byPrefix, old)
	}
	m.byPrefix[prefix] = ns
	m.byNS[ns] = prefix
}

// Namespace returns the namespace bound to prefix.
func (m *Manager) Namespace(prefix string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ns, ok := m.byPrefix[prefix]
	return ns, ok
}

// Prefix returns the prefix bound to ns.
func (m *Manager) Prefix(ns string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	prefix, ok := m.byNS[ns]
	return prefix, ok
}

// Namespaces returns every binding sorted by prefix.
func (m *Manager) Namespaces() []Binding {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Binding, 0, len(m.byPrefix))
	for prefix, ns := range m.byPrefix {
		out = append(out, Binding{Prefix: prefix, Namespace: ns})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Prefix < out[j].Prefix })
	return out
}

// ComputeQNameStrict splits iri into prefix, namespace and local name,
// binding a generated prefix when the namespace is unknown.
func (m *Manager) ComputeQNameStrict(iri string) (prefix, ns, local string, err error) {
	if strings.HasPrefix(iri, rdf.XMLNS) {
		local = strings.TrimPrefix(iri, rdf.XMLNS)
		if !IsNCName(local) {
			return "", "", "", fmt.Errorf("%w: %s", ErrNoQName, iri)
		}
		return "xml", rdf.XMLNS, local, nil
	}
	ns, local, ok := SplitIRI(iri)
	if !ok {
		return "", "", "", fmt.Errorf("%w: %s", ErrNoQName, iri)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	prefix, ok = m.byNS[ns]
	if !ok {
		prefix = m.nextPrefix()
		m.bind(prefix, ns)
	}
	return prefix, ns, local, nil
}

// QName returns the prefixed name for iri, e.g. "rdf:type".
func (m *Manager) QName(iri string) (string, error) {
	prefix, _, local, err := m.ComputeQNameStrict(iri)
	if err != nil {
		return "", err
	}
	if prefix == "" {
		return local, nil
	}
	return prefix + ":" + local, nil
}

// nextPrefix returns an unused generated prefix. Callers hold the lock.
func (m *Manager) nextPrefix() string {
	for {
		m.autoSeq++
		prefix := fmt.Sprintf("ns%d", m.autoSeq)
		if _, taken := m.byPrefix[prefix]; !taken {
			return prefix
		}
	}
}
