// Package xmlwriter is a small stack-based XML emitter. Elements and
// attributes are named by IRI and converted to prefixed names through a
// QNamer; output can be transcoded to any IANA-registered encoding.
package xmlwriter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/geoknoesis/cimxml-go/namespace"
)

// DefaultEncoding is used when no encoding is requested.
const DefaultEncoding = "UTF-8"

var (
	// ErrUnsupportedEncoding indicates the requested encoding is unknown.
	ErrUnsupportedEncoding = errors.New("xmlwriter: unsupported encoding")
	// ErrNoOpenTag indicates an attribute was written after the start tag closed.
	ErrNoOpenTag = errors.New("xmlwriter: no open start tag")
	// ErrUnbalanced indicates Pop did not match the innermost open element.
	ErrUnbalanced = errors.New("xmlwriter: unbalanced element")
)

// QNamer converts an IRI to a prefixed XML name.
type QNamer interface {
	QName(iri string) (string, error)
}

// Writer emits indented XML. The first error is sticky: once a write fails,
// every later call returns the same error.
type Writer struct {
	out      *bufio.Writer
	tw       *transform.Writer
	names    QNamer
	encoding string
	indent   string

	stack   []string
	closed  bool
	parent  bool
	started bool
	err     error
}

// Option configures a Writer.
type Option func(*Writer)

// WithIndent sets the per-level indentation (default two spaces).
func WithIndent(indent string) Option {
	return func(w *Writer) {
		w.indent = indent
	}
}

// LookupEncoding resolves an IANA encoding name and returns it with the name
// written in the XML declaration, preferring the MIME name. An empty name
// selects UTF-8.
func LookupEncoding(name string) (encoding.Encoding, string, error) {
	if strings.TrimSpace(name) == "" {
		return unicode.UTF8, DefaultEncoding, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedEncoding, name)
	}
	canonical, err := ianaindex.MIME.Name(enc)
	if err != nil || canonical == "" {
		if canonical, err = ianaindex.IANA.Name(enc); err != nil || canonical == "" {
			canonical = name
		}
	}
	return enc, canonical, nil
}

// New returns a Writer that writes to w in the named encoding. Characters the
// encoding cannot represent are written as numeric character references.
func New(w io.Writer, names QNamer, encodingName string, opts ...Option) (*Writer, error) {
	enc, canonical, err := LookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	xw := &Writer{
		names:    names,
		encoding: canonical,
		indent:   "  ",
		closed:   true,
	}
	for _, opt := range opts {
		opt(xw)
	}
	if strings.EqualFold(canonical, DefaultEncoding) {
		xw.out = bufio.NewWriter(w)
	} else {
		xw.tw = transform.NewWriter(w, encoding.HTMLEscapeUnsupported(enc.NewEncoder()))
		xw.out = bufio.NewWriter(xw.tw)
	}
	return xw, nil
}

// Encoding returns the canonical name of the output encoding.
func (w *Writer) Encoding() string { return w.encoding }

// Err returns the first error encountered.
func (w *Writer) Err() error { return w.err }

// Depth returns the number of open elements.
func (w *Writer) Depth() int { return len(w.stack) }

// Raw writes s verbatim. It is meant for prologue lines written before the
// root element.
func (w *Writer) Raw(s string) error {
	return w.write(s)
}

// Push opens an element named by iri.
func (w *Writer) Push(iri string) error {
	if w.err != nil {
		return w.err
	}
	qname, err := w.names.QName(iri)
	if err != nil {
		return w.fail(err)
	}
	w.closeStartTag()
	if w.started {
		w.write("\n")
	}
	w.started = true
	w.write(strings.Repeat(w.indent, len(w.stack)))
	w.write("<" + qname)
	w.stack = append(w.stack, qname)
	w.closed = false
	w.parent = false
	return w.err
}

// Pop closes the innermost element, which must be named by iri.
func (w *Writer) Pop(iri string) error {
	if w.err != nil {
		return w.err
	}
	if len(w.stack) == 0 {
		return w.fail(fmt.Errorf("%w: pop %s with no open element", ErrUnbalanced, iri))
	}
	qname, err := w.names.QName(iri)
	if err != nil {
		return w.fail(err)
	}
	top := w.stack[len(w.stack)-1]
	if top != qname {
		return w.fail(fmt.Errorf("%w: pop %s, open element is %s", ErrUnbalanced, qname, top))
	}
	w.stack = w.stack[:len(w.stack)-1]
	switch {
	case !w.closed:
		w.closed = true
		w.write("/>")
	case w.parent:
		w.write("\n" + strings.Repeat(w.indent, len(w.stack)) + "</" + qname + ">")
	default:
		w.write("</" + qname + ">")
	}
	w.parent = true
	return w.err
}

// Attribute adds name=value to the element whose start tag is still open.
func (w *Writer) Attribute(iri, value string) error {
	if w.err != nil {
		return w.err
	}
	if w.closed {
		return w.fail(fmt.Errorf("%w: attribute %s", ErrNoOpenTag, iri))
	}
	qname, err := w.names.QName(iri)
	if err != nil {
		return w.fail(err)
	}
	return w.write(" " + qname + `="` + escapeXMLAttr(value) + `"`)
}

// Namespaces declares the bindings on the open start tag.
func (w *Writer) Namespaces(bindings []namespace.Binding) error {
	if w.err != nil {
		return w.err
	}
	if w.closed {
		return w.fail(fmt.Errorf("%w: namespace declarations", ErrNoOpenTag))
	}
	for _, b := range bindings {
		if b.Prefix == "" {
			w.write("\n" + w.indent + `xmlns="` + escapeXMLAttr(b.Namespace) + `"`)
			continue
		}
		w.write("\n" + w.indent + "xmlns:" + b.Prefix + `="` + escapeXMLAttr(b.Namespace) + `"`)
	}
	return w.err
}

// Text writes escaped character data inside the current element.
func (w *Writer) Text(s string) error {
	if w.err != nil {
		return w.err
	}
	w.closeStartTag()
	return w.write(escapeXML(s))
}

// Flush writes buffered output through to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if err := w.out.Flush(); err != nil {
		return w.fail(err)
	}
	if w.tw != nil {
		if err := w.tw.Close(); err != nil {
			return w.fail(err)
		}
	}
	return nil
}

func (w *Writer) closeStartTag() {
	if !w.closed {
		w.closed = true
		w.write(">")
	}
}

func (w *Writer) write(s string) error {
	if w.err != nil {
		return w.err
	}
	if _, err := w.out.WriteString(s); err != nil {
		w.err = err
	}
	return w.err
}

func (w *Writer) fail(err error) error {
	if w.err == nil {
		w.err = err
	}
	return w.err
}
