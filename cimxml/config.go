package cimxml

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/geoknoesis/cimxml-go/graph"
	"github.com/geoknoesis/cimxml-go/xmlwriter"
)

const (
	// DefaultMaxDepth bounds nested-subject inlining when Config.MaxDepth is 0.
	DefaultMaxDepth = 3
	// DefaultXMLBase is written as xml:base when no base is configured.
	DefaultXMLBase = "urn:uuid:"
)

// DefaultAbout is the md:FullModel rdf:about used when Config.About is empty.
var DefaultAbout = uuid.Nil.URN()

// Configuration bag keys understood by ConfigFromMap.
const (
	KeyProfileURI           = "profile_uri"
	KeyMaxDepth             = "max_depth"
	KeyAbout                = "rdf_about"
	KeyScenarioTime         = "scenarioTime"
	KeyCreated              = "created"
	KeyDescription          = "description"
	KeyVersion              = "version"
	KeyModelingAuthoritySet = "modelingAuthoritySet"
	KeyXMLBase              = "xml_base"
	KeyBase                 = "base"
	KeyEncoding             = "encoding"
	KeyEmitDatatypes        = "emit_datatypes"
)

// Config is the per-call configuration of Serialize.
type Config struct {
	// ProfileURI is written as md:Model.profile. Required.
	ProfileURI string
	// MaxDepth bounds inlining of nested subjects. 0 selects DefaultMaxDepth;
	// negative values are rejected.
	MaxDepth int

	// Header block values. Empty strings are written as empty elements.
	About                string
	ScenarioTime         string
	Created              string
	Description          string
	Version              string
	ModelingAuthoritySet string

	// XMLBase overrides the xml:base attribute. When empty, Base, then the
	// store base, then DefaultXMLBase are used.
	XMLBase string
	Base    string
	// Encoding is an IANA encoding name; empty selects UTF-8.
	Encoding string
	// EmitDatatypes adds rdf:datatype to typed literals other than xsd:string.
	EmitDatatypes bool
}

// resolved is a validated Config with defaults applied.
type resolved struct {
	Config
	xmlBase string
	about   string
}

// resolve validates cfg and fills defaults. It never touches the sink.
func (cfg Config) resolve(store graph.Store) (resolved, error) {
	if cfg.ProfileURI == "" {
		return resolved{}, &ConfigError{Field: KeyProfileURI, Err: ErrMissingProfile}
	}
	switch {
	case cfg.MaxDepth == 0:
		cfg.MaxDepth = DefaultMaxDepth
	case cfg.MaxDepth < 0:
		return resolved{}, &ConfigError{Field: KeyMaxDepth, Err: fmt.Errorf("%w: got %d", ErrInvalidMaxDepth, cfg.MaxDepth)}
	}
	if _, _, err := xmlwriter.LookupEncoding(cfg.Encoding); err != nil {
		return resolved{}, &ConfigError{Field: KeyEncoding, Err: fmt.Errorf("%w: %q", ErrUnsupportedEncoding, cfg.Encoding)}
	}

	r := resolved{Config: cfg, xmlBase: cfg.XMLBase, about: cfg.About}
	if r.xmlBase == "" {
		r.xmlBase = cfg.Base
	}
	if r.xmlBase == "" {
		if based, ok := store.(graph.Based); ok {
			r.xmlBase = based.Base()
		}
	}
	if r.xmlBase == "" {
		r.xmlBase = DefaultXMLBase
	}
	if r.about == "" {
		r.about = DefaultAbout
	}
	return r, nil
}

// ConfigFromMap builds a Config from a loose key/value bag such as a decoded
// YAML or JSON document. Unknown keys are ignored. max_depth must be a
// positive integer; integral floats are accepted.
func ConfigFromMap(bag map[string]any) (Config, error) {
	var cfg Config
	strs := []struct {
		key string
		dst *string
	}{
		{KeyProfileURI, &cfg.ProfileURI},
		{KeyAbout, &cfg.About},
		{KeyScenarioTime, &cfg.ScenarioTime},
		{KeyCreated, &cfg.Created},
		{KeyDescription, &cfg.Description},
		{KeyVersion, &cfg.Version},
		{KeyModelingAuthoritySet, &cfg.ModelingAuthoritySet},
		{KeyXMLBase, &cfg.XMLBase},
		{KeyBase, &cfg.Base},
		{KeyEncoding, &cfg.Encoding},
	}
	for _, f := range strs {
		raw, ok := bag[f.key]
		if !ok || raw == nil {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			return Config{}, &ConfigError{Field: f.key, Err: fmt.Errorf("%w: want string, got %T", ErrInvalidValue, raw)}
		}
		*f.dst = s
	}
	if cfg.ProfileURI == "" {
		return Config{}, &ConfigError{Field: KeyProfileURI, Err: ErrMissingProfile}
	}

	if raw, ok := bag[KeyMaxDepth]; ok && raw != nil {
		depth, err := positiveInt(raw)
		if err != nil {
			return Config{}, &ConfigError{Field: KeyMaxDepth, Err: err}
		}
		cfg.MaxDepth = depth
	}
	if raw, ok := bag[KeyEmitDatatypes]; ok && raw != nil {
		b, ok := raw.(bool)
		if !ok {
			return Config{}, &ConfigError{Field: KeyEmitDatatypes, Err: fmt.Errorf("%w: want bool, got %T", ErrInvalidValue, raw)}
		}
		cfg.EmitDatatypes = b
	}
	return cfg, nil
}

func positiveInt(raw any) (int, error) {
	var n int64
	switch v := raw.(type) {
	case int:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case uint:
		if uint64(v) > math.MaxInt32 {
			return 0, fmt.Errorf("%w: %d out of range", ErrInvalidMaxDepth, v)
		}
		n = int64(v)
	case uint64:
		if v > math.MaxInt32 {
			return 0, fmt.Errorf("%w: %d out of range", ErrInvalidMaxDepth, v)
		}
		n = int64(v)
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: got %v", ErrInvalidMaxDepth, v)
		}
		n = int64(v)
	default:
		return 0, fmt.Errorf("%w: got %T", ErrInvalidMaxDepth, raw)
	}
	if n <= 0 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidMaxDepth, n)
	}
	return int(n), nil
}
