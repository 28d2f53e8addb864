// Package config loads serializer settings for the command line tool from a
// YAML file and the environment. Keys are the same as those accepted by
// cimxml.ConfigFromMap.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/geoknoesis/cimxml-go/cimxml"
)

// EnvPrefix prefixes environment overrides, e.g. CIMXML_PROFILE_URI.
const EnvPrefix = "CIMXML_"

// stringKeys are the keys whose values are text in the configuration bag.
// YAML scalars such as `version: 2` are converted for them.
var stringKeys = []string{
	cimxml.KeyProfileURI,
	cimxml.KeyAbout,
	cimxml.KeyScenarioTime,
	cimxml.KeyCreated,
	cimxml.KeyDescription,
	cimxml.KeyVersion,
	cimxml.KeyModelingAuthoritySet,
	cimxml.KeyXMLBase,
	cimxml.KeyBase,
	cimxml.KeyEncoding,
}

// Load reads a YAML mapping from path. An empty path yields an empty bag; a
// missing file is an error since it was named explicitly.
func Load(path string) (map[string]any, error) {
	bag := map[string]any{}
	if path == "" {
		return bag, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &bag); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", filepath.Base(path), err)
	}
	if bag == nil {
		bag = map[string]any{}
	}
	normalize(bag)
	return bag, nil
}

// Save writes bag to path as YAML, creating the parent directory.
func Save(path string, bag map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(bag)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ApplyEnv overrides text keys from the environment using lookup, normally
// os.LookupEnv.
func ApplyEnv(bag map[string]any, lookup func(string) (string, bool)) {
	for _, key := range stringKeys {
		if v, ok := lookup(EnvPrefix + strings.ToUpper(key)); ok {
			bag[key] = v
		}
	}
}

// Merge returns a new bag with overrides applied on top of base. Nil values in
// overrides are skipped.
func Merge(base, overrides map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}

// Resolve loads path, applies the environment and overrides, and builds the
// serializer configuration.
func Resolve(path string, overrides map[string]any) (cimxml.Config, error) {
	bag, err := Load(path)
	if err != nil {
		return cimxml.Config{}, err
	}
	ApplyEnv(bag, os.LookupEnv)
	return cimxml.ConfigFromMap(Merge(bag, overrides))
}

func normalize(bag map[string]any) {
	for _, key := range stringKeys {
		switch v := bag[key].(type) {
		case nil, string:
		case time.Time:
			bag[key] = v.Format(time.RFC3339Nano)
		case int, int64, uint64, float64, bool:
			bag[key] = fmt.Sprint(v)
		}
	}
}
