package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Definition is a named JSON Schema document expressed as a Go map.
type Definition struct {
	// Name identifies the schema in the compile cache. Kebab-case,
	// e.g. "assessment-start".
	Name string

	// Body is the JSON Schema itself.
	Body map[string]any
}

// cache holds compiled schemas by name.
var cache sync.Map // map[string]*jsonschema.Schema

// Validate checks raw JSON against def. It returns an error describing the
// first problem found: unparseable JSON, an uncompilable schema or a
// validation failure.
func Validate(def Definition, raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := compile(def)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", def.Name, err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema %q: %w", def.Name, err)
	}
	return nil
}

func compile(def Definition) (*jsonschema.Schema, error) {
	if cached, ok := cache.Load(def.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// jsonschema wants a decoded value, not a Go map with typed slices.
	b, err := json.Marshal(def.Body)
	if err != nil {
		return nil, fmt.Errorf("marshal definition: %w", err)
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", def.Name)
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	cache.Store(def.Name, compiled)
	return compiled, nil
}
