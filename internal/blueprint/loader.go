package blueprint

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultBlueprint []byte

// Default returns a freshly decoded copy of the built-in blueprint
func Default() *Blueprint {
	b, err := Parse(defaultBlueprint)
	if err != nil {
		panic(fmt.Sprintf("built-in blueprint is invalid: %v", err))
	}
	return b
}

// DefaultYAML returns the raw built-in blueprint document
func DefaultYAML() []byte {
	out := make([]byte, len(defaultBlueprint))
	copy(out, defaultBlueprint)
	return out
}

// Parse decodes and validates a blueprint document. JSON documents are
// accepted as well since YAML is a superset.
func Parse(data []byte) (*Blueprint, error) {
	var b Blueprint
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("unmarshal blueprint: %w", err)
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}

	return &b, nil
}

// Load reads and validates a blueprint file
func Load(path string) (*Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read blueprint file: %w", err)
	}

	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load blueprint %s: %w", path, err)
	}

	return b, nil
}
