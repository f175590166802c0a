// Package request loads planning requests: the intent classification and
// capability selection produced upstream, stored as YAML or JSON.
package request

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/taskplan/internal/plan"
)

// IntentClassification is the classifier's verdict on a project request
type IntentClassification struct {
	Category   string  `yaml:"category" json:"category"`
	Confidence float64 `yaml:"confidence,omitempty" json:"confidence,omitempty"`
}

// File is a planning request document
//
//	intent:
//	  category: calendar_management
//	  confidence: 0.92
//	capabilities:
//	  - im.v1.message.create
type File struct {
	Intent       IntentClassification `yaml:"intent" json:"intent"`
	Capabilities []string             `yaml:"capabilities" json:"capabilities"`
}

// Parse decodes a request document. JSON is accepted since YAML is a
// superset; unknown fields are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("unmarshal request: %w", err)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads and validates a request file
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request file: %w", err)
	}
	return Parse(data)
}

// Validate checks the document shape. Category and capability semantics
// are checked by the planner.
func (f *File) Validate() error {
	if strings.TrimSpace(f.Intent.Category) == "" {
		return fmt.Errorf("intent.category is required")
	}
	if f.Intent.Confidence < 0 || f.Intent.Confidence > 1 {
		return fmt.Errorf("intent.confidence must be between 0 and 1, got %g", f.Intent.Confidence)
	}
	return nil
}

// PlanRequest converts the document into planner input
func (f *File) PlanRequest() plan.Request {
	caps := make([]string, len(f.Capabilities))
	copy(caps, f.Capabilities)
	return plan.Request{
		Category:     strings.TrimSpace(f.Intent.Category),
		Confidence:   f.Intent.Confidence,
		Capabilities: caps,
	}
}

// FromPlanRequest builds a request document, e.g. to save the answers of
// an interactive session.
func FromPlanRequest(r plan.Request) *File {
	return &File{
		Intent:       IntentClassification{Category: r.Category, Confidence: r.Confidence},
		Capabilities: append([]string(nil), r.Capabilities...),
	}
}

// Save writes the document as YAML
func (f *File) Save(path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write request file: %w", err)
	}
	return nil
}
