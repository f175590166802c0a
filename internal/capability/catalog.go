package capability

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/felixgeelhaar/taskplan/internal/domain"
)

// extensionKey is the OpenAPI operation extension naming the capability
// an operation implements. Operations without it fall back to operationId.
const extensionKey = "x-capability"

// Info describes a known capability
type Info struct {
	ID      domain.CapabilityID `json:"id" yaml:"id"`
	Summary string              `json:"summary,omitempty" yaml:"summary,omitempty"`
	Method  string              `json:"method,omitempty" yaml:"method,omitempty"`
	Path    string              `json:"path,omitempty" yaml:"path,omitempty"`
	Tags    []string            `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Catalog resolves capability identifiers to descriptive information
type Catalog interface {
	Lookup(id domain.CapabilityID) (Info, bool)
}

// UnknownError reports selected capabilities that a catalog does not know
type UnknownError struct {
	IDs []domain.CapabilityID
}

func (e *UnknownError) Error() string {
	names := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		names[i] = string(id)
	}
	return fmt.Sprintf("unknown capabilities: %s", strings.Join(names, ", "))
}

// CheckKnown returns an *UnknownError listing every selected capability
// the catalog cannot resolve.
func CheckKnown(c Catalog, s Selection) error {
	var unknown []domain.CapabilityID
	for _, id := range s.ids {
		if _, ok := c.Lookup(id); !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return &UnknownError{IDs: unknown}
	}
	return nil
}

// StaticCatalog is an in-memory catalog
type StaticCatalog map[domain.CapabilityID]Info

// Lookup implements Catalog
func (c StaticCatalog) Lookup(id domain.CapabilityID) (Info, bool) {
	info, ok := c[id]
	return info, ok
}

// OpenAPICatalog is a catalog built from an OpenAPI 3 document
type OpenAPICatalog struct {
	source  string
	entries map[domain.CapabilityID]Info
}

// LoadOpenAPICatalog loads and validates an OpenAPI document from disk
func LoadOpenAPICatalog(ctx context.Context, path string) (*OpenAPICatalog, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}

	c, err := NewOpenAPICatalog(ctx, doc)
	if err != nil {
		return nil, err
	}
	c.source = path
	return c, nil
}

// ParseOpenAPICatalog builds a catalog from raw OpenAPI YAML or JSON
func ParseOpenAPICatalog(ctx context.Context, data []byte) (*OpenAPICatalog, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}
	return NewOpenAPICatalog(ctx, doc)
}

// NewOpenAPICatalog indexes the operations of a validated document.
// Each operation contributes the capability named by its x-capability
// extension, or its operationId when that is a valid capability identifier.
func NewOpenAPICatalog(ctx context.Context, doc *openapi3.T) (*OpenAPICatalog, error) {
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}

	entries := make(map[domain.CapabilityID]Info)
	if doc.Paths == nil {
		return &OpenAPICatalog{entries: entries}, nil
	}

	paths := doc.Paths.Map()
	keys := make([]string, 0, len(paths))
	for p := range paths {
		keys = append(keys, p)
	}
	sort.Strings(keys)

	for _, p := range keys {
		for method, op := range paths[p].Operations() {
			raw := op.OperationID
			if ext, ok := op.Extensions[extensionKey].(string); ok && ext != "" {
				raw = ext
			}
			id, err := domain.NewCapabilityID(raw)
			if err != nil {
				continue
			}
			if existing, dup := entries[id]; dup {
				return nil, fmt.Errorf("capability %q is declared by both %s %s and %s %s",
					id, existing.Method, existing.Path, method, p)
			}
			entries[id] = Info{
				ID:      id,
				Summary: op.Summary,
				Method:  method,
				Path:    p,
				Tags:    op.Tags,
			}
		}
	}

	return &OpenAPICatalog{entries: entries}, nil
}

// Lookup implements Catalog
func (c *OpenAPICatalog) Lookup(id domain.CapabilityID) (Info, bool) {
	info, ok := c.entries[id]
	return info, ok
}

// Len returns the number of indexed capabilities
func (c *OpenAPICatalog) Len() int {
	return len(c.entries)
}

// Source returns the file the catalog was loaded from, if any
func (c *OpenAPICatalog) Source() string {
	return c.source
}

// All returns every indexed capability sorted by identifier
func (c *OpenAPICatalog) All() []Info {
	out := make([]Info, 0, len(c.entries))
	for _, info := range c.entries {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

var (
	_ Catalog = StaticCatalog(nil)
	_ Catalog = (*OpenAPICatalog)(nil)
)
