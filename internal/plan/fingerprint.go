package plan

import (
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/felixgeelhaar/taskplan/internal/domain"
)

// canonicalPlan is the content covered by a fingerprint. Identity and
// timing metadata (id, projectName, createdAt) are excluded so identical
// inputs fingerprint identically.
type canonicalPlan struct {
	Category       domain.Category                   `json:"category"`
	Phases         []Phase                           `json:"phases"`
	Tasks          []Task                            `json:"tasks"`
	Dependencies   map[domain.TaskID][]domain.TaskID `json:"dependencies"`
	ExecutionOrder []domain.TaskID                   `json:"executionOrder"`
	CriticalPath   CriticalPath                      `json:"criticalPath"`
	TotalDuration  float64                           `json:"totalDuration"`
}

// Canonicalize returns the canonical JSON encoding of the plan content.
// encoding/json writes map keys sorted, so the output is stable.
func Canonicalize(p *Plan) ([]byte, error) {
	return json.Marshal(canonicalPlan{
		Category:       p.Category,
		Phases:         p.Phases,
		Tasks:          p.Tasks,
		Dependencies:   p.Dependencies,
		ExecutionOrder: p.ExecutionOrder,
		CriticalPath:   p.CriticalPath,
		TotalDuration:  p.TotalDuration,
	})
}

// Fingerprint computes the blake3 hash of the canonical plan content
func Fingerprint(p *Plan) (string, error) {
	canonical, err := Canonicalize(p)
	if err != nil {
		return "", fmt.Errorf("canonicalize plan: %w", err)
	}

	hasher := blake3.New()
	if _, err := hasher.Write(canonical); err != nil {
		return "", fmt.Errorf("hash plan: %w", err)
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
