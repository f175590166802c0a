package ux

import (
	"os"
	"path/filepath"
)

// ConfigDirName is the per-project configuration directory
const ConfigDirName = ".taskplan"

// Well-known file names inside the configuration directory
const (
	BlueprintFileName = "blueprint.yaml"
	CatalogFileName   = "openapi.yaml"
)

// PathDefaults provides default paths for files the CLI reads and writes
type PathDefaults struct {
	ConfigDir string
}

// NewPathDefaults creates PathDefaults rooted at the configuration directory
// nearest to the working directory.
func NewPathDefaults() *PathDefaults {
	if dir, ok := DiscoverConfigDir(); ok {
		return &PathDefaults{ConfigDir: dir}
	}
	return &PathDefaults{ConfigDir: ConfigDirName}
}

// PlanFile returns the default path to the plan output
func (pd *PathDefaults) PlanFile() string {
	return "plan.json"
}

// RequestFile returns the default path to the planning request
func (pd *PathDefaults) RequestFile() string {
	return "request.yaml"
}

// BlueprintFile returns the project blueprint override, or "" when the
// project has none.
func (pd *PathDefaults) BlueprintFile() string {
	return existing(filepath.Join(pd.ConfigDir, BlueprintFileName))
}

// CatalogFile returns the project capability catalog, or "" when the
// project has none.
func (pd *PathDefaults) CatalogFile() string {
	return existing(filepath.Join(pd.ConfigDir, CatalogFileName))
}

// DiscoverConfigDir searches the working directory and its parents, up to
// the repository root, for a configuration directory.
func DiscoverConfigDir() (string, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false
	}
	return discoverFrom(cwd)
}

func discoverFrom(dir string) (string, bool) {
	for {
		candidate := filepath.Join(dir, ConfigDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, true
		}

		// Stop at the repository root
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return "", false
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func existing(path string) string {
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}
