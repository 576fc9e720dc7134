package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads a schema file and parses it according to its extension.
// Supported formats are .json and .hcl.
func Load(path string) (*Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}

	var s *Schema
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		s, err = ParseJSON(raw)
	case ".hcl":
		s, err = ParseHCL(filepath.Base(path), raw)
	default:
		return nil, fmt.Errorf("unsupported schema format %q (expected .json or .hcl)", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", path, err)
	}
	return s, nil
}
