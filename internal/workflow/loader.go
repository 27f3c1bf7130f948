package workflow

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads, schema-checks, and validates one workflow file.
// JSON (.json) and YAML (.yaml/.yml) files are accepted; YAML is
// converted to JSON before schema validation so both formats go through
// the same CUE check.
func Load(path string) (*Graph, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		// raw already JSON
	case ".yaml", ".yml":
		raw, err = yamlToJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("decode workflow %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("workflow %s: unsupported extension %q", path, filepath.Ext(path))
	}

	return Decode(raw)
}

// Decode schema-checks and decodes raw workflow JSON into a validated
// graph. Returns ValidationErrors for graph-level problems.
func Decode(raw []byte) (*Graph, error) {
	if err := ValidateJSON(raw); err != nil {
		return nil, err
	}

	var g Graph
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("decode workflow: %w", err)
	}

	if errs := Validate(&g); len(errs) > 0 {
		return nil, errs
	}

	return &g, nil
}

// LoadDir loads every workflow file in a directory (non-recursive),
// keyed by file name without extension, in sorted-name order.
func LoadDir(dir string) (map[string]*Graph, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read workflow dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, fmt.Errorf("no workflow files found in %s", dir)
	}

	graphs := make(map[string]*Graph, len(names))
	for _, name := range names {
		g, err := Load(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		key := strings.TrimSuffix(name, filepath.Ext(name))
		graphs[key] = g
	}
	return graphs, nil
}

// yamlToJSON re-encodes a YAML document as JSON so it can share the CUE
// schema check with native JSON workflows.
func yamlToJSON(raw []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(normalizeYAML(doc))
}

// normalizeYAML converts yaml.v3's map[string]any trees into JSON-safe
// values. yaml.v3 already produces string keys for mappings; this walk
// exists to normalize nested slices and maps uniformly.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeYAML(val)
		}
		return out
	default:
		return v
	}
}
