// Package yamldir loads directories of YAML definition files. The equipment,
// spell and combatant catalogs all read their content through it.
package yamldir

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Entry is one decoded file.
type Entry[T any] struct {
	Path  string
	Value T
}

// Load parses every *.yaml file directly inside dir into a T, in file name
// order. Subdirectories and other extensions are skipped.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns every entry, or an error naming the first file that
// could not be read or parsed.
func Load[T any](dir string) ([]Entry[T], error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %q: %w", dir, err)
	}
	var out []Entry[T]
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read file %q: %w", path, err)
		}
		var v T
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("cannot parse file %q: %w", path, err)
		}
		out = append(out, Entry[T]{Path: path, Value: v})
	}
	return out, nil
}
