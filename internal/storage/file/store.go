// Package file stores character snapshots as one YAML document per character
// in a directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/steelkilt/internal/game/character"
)

// ErrNotFound is returned when no snapshot exists for a name.
var ErrNotFound = errors.New("character snapshot not found")

const ext = ".yaml"

// Store reads and writes snapshots under a single directory.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir, creating the directory if needed.
//
// Postcondition: Returns a usable Store or a non-nil error.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot dir %q: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory the store writes to.
func (s *Store) Dir() string { return s.dir }

// Save writes c to its file, replacing any previous snapshot of the same name.
//
// Precondition: c must be non-nil with a name containing at least one letter
// or digit.
// Postcondition: the file is replaced atomically.
func (s *Store) Save(ctx context.Context, c *character.Character) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	slug := Slug(c.Name)
	if slug == "" {
		return fmt.Errorf("saving character: name %q has no usable characters", c.Name)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding character %q: %w", c.Name, err)
	}

	tmp, err := os.CreateTemp(s.dir, slug+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %q: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %q: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path(slug)); err != nil {
		return fmt.Errorf("replacing snapshot for %q: %w", c.Name, err)
	}
	return nil
}

// Load reads the snapshot stored under name.
//
// Postcondition: Returns the character or an error wrapping ErrNotFound.
func (s *Store) Load(ctx context.Context, name string) (*character.Character, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(Slug(name)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("loading %q: %w", name, err)
	}
	var c character.Character
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding %q: %w", name, err)
	}
	return &c, nil
}

// List returns the names of every stored character, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot dir %q: %w", s.dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", entry.Name(), err)
		}
		var head struct {
			Name string `yaml:"name"`
		}
		if err := yaml.Unmarshal(data, &head); err != nil {
			return nil, fmt.Errorf("decoding %q: %w", entry.Name(), err)
		}
		names = append(names, head.Name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the snapshot stored under name.
//
// Postcondition: Returns an error wrapping ErrNotFound if nothing was stored.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.path(Slug(name))); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("deleting %q: %w", name, ErrNotFound)
		}
		return fmt.Errorf("deleting %q: %w", name, err)
	}
	return nil
}

func (s *Store) path(slug string) string {
	return filepath.Join(s.dir, slug+ext)
}

// Slug maps a character name to its file stem: lower case, runs of
// non-alphanumerics collapsed to a single underscore, no leading or trailing
// underscore.
func Slug(name string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}
