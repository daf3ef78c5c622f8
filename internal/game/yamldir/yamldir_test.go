package yamldir_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/steelkilt/internal/game/yamldir"
)

type item struct {
	ID   string `yaml:"id"`
	Cost int    `yaml:"cost"`
}

func write(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
}

func TestLoad_FileNameOrderSkipsOthers(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "b.yaml", "id: second\ncost: 2\n")
	write(t, dir, "a.yaml", "id: first\ncost: 1\n")
	write(t, dir, "notes.txt", "not yaml: [")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0755))

	got, err := yamldir.Load[item](dir)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, item{ID: "first", Cost: 1}, got[0].Value)
	assert.Equal(t, filepath.Join(dir, "a.yaml"), got[0].Path)
	assert.Equal(t, "second", got[1].Value.ID)
}

func TestLoad_ParseErrorNamesFile(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "broken.yaml", "id: [unterminated\n")

	_, err := yamldir.Load[item](dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
}

func TestLoad_MissingDirectory(t *testing.T) {
	_, err := yamldir.Load[item](filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestLoad_EmptyDirectory(t *testing.T) {
	got, err := yamldir.Load[item](t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, got)
}
