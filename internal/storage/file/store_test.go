package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/steelkilt/internal/game/character"
	"github.com/cory-johannsen/steelkilt/internal/game/equipment"
	"github.com/cory-johannsen/steelkilt/internal/game/wound"
	"github.com/cory-johannsen/steelkilt/internal/storage/file"
)

func newStore(t *testing.T) *file.Store {
	t.Helper()
	s, err := file.NewStore(filepath.Join(t.TempDir(), "characters"))
	require.NoError(t, err)
	return s
}

func brigand(name string) *character.Character {
	return character.New(name,
		character.NewAttributes(6, 6, 7, 5, 5, 5, 5, 6, 4),
		6, 5, equipment.Dagger(), equipment.LeatherArmor())
}

func TestStore_SaveLoad(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	c := brigand("Black Tom")
	c.Wounds.Add(wound.Severe)

	require.NoError(t, s.Save(ctx, c))
	assert.FileExists(t, filepath.Join(s.Dir(), "black_tom.yaml"))

	got, err := s.Load(ctx, "Black Tom")
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestStore_SaveOverwrites(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	c := brigand("Black Tom")
	require.NoError(t, s.Save(ctx, c))

	c.Wounds.Add(wound.Critical)
	require.NoError(t, s.Save(ctx, c))

	got, err := s.Load(ctx, "Black Tom")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Wounds.Critical)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestStore_RejectsUnusableName(t *testing.T) {
	s := newStore(t)
	assert.Error(t, s.Save(context.Background(), brigand("!!!")))
}

func TestStore_ListAndDelete(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	for _, n := range []string{"Mira", "Anselm", "Black Tom"} {
		require.NoError(t, s.Save(ctx, brigand(n)))
	}
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("ignored"), 0o644))

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Anselm", "Black Tom", "Mira"}, names)

	require.NoError(t, s.Delete(ctx, "Mira"))
	names, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Anselm", "Black Tom"}, names)
}

func TestStore_NotFound(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	_, err := s.Load(ctx, "nobody")
	assert.ErrorIs(t, err, file.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "nobody"), file.ErrNotFound)
}

func TestStore_CancelledContext(t *testing.T) {
	s := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Save(ctx, brigand("Mira")), context.Canceled)
	_, err := s.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Sir Roland the Defender": "sir_roland_the_defender",
		"  Elara  ":               "elara",
		"Black-Tom's Gang":        "black_tom_s_gang",
		"UPPER":                   "upper",
		"***":                     "",
	}
	for in, want := range tests {
		assert.Equal(t, want, file.Slug(in), "slug of %q", in)
	}
}

func TestSlug_Property_Idempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.StringMatching(`[A-Za-z0-9 _'.-]{0,30}`).Draw(rt, "name")
		once := file.Slug(name)
		assert.Equal(rt, once, file.Slug(once))
	})
}
