package wound_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/steelkilt/internal/game/wound"
)

func TestTracker_FourLightBecomeOneSevere(t *testing.T) {
	var w wound.Tracker
	for i := 0; i < 4; i++ {
		w.Add(wound.Light)
	}
	assert.Equal(t, wound.Tracker{Light: 0, Severe: 1, Critical: 0}, w)
}

func TestTracker_ThreeSevereBecomeOneCritical(t *testing.T) {
	var w wound.Tracker
	for i := 0; i < 3; i++ {
		w.Add(wound.Severe)
	}
	assert.Equal(t, wound.Tracker{Critical: 1}, w)
	assert.True(t, w.IsIncapacitated())
	assert.False(t, w.IsDead())
}

func TestTracker_TwelveLightCascadeToCritical(t *testing.T) {
	var w wound.Tracker
	for i := 0; i < 12; i++ {
		w.Add(wound.Light)
	}
	assert.Equal(t, wound.Tracker{Critical: 1}, w)
}

func TestTracker_LightCascadeThroughFullSevere(t *testing.T) {
	w := wound.Tracker{Light: 3, Severe: 2}
	w.Add(wound.Light)
	assert.Equal(t, wound.Tracker{Critical: 1}, w)
}

func TestTracker_DeathRequiresTwoCriticals(t *testing.T) {
	var w wound.Tracker
	w.Add(wound.Critical)
	assert.True(t, w.IsIncapacitated())
	assert.False(t, w.IsDead(), "incapacitated combatants can still be alive")
	w.Add(wound.Critical)
	assert.True(t, w.IsDead())
}

func TestTracker_MovementPenalty(t *testing.T) {
	w := wound.Tracker{Light: 2, Severe: 1, Critical: 1}
	assert.Equal(t, -8, w.MovementPenalty())
	assert.Equal(t, 0, wound.Tracker{}.MovementPenalty())
}

func TestTracker_Property_CountersStayBounded(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		levels := rapid.SliceOf(rapid.SampledFrom([]wound.Level{wound.Light, wound.Severe, wound.Critical})).Draw(rt, "levels")
		var w wound.Tracker
		for _, l := range levels {
			w.Add(l)
			assert.GreaterOrEqual(rt, w.Light, 0)
			assert.LessOrEqual(rt, w.Light, wound.MaxLight)
			assert.GreaterOrEqual(rt, w.Severe, 0)
			assert.LessOrEqual(rt, w.Severe, wound.MaxSevere)
		}
		assert.Equal(rt, w.Critical > 1, w.IsDead())
		assert.Equal(rt, w.Critical >= 1, w.IsIncapacitated())
		assert.LessOrEqual(rt, w.MovementPenalty(), 0)
	})
}

func TestTracker_Property_WoundWeightConserved(t *testing.T) {
	// One severe is worth four lights and one critical is worth three severes.
	weight := func(w wound.Tracker) int { return w.Light + 4*w.Severe + 12*w.Critical }
	rapid.Check(t, func(rt *rapid.T) {
		levels := rapid.SliceOf(rapid.SampledFrom([]wound.Level{wound.Light, wound.Severe, wound.Critical})).Draw(rt, "levels")
		var w wound.Tracker
		want := 0
		for _, l := range levels {
			w.Add(l)
			want += []int{1, 4, 12}[l]
		}
		assert.Equal(rt, want, weight(w))
	})
}

func TestParseLevel(t *testing.T) {
	for _, l := range []wound.Level{wound.Light, wound.Severe, wound.Critical} {
		got, err := wound.ParseLevel(l.String())
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}
	got, err := wound.ParseLevel(" CRITICAL ")
	require.NoError(t, err)
	assert.Equal(t, wound.Critical, got)

	_, err = wound.ParseLevel("mortal")
	assert.Error(t, err)
}

func TestLevel_TextEncoding(t *testing.T) {
	data, err := json.Marshal(map[string]wound.Level{"last": wound.Severe})
	require.NoError(t, err)
	assert.JSONEq(t, `{"last":"Severe"}`, string(data))

	var out struct {
		Last wound.Level `yaml:"last"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("last: critical\n"), &out))
	assert.Equal(t, wound.Critical, out.Last)

	_, err = wound.Level(9).MarshalText()
	assert.Error(t, err)
}
