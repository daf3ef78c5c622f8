package equipment_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/steelkilt/internal/game/equipment"
)

func TestNewWeapon_DamageFromImpact(t *testing.T) {
	assert.Equal(t, 3, equipment.Dagger().Damage)
	assert.Equal(t, 5, equipment.LongSword().Damage)
	assert.Equal(t, 7, equipment.TwoHandedSword().Damage)
	assert.Equal(t, 9, equipment.NewWeapon("Maul", equipment.Huge).Damage)
}

func TestArmorPresets(t *testing.T) {
	none := equipment.NoArmor()
	assert.Equal(t, 0, none.Protection)
	assert.Equal(t, 0, none.MovementPenalty)

	assert.Equal(t, 2, equipment.LeatherArmor().Protection)
	assert.Equal(t, 0, equipment.LeatherArmor().MovementPenalty)
	assert.Equal(t, 3, equipment.ChainMail().Protection)
	assert.Equal(t, -1, equipment.ChainMail().MovementPenalty)
	assert.Equal(t, 4, equipment.PlateArmor().Protection)
	assert.Equal(t, -1, equipment.PlateArmor().MovementPenalty)
}

func TestRangedWeapon_DistanceModifier(t *testing.T) {
	bow := equipment.LongBow()
	assert.Equal(t, 0, bow.DistanceModifier(30))
	assert.Equal(t, 0, bow.DistanceModifier(39))
	assert.Equal(t, -1, bow.DistanceModifier(40))
	assert.Equal(t, -9, bow.DistanceModifier(120))
	assert.Equal(t, equipment.OutOfRangeModifier, bow.DistanceModifier(121))
	assert.False(t, bow.InRange(121))

	rifle := equipment.Rifle()
	assert.Equal(t, -1, rifle.DistanceModifier(60))
	assert.Equal(t, -8, rifle.DistanceModifier(200))

	crossbow := equipment.CrossbowWeapon()
	assert.Equal(t, -1, crossbow.DistanceModifier(50))
}

func TestRangedWeapon_Property_PointBlankIsZeroAndMonotonic(t *testing.T) {
	presets := []equipment.RangedWeapon{
		equipment.ShortBow(), equipment.LongBow(), equipment.CrossbowWeapon(),
		equipment.Pistol(), equipment.Rifle(), equipment.Javelin(),
	}
	rapid.Check(t, func(rt *rapid.T) {
		w := rapid.SampledFrom(presets).Draw(rt, "weapon")
		d := rapid.IntRange(0, w.MaxRange+50).Draw(rt, "distance")
		mod := w.DistanceModifier(d)
		switch {
		case d <= w.PointBlankRange:
			assert.Equal(rt, 0, mod)
		case d <= w.MaxRange:
			assert.True(rt, w.InRange(d))
			assert.Equal(rt, -((d - w.PointBlankRange) / w.Kind.RangeIncrement()), mod)
			if d+1 <= w.MaxRange {
				assert.LessOrEqual(rt, w.DistanceModifier(d+1), mod)
			}
		default:
			assert.False(rt, w.InRange(d))
		}
	})
}

func TestRangedKind_Increment(t *testing.T) {
	assert.Equal(t, 10, equipment.Bow.RangeIncrement())
	assert.Equal(t, 10, equipment.Thrown.RangeIncrement())
	assert.Equal(t, 20, equipment.Firearm.RangeIncrement())
	assert.Equal(t, 20, equipment.Crossbow.RangeIncrement())
}

func TestEnums_JSONRoundTrip(t *testing.T) {
	in := struct {
		W equipment.Weapon       `json:"w"`
		A equipment.Armor        `json:"a"`
		R equipment.RangedWeapon `json:"r"`
	}{equipment.LongSword(), equipment.ChainMail(), equipment.Pistol()}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"impact":"medium"`)
	assert.Contains(t, string(data), `"type":"chain"`)
	assert.Contains(t, string(data), `"kind":"firearm"`)

	out := in
	out.W, out.A, out.R = equipment.Weapon{}, equipment.Armor{}, equipment.RangedWeapon{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestWeapon_Validate(t *testing.T) {
	w := equipment.LongSword()
	assert.Error(t, w.Validate(), "missing id")
	w.ID = "long_sword"
	assert.NoError(t, w.Validate())
	w.Damage = 99
	assert.Error(t, w.Validate())
}

func TestLoadWeapons_RejectsBadImpact(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "club.yaml"), []byte("id: club\nname: Club\nimpact: enormous\n"), 0o644))
	_, err := equipment.LoadWeapons(dir)
	assert.Error(t, err)
}

func TestLoadWeapons_SkipsNonYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "club.yaml"), []byte("id: club\nname: Club\nimpact: medium\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("not yaml"), 0o644))
	weapons, err := equipment.LoadWeapons(dir)
	require.NoError(t, err)
	require.Len(t, weapons, 1)
	assert.Equal(t, 5, weapons[0].Damage)
}

func TestCatalog_DuplicateID(t *testing.T) {
	c := equipment.NewCatalog()
	w := equipment.Dagger()
	w.ID = "dagger"
	require.NoError(t, c.RegisterWeapon(&w))
	assert.Error(t, c.RegisterWeapon(&w))
	assert.Same(t, &w, c.Weapon("dagger"))
	assert.Nil(t, c.Weapon("missing"))
}

func TestContent_CatalogLoads(t *testing.T) {
	c, err := equipment.LoadCatalog("../../../content")
	require.NoError(t, err)

	sword := c.Weapon("long_sword")
	require.NotNil(t, sword)
	assert.Equal(t, equipment.LongSword().Damage, sword.Damage)

	plate := c.Armor("plate")
	require.NotNil(t, plate)
	assert.Equal(t, 4, plate.Protection)

	crossbow := c.Ranged("crossbow")
	require.NotNil(t, crossbow)
	assert.Equal(t, equipment.Crossbow, crossbow.Kind)
	assert.Contains(t, c.WeaponIDs(), "two_handed_sword")
}
