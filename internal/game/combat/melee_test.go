package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/steelkilt/internal/game/character"
	"github.com/cory-johannsen/steelkilt/internal/game/combat"
	"github.com/cory-johannsen/steelkilt/internal/game/dice/dicetest"
	"github.com/cory-johannsen/steelkilt/internal/game/equipment"
	"github.com/cory-johannsen/steelkilt/internal/game/hitlocation"
	"github.com/cory-johannsen/steelkilt/internal/game/maneuver"
	"github.com/cory-johannsen/steelkilt/internal/game/wound"
)

func makeMelee(t *testing.T) *combat.Melee {
	t.Helper()
	cutter := character.New("Cutter", character.NewAttributes(5, 5, 5, 5, 5, 5, 5, 5, 5), 8, 5,
		equipment.Dagger(), equipment.NoArmor())
	guard := character.New("Guard", character.NewAttributes(5, 5, 8, 5, 5, 5, 5, 5, 5), 5, 5,
		equipment.Dagger(), equipment.NoArmor())
	return combat.NewMelee(combat.NewCombatant(cutter), combat.NewCombatant(guard))
}

func TestNewCombatant_ThresholdIsStamina(t *testing.T) {
	c := combat.NewCombatant(swordsman())
	assert.Equal(t, 7, c.Exhaustion.Threshold)
	assert.Equal(t, maneuver.Normal, c.Stance.Current)
	assert.False(t, c.Ranged.Ready)
	assert.Equal(t, "Aldric", c.Name())
}

func TestCombatant_ModifiersCombineStanceAndFatigue(t *testing.T) {
	c := combat.NewCombatant(swordsman())
	require.NoError(t, c.Stance.SetManeuver(maneuver.AllOutAttack))
	c.Exhaustion.AddPoints(14)

	m := c.Modifiers()
	assert.Equal(t, 2-2, m.Attack)
	assert.Equal(t, -4, m.Defense)
	assert.Equal(t, 0, m.Damage)
}

func TestSide_Opponent(t *testing.T) {
	assert.Equal(t, combat.Second, combat.First.Opponent())
	assert.Equal(t, combat.First, combat.Second.Opponent())
}

func TestDirectionForRound(t *testing.T) {
	want := []hitlocation.Direction{hitlocation.Above, hitlocation.Left, hitlocation.Front}
	for round := 0; round < 9; round++ {
		assert.Equal(t, want[round%3], combat.DirectionForRound(round), "round=%d", round)
	}
}

func TestMelee_NextRoundAddsExhaustion(t *testing.T) {
	m := makeMelee(t)
	m.NextRound()
	m.NextRound()
	assert.Equal(t, 2, m.Round)
	assert.Equal(t, 2, m.Combatant(combat.First).Exhaustion.Points)
	assert.Equal(t, 2, m.Combatant(combat.Second).Exhaustion.Points)
}

func TestMelee_AttackWoundsLocation(t *testing.T) {
	m := makeMelee(t)
	guard := m.Combatant(combat.Second)
	// attack 8+4=12 vs parry 5+4=9; damage 3 + dagger 3 = 6 is severe vs CON 8.
	// Location roll 7 from the front is the left arm.
	src := dicetest.NewSequence(4, 4, 7)

	ex, err := m.Attack(combat.First, combat.Parry, hitlocation.Front, src)
	require.NoError(t, err)

	assert.True(t, ex.Hit)
	assert.Equal(t, wound.Severe, ex.Wound)
	require.True(t, ex.HasLocation)
	assert.Equal(t, hitlocation.LeftArm, ex.Location)
	assert.Equal(t, 4, ex.LocationDamage)
	assert.True(t, ex.Disabled)
	assert.False(t, ex.Severed)
	assert.True(t, ex.WeaponDropped)
	assert.Equal(t, 1, guard.Character.Wounds.Severe)
	assert.Equal(t, hitlocation.DisabledPenalty, guard.Body.Penalty(hitlocation.LeftArm))
	assert.Zero(t, src.Remaining())

	// Parry drops to 7 from the wound; damage 8 is severe again and the arm
	// was already disabled.
	ex, err = m.Attack(combat.First, combat.Parry, hitlocation.Front, dicetest.NewSequence(4, 4, 7))
	require.NoError(t, err)
	require.True(t, ex.HasLocation)
	assert.False(t, ex.Disabled)
	assert.False(t, ex.WeaponDropped)
}

func TestMelee_MissRollsNoLocation(t *testing.T) {
	m := makeMelee(t)
	src := dicetest.NewSequence(1, 10)

	ex, err := m.Attack(combat.First, combat.Dodge, hitlocation.Front, src)
	require.NoError(t, err)
	assert.False(t, ex.Hit)
	assert.False(t, ex.HasLocation)
	assert.Nil(t, m.Combatant(combat.Second).Body.Part(hitlocation.Torso))
}

func TestMelee_DefensivePositionCannotAttack(t *testing.T) {
	m := makeMelee(t)
	cutter := m.Combatant(combat.First)
	require.NoError(t, cutter.Stance.SetManeuver(maneuver.DefensivePosition))

	_, err := m.Attack(combat.First, combat.Parry, hitlocation.Front, dicetest.NewSequence())
	assert.ErrorIs(t, err, combat.ErrCannotAttack)
	assert.False(t, cutter.CanAttack())
}

func TestMelee_IncapacitatedCannotAct(t *testing.T) {
	m := makeMelee(t)
	m.Combatant(combat.First).Character.Wounds.Add(wound.Critical)

	_, err := m.Attack(combat.First, combat.Parry, hitlocation.Front, dicetest.NewSequence())
	assert.ErrorIs(t, err, combat.ErrCannotAct)
	assert.False(t, m.Continues())

	side, ok := m.Victor()
	require.True(t, ok)
	assert.Equal(t, combat.Second, side)
}

func TestMelee_ChargeIsRecordedAndCleared(t *testing.T) {
	m := makeMelee(t)
	cutter := m.Combatant(combat.First)
	require.NoError(t, cutter.Stance.SetManeuver(maneuver.Charge))

	_, err := m.Attack(combat.First, combat.Dodge, hitlocation.Front, dicetest.NewSequence(1, 10))
	require.NoError(t, err)
	assert.True(t, cutter.Stance.ChargedThisRound)

	m.EndRound()
	assert.False(t, cutter.Stance.ChargedThisRound)
	assert.Equal(t, maneuver.Charge, cutter.Stance.Current)
}

func TestMelee_StanceModifiersReachTheRolls(t *testing.T) {
	m := makeMelee(t)
	require.NoError(t, m.Combatant(combat.First).Stance.SetManeuver(maneuver.Charge))
	require.NoError(t, m.Combatant(combat.Second).Stance.SetManeuver(maneuver.DefensivePosition))

	ex, err := m.Attack(combat.First, combat.Dodge, hitlocation.Front, dicetest.NewSequence(1, 1, 5))
	require.NoError(t, err)
	assert.Equal(t, 8+1+1, ex.AttackRoll)
	assert.Equal(t, 5+1+2, ex.DefenseRoll)
}

func TestMelee_ContinuesWhileBothCanAct(t *testing.T) {
	m := makeMelee(t)
	assert.True(t, m.Continues())
	_, ok := m.Victor()
	assert.False(t, ok)
}
