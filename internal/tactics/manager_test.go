package tactics_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/steelkilt/internal/game/character"
	"github.com/cory-johannsen/steelkilt/internal/game/combat"
	"github.com/cory-johannsen/steelkilt/internal/game/dice"
	"github.com/cory-johannsen/steelkilt/internal/game/duel"
	"github.com/cory-johannsen/steelkilt/internal/game/equipment"
	"github.com/cory-johannsen/steelkilt/internal/game/maneuver"
	"github.com/cory-johannsen/steelkilt/internal/game/wound"
	"github.com/cory-johannsen/steelkilt/internal/tactics"
)

func newTestManager(t testing.TB, instLimit int) (*tactics.Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	roller := dice.NewLoggedRoller(dice.NewSeededSource(1), logger)
	m := tactics.NewManager(roller, logger, instLimit)
	t.Cleanup(m.Close)
	return m, logs
}

func writeScript(t testing.TB, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func situation() duel.Situation {
	return duel.Situation{
		Round:    2,
		Distance: 0,
		Self:     duel.View{Name: "Self", WeaponSkill: 7, DodgeSkill: 5, CanAct: true, ArmsFunctional: true},
		Opponent: duel.View{Name: "Other", Wounds: wound.Tracker{Light: 1}, CanAct: true},
	}
}

func TestManager_LoadDir_NamesScriptsByFile(t *testing.T) {
	m, _ := newTestManager(t, 0)
	dir := t.TempDir()
	writeScript(t, dir, "b.lua", `function decide(s) return {} end`)
	writeScript(t, dir, "a.lua", `function decide(s) return {} end`)
	writeScript(t, dir, "notes.txt", `not lua`)

	require.NoError(t, m.LoadDir(dir))
	assert.Equal(t, []string{"a", "b"}, m.Names())
}

func TestManager_LoadFile_RequiresDecide(t *testing.T) {
	m, _ := newTestManager(t, 0)
	path := writeScript(t, t.TempDir(), "empty.lua", `-- nothing here`)
	assert.ErrorContains(t, m.LoadFile(path), "decide")
	assert.Empty(t, m.Names())
}

func TestManager_LoadFile_SyntaxError(t *testing.T) {
	m, _ := newTestManager(t, 0)
	path := writeScript(t, t.TempDir(), "broken.lua", `function decide(s) return {`)
	assert.Error(t, m.LoadFile(path))
}

func TestManager_LoadFile_RunawayTopLevel(t *testing.T) {
	m, _ := newTestManager(t, 50)
	path := writeScript(t, t.TempDir(), "spin.lua", `while true do end`)
	assert.Error(t, m.LoadFile(path))
}

func TestManager_Policy_Unknown(t *testing.T) {
	m, _ := newTestManager(t, 0)
	_, err := m.Policy("nope")
	assert.ErrorIs(t, err, tactics.ErrUnknownScript)
}

func TestPolicy_Decide_ParsesDecision(t *testing.T) {
	m, _ := newTestManager(t, 0)
	path := writeScript(t, t.TempDir(), "bold.lua", `
		function decide(s)
			if s.opponent.wounds.light > 0 and s.self.maneuver == "normal" then
				return { maneuver = "all_out_attack", defense = "dodge", shoot = true }
			end
			return {}
		end
	`)
	require.NoError(t, m.LoadFile(path))
	p, err := m.Policy("bold")
	require.NoError(t, err)
	assert.Equal(t, "bold", p.Name())

	d, err := p.Decide(context.Background(), situation())
	require.NoError(t, err)
	assert.Equal(t, maneuver.AllOutAttack, d.Maneuver)
	assert.Equal(t, combat.Dodge, d.Defense)
	assert.True(t, d.Shoot)
	assert.False(t, d.Aim)
}

func TestPolicy_Decide_Defaults(t *testing.T) {
	m, _ := newTestManager(t, 0)
	require.NoError(t, m.LoadFile(writeScript(t, t.TempDir(), "idle.lua", `function decide(s) return {} end`)))
	p, err := m.Policy("idle")
	require.NoError(t, err)

	d, err := p.Decide(context.Background(), situation())
	require.NoError(t, err)
	assert.Equal(t, duel.Decision{Maneuver: maneuver.Normal, Defense: combat.Parry}, d)
}

func TestPolicy_Decide_Errors(t *testing.T) {
	tests := map[string]string{
		"not a table":      `function decide(s) return 42 end`,
		"unknown maneuver": `function decide(s) return { maneuver = "backflip" } end`,
		"unknown defense":  `function decide(s) return { defense = "block" } end`,
		"runtime error":    `function decide(s) error("boom") end`,
		"runaway":          `function decide(s) while true do end end`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			m, _ := newTestManager(t, 1_000)
			require.NoError(t, m.LoadFile(writeScript(t, t.TempDir(), "bad.lua", src)))
			p, err := m.Policy("bad")
			require.NoError(t, err)
			_, err = p.Decide(context.Background(), situation())
			assert.Error(t, err)
		})
	}
}

func TestPolicy_Decide_RecoversAfterError(t *testing.T) {
	m, _ := newTestManager(t, 1_000)
	require.NoError(t, m.LoadFile(writeScript(t, t.TempDir(), "moody.lua", `
		function decide(s)
			if s.round == 1 then
				while true do end
			end
			return { maneuver = "charge" }
		end
	`)))
	p, err := m.Policy("moody")
	require.NoError(t, err)

	s := situation()
	s.Round = 1
	_, err = p.Decide(context.Background(), s)
	require.Error(t, err)

	s.Round = 2
	d, err := p.Decide(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, maneuver.Charge, d.Maneuver)
}

func TestPolicy_EngineModule(t *testing.T) {
	m, logs := newTestManager(t, 0)
	require.NoError(t, m.LoadFile(writeScript(t, t.TempDir(), "lucky.lua", `
		function decide(s)
			local r = engine.d10()
			engine.log("rolled " .. r)
			if r >= 1 and r <= 10 then
				return { maneuver = "charge" }
			end
			return { maneuver = "normal" }
		end
	`)))
	p, err := m.Policy("lucky")
	require.NoError(t, err)

	d, err := p.Decide(context.Background(), situation())
	require.NoError(t, err)
	assert.Equal(t, maneuver.Charge, d.Maneuver)
	assert.Equal(t, 1, logs.FilterMessage("die rolled").Len())
	assert.Equal(t, 1, logs.FilterMessage("tactics").Len())
}

func TestContentScripts(t *testing.T) {
	m, _ := newTestManager(t, 0)
	require.NoError(t, m.LoadDir("../../content/tactics"))
	assert.Equal(t, []string{"berserker", "default", "skirmisher"}, m.Names())

	berserker, err := m.Policy("berserker")
	require.NoError(t, err)
	s := situation()
	s.Round = 1
	d, err := berserker.Decide(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, maneuver.Charge, d.Maneuver)

	s.Round = 2
	d, err = berserker.Decide(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, maneuver.AllOutAttack, d.Maneuver, "opponent already wounded")
}

func TestPolicy_DrivesADuel(t *testing.T) {
	m, _ := newTestManager(t, 0)
	require.NoError(t, m.LoadDir("../../content/tactics"))
	berserker, err := m.Policy("berserker")
	require.NoError(t, err)
	def, err := m.Policy("default")
	require.NoError(t, err)

	a := combat.NewCombatant(character.New("Barbarian", character.NewAttributes(9, 7, 8, 4, 5, 6, 4, 6, 3), 8, 6,
		equipment.TwoHandedSword(), equipment.LeatherArmor()))
	b := combat.NewCombatant(character.New("Knight", character.NewAttributes(8, 6, 7, 5, 6, 5, 6, 7, 4), 7, 5,
		equipment.LongSword(), equipment.PlateArmor()))
	r := duel.NewRunner(a, b, berserker, def, dice.NewSeededSource(42), zap.NewNop(), duel.Config{MaxRounds: 5})

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, report.Rounds, 5)
	for _, ev := range report.Events {
		assert.NotEqual(t, duel.EventRejected, ev.Kind)
	}
}

func TestSkirmisher_AimsBowFromRangedState(t *testing.T) {
	m, _ := newTestManager(t, 0)
	require.NoError(t, m.LoadFile(filepath.Join("..", "..", "content", "tactics", "skirmisher.lua")))
	p, err := m.Policy("skirmisher")
	require.NoError(t, err)

	s := situation()
	s.Round = 1
	s.Distance = 50
	s.Self.HasRanged = true
	s.Self.RangedReady = true
	s.Self.ShotsRemaining = 1
	// A leftover melee aim must not stop the bow from being aimed.
	s.Self.Aiming = true

	d, err := p.Decide(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, d.Aim)
	assert.True(t, d.Shoot)

	s.Self.Aiming = false
	s.Self.RangedAiming = true
	d, err = p.Decide(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, d.Aim)
	assert.True(t, d.Shoot)
}
