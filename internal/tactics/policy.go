package tactics

import (
	"context"
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/steelkilt/internal/game/combat"
	"github.com/cory-johannsen/steelkilt/internal/game/duel"
	"github.com/cory-johannsen/steelkilt/internal/game/maneuver"
)

// Policy is a duel.Policy that calls a script's decide function.
//
// decide receives a table with round, distance, self and opponent fields and
// returns a table with optional fields maneuver (e.g. "charge"), defense
// ("parry" or "dodge"), aim and shoot. aim with shoot aims the ranged weapon;
// aim alone prepares an aimed_attack. Missing fields default to the Normal
// maneuver, a parry, and no aiming or shooting.
type Policy struct {
	script *script
	limit  int
}

var _ duel.Policy = (*Policy)(nil)

// Name returns the script name.
func (p *Policy) Name() string { return p.script.name }

// Decide implements duel.Policy.
//
// Postcondition: returns an error if the script raises, exceeds its
// instruction limit, outlives ctx or returns a malformed decision.
func (p *Policy) Decide(ctx context.Context, s duel.Situation) (duel.Decision, error) {
	p.script.mu.Lock()
	defer p.script.mu.Unlock()
	L := p.script.L

	var ret lua.LValue
	err := runLimited(ctx, L, p.limit, func() error {
		if err := L.CallByParam(lua.P{
			Fn:      L.GetGlobal(DecideFunc),
			NRet:    1,
			Protect: true,
		}, situationTable(L, s)); err != nil {
			return err
		}
		ret = L.Get(-1)
		L.Pop(1)
		return nil
	})
	if err != nil {
		return duel.Decision{}, fmt.Errorf("tactics %q: %w", p.script.name, err)
	}

	d, err := parseDecision(ret)
	if err != nil {
		return duel.Decision{}, fmt.Errorf("tactics %q: %w", p.script.name, err)
	}
	return d, nil
}

func luaName(s string) string {
	return strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(s))
}

func situationTable(L *lua.LState, s duel.Situation) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("round", lua.LNumber(s.Round))
	t.RawSetString("distance", lua.LNumber(s.Distance))
	t.RawSetString("self", viewTable(L, s.Self))
	t.RawSetString("opponent", viewTable(L, s.Opponent))
	return t
}

func viewTable(L *lua.LState, v duel.View) *lua.LTable {
	wounds := L.NewTable()
	wounds.RawSetString("light", lua.LNumber(v.Wounds.Light))
	wounds.RawSetString("severe", lua.LNumber(v.Wounds.Severe))
	wounds.RawSetString("critical", lua.LNumber(v.Wounds.Critical))

	t := L.NewTable()
	t.RawSetString("name", lua.LString(v.Name))
	t.RawSetString("wounds", wounds)
	t.RawSetString("exhaustion", lua.LString(luaName(v.Exhaustion.String())))
	t.RawSetString("maneuver", lua.LString(luaName(v.Maneuver.String())))
	t.RawSetString("aiming", lua.LBool(v.Aiming))
	t.RawSetString("can_act", lua.LBool(v.CanAct))
	t.RawSetString("weapon_skill", lua.LNumber(v.WeaponSkill))
	t.RawSetString("dodge_skill", lua.LNumber(v.DodgeSkill))
	t.RawSetString("has_ranged", lua.LBool(v.HasRanged))
	t.RawSetString("ranged_ready", lua.LBool(v.RangedReady))
	t.RawSetString("ranged_aiming", lua.LBool(v.RangedAiming))
	t.RawSetString("shots_remaining", lua.LNumber(v.ShotsRemaining))
	t.RawSetString("arms_functional", lua.LBool(v.ArmsFunctional))
	t.RawSetString("movement_penalty", lua.LNumber(v.MovementPenalty))
	return t
}

func parseDecision(v lua.LValue) (duel.Decision, error) {
	t, ok := v.(*lua.LTable)
	if !ok {
		return duel.Decision{}, fmt.Errorf("decide returned %s, want table", v.Type())
	}
	d := duel.Decision{Maneuver: maneuver.Normal, Defense: combat.Parry}

	if m := t.RawGetString("maneuver"); m != lua.LNil {
		parsed, err := maneuver.ParseManeuver(lua.LVAsString(m))
		if err != nil {
			return duel.Decision{}, err
		}
		d.Maneuver = parsed
	}
	if def := t.RawGetString("defense"); def != lua.LNil {
		parsed, err := combat.ParseDefenseAction(lua.LVAsString(def))
		if err != nil {
			return duel.Decision{}, err
		}
		d.Defense = parsed
	}
	d.Aim = lua.LVAsBool(t.RawGetString("aim"))
	d.Shoot = lua.LVAsBool(t.RawGetString("shoot"))
	return d, nil
}
