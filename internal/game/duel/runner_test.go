package duel_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/steelkilt/internal/game/character"
	"github.com/cory-johannsen/steelkilt/internal/game/combat"
	"github.com/cory-johannsen/steelkilt/internal/game/dice"
	"github.com/cory-johannsen/steelkilt/internal/game/dice/dicetest"
	"github.com/cory-johannsen/steelkilt/internal/game/duel"
	"github.com/cory-johannsen/steelkilt/internal/game/equipment"
	"github.com/cory-johannsen/steelkilt/internal/game/hitlocation"
	"github.com/cory-johannsen/steelkilt/internal/game/maneuver"
)

func champion() *combat.Combatant {
	return combat.NewCombatant(character.New("Champion", character.NewAttributes(10, 8, 9, 5, 5, 5, 5, 5, 5), 10, 6,
		equipment.TwoHandedSword(), equipment.ChainMail()))
}

func peasant() *combat.Combatant {
	return combat.NewCombatant(character.New("Peasant", character.NewAttributes(3, 3, 1, 3, 3, 3, 3, 3, 3), 1, 1,
		equipment.Dagger(), equipment.NoArmor()))
}

func knight() *combat.Combatant {
	return combat.NewCombatant(character.New("Knight", character.NewAttributes(8, 6, 7, 5, 6, 5, 6, 7, 4), 7, 5,
		equipment.LongSword(), equipment.PlateArmor()))
}

func barbarian() *combat.Combatant {
	return combat.NewCombatant(character.New("Barbarian", character.NewAttributes(9, 7, 8, 4, 5, 6, 4, 6, 3), 8, 6,
		equipment.TwoHandedSword(), equipment.LeatherArmor()))
}

var defend = duel.PolicyFunc(func(context.Context, duel.Situation) (duel.Decision, error) {
	return duel.Decision{Maneuver: maneuver.DefensivePosition}, nil
})

func TestRunner_OneBlowEndsTheDuel(t *testing.T) {
	r := duel.NewRunner(champion(), peasant(), duel.BasicPolicy{}, duel.BasicPolicy{},
		dicetest.Fixed(10), zap.NewNop(), duel.Config{})

	report, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Rounds)
	assert.Equal(t, duel.Victory, report.Outcome)
	assert.Equal(t, "Champion", report.Winner)
	assert.Equal(t, "Peasant", report.Loser)
	assert.True(t, report.LoserDead)
	require.Len(t, report.Events, 1)

	ev := report.Events[0]
	assert.Equal(t, duel.EventAttack, ev.Kind)
	require.NotNil(t, ev.Exchange)
	assert.True(t, ev.Exchange.DefenderDied)
	assert.Equal(t, hitlocation.Left, ev.Exchange.Direction)
	assert.Equal(t, hitlocation.Head, ev.Exchange.Location)
	assert.Equal(t, 1, report.Hits(combat.First))
	assert.Zero(t, report.Hits(combat.Second))
}

func TestRunner_DrawAtRoundLimit(t *testing.T) {
	r := duel.NewRunner(knight(), barbarian(), defend, defend,
		dicetest.NewSequence(), zap.NewNop(), duel.Config{MaxRounds: 3})

	report, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Rounds)
	assert.Equal(t, duel.Draw, report.Outcome)
	assert.Empty(t, report.Winner)
	require.Len(t, report.Events, 6)
	for _, ev := range report.Events {
		assert.Equal(t, duel.EventHold, ev.Kind)
	}
	assert.Equal(t, 3, r.Melee().Combatant(combat.First).Exhaustion.Points)
}

func TestRunner_DefaultRoundLimit(t *testing.T) {
	r := duel.NewRunner(knight(), barbarian(), defend, defend,
		dicetest.NewSequence(), zap.NewNop(), duel.Config{})
	report, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, duel.DefaultMaxRounds, report.Rounds)
}

func TestRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := duel.NewRunner(knight(), barbarian(), duel.BasicPolicy{}, duel.BasicPolicy{},
		dicetest.NewSequence(), zap.NewNop(), duel.Config{})

	report, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Zero(t, report.Rounds)
}

func TestRunner_FailingPolicyFallsBack(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	broken := duel.PolicyFunc(func(context.Context, duel.Situation) (duel.Decision, error) {
		return duel.Decision{}, errors.New("script exploded")
	})
	r := duel.NewRunner(knight(), barbarian(), broken, defend,
		dice.NewSeededSource(1), zap.New(core), duel.Config{MaxRounds: 1})

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("policy failed; using basic policy").Len())
	require.NotEmpty(t, report.Events)
	assert.Equal(t, duel.EventAttack, report.Events[0].Kind)
}

func TestRunner_SlowPolicyTimesOut(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	slow := duel.PolicyFunc(func(ctx context.Context, _ duel.Situation) (duel.Decision, error) {
		<-ctx.Done()
		return duel.Decision{}, ctx.Err()
	})
	r := duel.NewRunner(knight(), barbarian(), slow, defend,
		dice.NewSeededSource(1), zap.New(core), duel.Config{MaxRounds: 1, DecisionTimeout: 10 * time.Millisecond})

	_, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("policy timed out; using basic policy").Len())
}

func TestRunner_AimedAttackNeedsAimingFirst(t *testing.T) {
	eager := duel.PolicyFunc(func(context.Context, duel.Situation) (duel.Decision, error) {
		return duel.Decision{Maneuver: maneuver.AimedAttack}, nil
	})
	r := duel.NewRunner(knight(), barbarian(), eager, defend,
		dice.NewSeededSource(3), zap.NewNop(), duel.Config{MaxRounds: 1})

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, report.Events)
	assert.Equal(t, duel.EventRejected, report.Events[0].Kind)
}

func TestRunner_AimThenStrike(t *testing.T) {
	patient := duel.PolicyFunc(func(_ context.Context, s duel.Situation) (duel.Decision, error) {
		if s.Self.Aiming {
			return duel.Decision{Maneuver: maneuver.AimedAttack}, nil
		}
		return duel.Decision{Maneuver: maneuver.Normal, Aim: true}, nil
	})
	r := duel.NewRunner(knight(), barbarian(), patient, defend,
		dice.NewSeededSource(5), zap.NewNop(), duel.Config{MaxRounds: 2})

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []duel.EventKind{duel.EventAim, duel.EventAttack}, kindsBy(report, combat.First))
}

func archer() *combat.Combatant {
	c := character.New("Wren", character.NewAttributes(6, 9, 6, 5, 5, 5, 5, 9, 5), 5, 7,
		equipment.Dagger(), equipment.NoArmor())
	c.RangedSkill = 8
	bow := equipment.LongBow()
	c.RangedWeapon = &bow
	return combat.NewCombatant(c)
}

func kindsBy(report *duel.Report, side combat.Side) []duel.EventKind {
	var kinds []duel.EventKind
	for _, ev := range report.Events {
		if ev.Side == side {
			kinds = append(kinds, ev.Kind)
		}
	}
	return kinds
}

func TestRunner_ArcherReadiesThenShoots(t *testing.T) {
	r := duel.NewRunner(archer(), barbarian(), duel.BasicPolicy{}, defend,
		dicetest.Fixed(5), zap.NewNop(), duel.Config{MaxRounds: 2, Distance: 50})

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Events, 4)
	assert.Equal(t, duel.EventReady, report.Events[0].Kind)
	assert.Equal(t, duel.EventHold, report.Events[1].Kind)
	assert.Equal(t, duel.EventShot, report.Events[2].Kind)
	require.NotNil(t, report.Events[2].Shot)
	assert.Equal(t, -2, report.Events[2].Shot.Modifier)
	assert.Zero(t, r.Melee().Combatant(combat.First).Ranged.ShotsRemaining)
}

func TestRunner_Property_EndsWithinLimit(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		maxRounds := rapid.IntRange(1, 15).Draw(rt, "max_rounds")
		r := duel.NewRunner(knight(), barbarian(), duel.BasicPolicy{}, duel.BasicPolicy{},
			dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")), zap.NewNop(), duel.Config{MaxRounds: maxRounds})

		report, err := r.Run(context.Background())
		require.NoError(rt, err)
		assert.LessOrEqual(rt, report.Rounds, maxRounds)
		if report.Outcome == duel.Victory {
			m := r.Melee()
			assert.NotEqual(rt, m.Combatant(combat.First).CanAct(), m.Combatant(combat.Second).CanAct())
		} else {
			assert.Equal(rt, maxRounds, report.Rounds)
		}
	})
}

func TestRunner_BowAimLeavesMeleeAimUnarmed(t *testing.T) {
	var views []duel.View
	plan := duel.PolicyFunc(func(_ context.Context, s duel.Situation) (duel.Decision, error) {
		views = append(views, s.Self)
		switch s.Round {
		case 2:
			return duel.Decision{Maneuver: maneuver.Normal, Aim: true, Shoot: true}, nil
		case 4:
			return duel.Decision{Maneuver: maneuver.AimedAttack}, nil
		default:
			return duel.Decision{Maneuver: maneuver.Normal, Shoot: true}, nil
		}
	})
	r := duel.NewRunner(archer(), barbarian(), plan, defend,
		dicetest.Fixed(5), zap.NewNop(), duel.Config{MaxRounds: 4, Distance: 50})

	report, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []duel.EventKind{
		duel.EventReady, duel.EventAim, duel.EventShot, duel.EventRejected, duel.EventAttack,
	}, kindsBy(report, combat.First))

	require.Len(t, views, 4)
	assert.True(t, views[2].RangedAiming, "bow aim carries into the shooting round")
	assert.False(t, views[2].Aiming)
	assert.False(t, views[3].RangedAiming, "firing ends the bow aim")
	assert.False(t, views[3].Aiming)

	for _, ev := range report.Events {
		if ev.Kind == duel.EventShot {
			require.NotNil(t, ev.Shot)
			assert.Equal(t, -1, ev.Shot.Modifier, "long range -2 plus one round of aiming")
		}
	}
	wren := r.Melee().Combatant(combat.First)
	assert.Equal(t, maneuver.Normal, wren.Stance.Current)
	assert.False(t, wren.Stance.Aiming)
}

func TestRunner_RejectedManeuverFallsBackToNormal(t *testing.T) {
	wavering := duel.PolicyFunc(func(_ context.Context, s duel.Situation) (duel.Decision, error) {
		if s.Round == 1 {
			return duel.Decision{Maneuver: maneuver.DefensivePosition}, nil
		}
		return duel.Decision{Maneuver: maneuver.AimedAttack}, nil
	})
	r := duel.NewRunner(knight(), barbarian(), wavering, defend,
		dicetest.Fixed(5), zap.NewNop(), duel.Config{MaxRounds: 2})

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []duel.EventKind{duel.EventHold, duel.EventRejected, duel.EventAttack},
		kindsBy(report, combat.First))
	assert.Equal(t, maneuver.Normal, r.Melee().Combatant(combat.First).Stance.Current)
}

func TestRunner_HitsCountedBySideWithSharedNames(t *testing.T) {
	first, second := champion(), peasant()
	first.Character.Name = "Twin"
	second.Character.Name = "Twin"
	r := duel.NewRunner(first, second, duel.BasicPolicy{}, duel.BasicPolicy{},
		dicetest.Fixed(10), zap.NewNop(), duel.Config{})

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Events, 1)
	assert.Equal(t, combat.First, report.Events[0].Side)
	assert.Equal(t, 1, report.Hits(combat.First))
	assert.Zero(t, report.Hits(combat.Second))
}
