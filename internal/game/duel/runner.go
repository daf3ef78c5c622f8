package duel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/steelkilt/internal/game/combat"
	"github.com/cory-johannsen/steelkilt/internal/game/dice"
	"github.com/cory-johannsen/steelkilt/internal/game/maneuver"
)

// DefaultMaxRounds is the round limit used when Config.MaxRounds is zero.
const DefaultMaxRounds = 10

// Config tunes a Runner. The zero value is a melee at arm's length limited to
// DefaultMaxRounds.
type Config struct {
	MaxRounds int
	// Distance in meters between the combatants. It only affects shots.
	Distance int
	// TargetSize and Cover describe each combatant as a target for shots.
	TargetSize combat.TargetSize
	Cover      combat.Cover
	// DecisionTimeout bounds each Policy call when positive.
	DecisionTimeout time.Duration
}

// Runner drives a Melee to completion.
type Runner struct {
	melee    *combat.Melee
	policies [2]Policy
	src      dice.Source
	logger   *zap.Logger
	cfg      Config
}

// NewRunner creates a Runner for first and second, decided by p1 and p2.
//
// Precondition: all arguments must be non-nil.
// Postcondition: the runner owns the Melee; combatants must not be shared
// with another concurrent Runner.
func NewRunner(first, second *combat.Combatant, p1, p2 Policy, src dice.Source, logger *zap.Logger, cfg Config) *Runner {
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = DefaultMaxRounds
	}
	return &Runner{
		melee:    combat.NewMelee(first, second),
		policies: [2]Policy{p1, p2},
		src:      src,
		logger:   logger,
		cfg:      cfg,
	}
}

// Melee exposes the arena, for inspection after Run.
func (r *Runner) Melee() *combat.Melee { return r.melee }

// Run fights rounds until one combatant can no longer act or the round limit
// is reached. In each round both policies decide first, both stances are set,
// then the first combatant acts before the second.
//
// Postcondition: returns a Report, or the context error with the report so
// far when ctx is cancelled between rounds.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{}
	first, second := r.melee.Combatant(combat.First), r.melee.Combatant(combat.Second)
	r.logger.Info("duel started",
		zap.String("first", first.Name()),
		zap.String("second", second.Name()),
		zap.Int("max_rounds", r.cfg.MaxRounds),
	)

	for r.melee.Continues() && r.melee.Round < r.cfg.MaxRounds {
		if err := ctx.Err(); err != nil {
			report.Rounds = r.melee.Round
			return report, err
		}
		r.melee.NextRound()
		round := r.melee.Round
		r.logger.Debug("round started", zap.Int("round", round))

		var decisions [2]Decision
		for _, side := range []combat.Side{combat.First, combat.Second} {
			c := r.melee.Combatant(side)
			c.Ranged.ContinueAiming()
			d, err := r.decide(ctx, side)
			if err != nil {
				report.Rounds = round
				return report, err
			}
			decisions[side] = d
			if err := c.Stance.SetManeuver(d.Maneuver); err != nil {
				// Maneuvers last one round; a rejected choice falls back to Normal.
				c.Stance.Current = maneuver.Normal
				report.Events = append(report.Events, Event{
					Round: round, Kind: EventRejected, Side: side, Actor: c.Name(),
					Narrative: fmt.Sprintf("%s cannot take %s: %v; fights normally", c.Name(), d.Maneuver, err),
				})
			}
		}

		for _, side := range []combat.Side{combat.First, combat.Second} {
			if ev, ok := r.act(side, round, decisions); ok {
				report.Events = append(report.Events, ev)
			}
			if !r.melee.Combatant(side.Opponent()).IsAlive() {
				break
			}
		}
		r.melee.EndRound()
	}

	report.Rounds = r.melee.Round
	if side, ok := r.melee.Victor(); ok {
		loser := r.melee.Combatant(side.Opponent())
		report.Outcome = Victory
		report.Winner = r.melee.Combatant(side).Name()
		report.Loser = loser.Name()
		report.LoserDead = !loser.IsAlive()
	}
	r.logger.Info("duel finished",
		zap.Stringer("outcome", report.Outcome),
		zap.String("winner", report.Winner),
		zap.Int("rounds", report.Rounds),
	)
	return report, nil
}

// decide asks side's policy for a decision, falling back to BasicPolicy when
// the policy fails for any reason other than cancellation of ctx.
func (r *Runner) decide(ctx context.Context, side combat.Side) (Decision, error) {
	s := Situation{
		Round:    r.melee.Round,
		Distance: r.cfg.Distance,
		Self:     viewOf(r.melee.Combatant(side)),
		Opponent: viewOf(r.melee.Combatant(side.Opponent())),
	}

	pctx := ctx
	if r.cfg.DecisionTimeout > 0 {
		var cancel context.CancelFunc
		pctx, cancel = context.WithTimeout(ctx, r.cfg.DecisionTimeout)
		defer cancel()
	}
	d, err := r.policies[side].Decide(pctx, s)
	if err == nil {
		return d, nil
	}
	if ctx.Err() != nil {
		return Decision{}, ctx.Err()
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		r.logger.Warn("policy failed; using basic policy",
			zap.String("combatant", s.Self.Name),
			zap.Error(err),
		)
	} else {
		r.logger.Warn("policy timed out; using basic policy",
			zap.String("combatant", s.Self.Name),
			zap.Duration("timeout", r.cfg.DecisionTimeout),
		)
	}
	return BasicPolicy{}.Decide(ctx, s)
}

// act carries out side's decision. ok is false when the combatant could not
// act at all.
func (r *Runner) act(side combat.Side, round int, decisions [2]Decision) (Event, bool) {
	c, opp := r.melee.Combatant(side), r.melee.Combatant(side.Opponent())
	if !c.CanAct() {
		return Event{}, false
	}
	d := decisions[side]
	ev := Event{Round: round, Side: side, Actor: c.Name(), Target: opp.Name()}
	weapon := c.Character.RangedWeapon
	inRange := weapon != nil && weapon.InRange(r.cfg.Distance)

	switch {
	case d.Aim && d.Shoot && inRange && c.Ranged.Ready && c.Ranged.ShotsRemaining > 0:
		if !c.Ranged.Aiming {
			c.Ranged.StartAiming()
		}
		ev.Kind = EventAim
		ev.Narrative = fmt.Sprintf("%s aims the %s at %s", c.Name(), weapon.Name, opp.Name())

	case d.Aim && !d.Shoot:
		c.Stance.StartAiming()
		ev.Kind = EventAim
		ev.Narrative = fmt.Sprintf("%s takes aim at %s", c.Name(), opp.Name())

	case !c.Stance.Current.CanAttack():
		ev.Kind = EventHold
		ev.Narrative = fmt.Sprintf("%s maintains a defensive stance", c.Name())

	case d.Shoot && inRange && !c.Ranged.Ready:
		c.Ranged.PrepareWeapon(*weapon)
		ev.Kind = EventReady
		ev.Narrative = fmt.Sprintf("%s readies the %s", c.Name(), weapon.Name)

	case d.Shoot && inRange && c.Ranged.ShotsRemaining <= 0:
		c.Ranged.Reload(*weapon)
		ev.Kind = EventReload
		ev.Narrative = fmt.Sprintf("%s reloads the %s", c.Name(), weapon.Name)

	case d.Shoot && inRange:
		shot := combat.Shot{Distance: r.cfg.Distance, Size: r.cfg.TargetSize, Cover: r.cfg.Cover}
		res, err := combat.ResolveRanged(c, opp, shot, r.src)
		if err != nil {
			// Readiness and range were checked above.
			r.logger.Error("unexpected ranged failure", zap.String("combatant", c.Name()), zap.Error(err))
			return Event{}, false
		}
		ev.Kind = EventShot
		ev.Shot = &res
		ev.Narrative = narrate(c.Name(), opp.Name(), res.Result, "shoots")
		r.logResult(round, res.Result)

	default:
		ex, err := r.melee.Attack(side, decisions[side.Opponent()].Defense, combat.DirectionForRound(round), r.src)
		if err != nil {
			r.logger.Error("unexpected attack failure", zap.String("combatant", c.Name()), zap.Error(err))
			return Event{}, false
		}
		ev.Kind = EventAttack
		ev.Exchange = &ex
		ev.Narrative = narrate(c.Name(), opp.Name(), ex.Result, "attacks")
		if ex.HasLocation {
			ev.Narrative += fmt.Sprintf(" to the %s", ex.Location)
		}
		r.logResult(round, ex.Result)
	}
	return ev, true
}

func (r *Runner) logResult(round int, res combat.Result) {
	fields := []zap.Field{
		zap.Int("round", round),
		zap.String("attacker", res.Attacker),
		zap.String("defender", res.Defender),
		zap.Int("attack_roll", res.AttackRoll),
		zap.Int("defense_roll", res.DefenseRoll),
		zap.Bool("hit", res.Hit),
		zap.Int("damage", res.Damage),
	}
	if res.HasWound {
		fields = append(fields, zap.Stringer("wound", res.Wound), zap.Bool("defender_died", res.DefenderDied))
	}
	r.logger.Debug("exchange resolved", fields...)
}

func narrate(attacker, defender string, res combat.Result, verb string) string {
	switch {
	case !res.Hit:
		return fmt.Sprintf("%s %s %s and misses (%d vs %d)", attacker, verb, defender, res.AttackRoll, res.DefenseRoll)
	case !res.HasWound:
		return fmt.Sprintf("%s %s %s; the blow is absorbed (%d damage)", attacker, verb, defender, res.Damage)
	case res.DefenderDied:
		return fmt.Sprintf("%s %s %s for a %s wound and slays them", attacker, verb, defender, res.Wound)
	default:
		return fmt.Sprintf("%s %s %s for a %s wound", attacker, verb, defender, res.Wound)
	}
}
