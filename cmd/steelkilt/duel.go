package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/steelkilt/internal/game/character"
	"github.com/cory-johannsen/steelkilt/internal/game/combat"
	"github.com/cory-johannsen/steelkilt/internal/game/dice"
	"github.com/cory-johannsen/steelkilt/internal/game/duel"
	"github.com/cory-johannsen/steelkilt/internal/tactics"
)

type duelOptions struct {
	scripts []string
	size    string
	cover   string
	save    bool
	resume  bool
	store   string
}

func newDuelCmd(a *app) *cobra.Command {
	var opts duelOptions
	cmd := &cobra.Command{
		Use:   "duel <first> <second>",
		Short: "Fight an automated duel between two combatant templates",
		Long: `Fight an automated duel between two combatant templates.

Each side is driven by the Lua tactics script named with --script, else the
script named in its template, else the built-in policy.

  Example: duel knight barbarian --seed 42 --rounds 20`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDuel(cmd.Context(), a, opts, args[0], args[1], cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.Uint64("seed", 0, "seed for a reproducible duel (0 = random)")
	f.Int("rounds", 0, "round limit")
	f.Int("distance", 0, "separation in meters, for ranged weapons")
	f.String("tactics-dir", "", "directory of Lua tactics scripts")
	f.StringSliceVar(&opts.scripts, "script", nil, "tactics script for the first and second combatant")
	f.StringVar(&opts.size, "size", "medium", "target size of both combatants")
	f.StringVar(&opts.cover, "cover", "none", "cover of both combatants")
	f.BoolVar(&opts.save, "save", false, "save both combatants' snapshots after the duel")
	f.BoolVar(&opts.resume, "resume", false, "load the combatants by name from the store instead of building templates")
	f.StringVar(&opts.store, "store", storeFile, "snapshot store: file, postgres or redis")
	_ = a.v.BindPFlag("simulation.seed", f.Lookup("seed"))
	_ = a.v.BindPFlag("simulation.max_rounds", f.Lookup("rounds"))
	_ = a.v.BindPFlag("simulation.distance", f.Lookup("distance"))
	_ = a.v.BindPFlag("simulation.tactics_dir", f.Lookup("tactics-dir"))
	return cmd
}

func runDuel(ctx context.Context, a *app, opts duelOptions, firstRef, secondRef string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	size, err := combat.ParseTargetSize(opts.size)
	if err != nil {
		return err
	}
	cover, err := combat.ParseCover(opts.cover)
	if err != nil {
		return err
	}

	var store snapshotStore
	if opts.save || opts.resume {
		store, err = openStore(ctx, opts.store, a.cfg)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	var chars [2]*character.Character
	if opts.resume {
		for i, name := range []string{firstRef, secondRef} {
			if chars[i], err = store.Load(ctx, name); err != nil {
				return fmt.Errorf("loading %q: %w", name, err)
			}
		}
	} else {
		lib, err := loadLibrary(a.cfg.Content)
		if err != nil {
			return err
		}
		for i, id := range []string{firstRef, secondRef} {
			if chars[i], err = lib.build(id); err != nil {
				return err
			}
		}
	}

	sim := a.cfg.Simulation
	var src dice.Source = dice.NewCryptoSource()
	if sim.Seed != 0 {
		src = dice.NewSeededSource(sim.Seed)
	}
	roller := dice.NewLoggedRoller(src, a.logger)

	mgr := tactics.NewManager(roller, a.logger, sim.InstructionLimit)
	defer mgr.Close()
	if err := mgr.LoadDir(sim.TacticsDir); err != nil {
		return err
	}

	var policies [2]duel.Policy
	for i, c := range chars {
		name := c.Tactics
		if i < len(opts.scripts) && opts.scripts[i] != "" {
			name = opts.scripts[i]
		}
		if name == "" {
			policies[i] = duel.BasicPolicy{}
			continue
		}
		p, err := mgr.Policy(name)
		if err != nil {
			return fmt.Errorf("%s: %w", c.Name, err)
		}
		policies[i] = p
	}

	first, second := combat.NewCombatant(chars[0]), combat.NewCombatant(chars[1])
	runner := duel.NewRunner(first, second, policies[0], policies[1], roller, a.logger, duel.Config{
		MaxRounds:       sim.MaxRounds,
		Distance:        sim.Distance,
		TargetSize:      size,
		Cover:           cover,
		DecisionTimeout: sim.DecisionTimeout,
	})
	report, err := runner.Run(ctx)
	if report != nil {
		printReport(out, report, runner.Melee())
	}
	if err != nil {
		return err
	}

	if opts.save {
		for _, c := range chars {
			if err := store.Save(ctx, c); err != nil {
				return fmt.Errorf("saving %q: %w", c.Name, err)
			}
		}
		a.logger.Info("snapshots saved", zap.String("store", opts.store))
		fmt.Fprintf(out, "Saved %s and %s to the %s store\n", chars[0].Name, chars[1].Name, opts.store)
	}
	return nil
}

func printReport(out io.Writer, report *duel.Report, m *combat.Melee) {
	round := 0
	for _, e := range report.Events {
		if e.Round != round {
			round = e.Round
			fmt.Fprintf(out, "Round %d\n", round)
		}
		fmt.Fprintf(out, "  %s\n", e.Narrative)
	}

	fmt.Fprintln(out)
	switch report.Outcome {
	case duel.Victory:
		fate := "is defeated"
		if report.LoserDead {
			fate = "is dead"
		}
		fmt.Fprintf(out, "%s defeats %s after %d rounds; %s %s\n",
			report.Winner, report.Loser, report.Rounds, report.Loser, fate)
	default:
		fmt.Fprintf(out, "Draw after %d rounds\n", report.Rounds)
	}
	for _, side := range []combat.Side{combat.First, combat.Second} {
		c := m.Combatant(side)
		fmt.Fprintf(out, "  %-28s wounds: %s  exhaustion: %s  hits: %d\n",
			c.Name(), c.Character.Wounds, c.Exhaustion.Level(), report.Hits(side))
	}
}
