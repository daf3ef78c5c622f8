package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/steelkilt/internal/game/dice"
	"github.com/cory-johannsen/steelkilt/internal/game/magic"
)

func newCastCmd(a *app) *cobra.Command {
	var roll int
	var seed uint64
	cmd := &cobra.Command{
		Use:   "cast <template> <spell>",
		Short: "Cast a spell known by a combatant template",
		Long: `Cast a spell known by a combatant template.

  Example: cast elara Fireball --roll 7`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := loadLibrary(a.cfg.Content)
			if err != nil {
				return err
			}
			c, err := lib.build(args[0])
			if err != nil {
				return err
			}
			if c.Magic == nil {
				return fmt.Errorf("%s: %w", c.Name, &magic.SpellNotKnownError{Name: args[1]})
			}

			var res magic.CastingResult
			if cmd.Flags().Changed("roll") {
				if roll < 1 || roll > dice.Faces {
					return fmt.Errorf("--roll must be 1-%d, got %d", dice.Faces, roll)
				}
				res, err = c.Magic.CastSpell(args[1], roll)
			} else {
				var src dice.Source = dice.NewCryptoSource()
				if seed != 0 {
					src = dice.NewSeededSource(seed)
				}
				res, err = c.Magic.Cast(args[1], dice.NewLoggedRoller(src, a.logger))
			}
			if err != nil {
				return fmt.Errorf("%s: %w", c.Name, err)
			}

			out := cmd.OutOrStdout()
			outcome := "failure"
			if res.Success {
				outcome = "success"
			}
			fmt.Fprintf(out, "%s casts %s: roll %d, total %d vs %d, %s (quality %+d)\n",
				c.Name, res.Spell, res.Roll, res.Total, res.Target, outcome, res.Quality)
			if res.Exhaustion > 0 {
				fmt.Fprintf(out, "  exhaustion +%d (now %s)\n", res.Exhaustion, c.Magic.ExhaustionLevel())
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&roll, "roll", 0, "use this die face instead of rolling")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for a reproducible roll (0 = random)")
	return cmd
}
