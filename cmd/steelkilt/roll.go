package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/steelkilt/internal/game/dice"
)

func newRollCmd(a *app) *cobra.Command {
	var seed uint64
	cmd := &cobra.Command{
		Use:   "roll <expression>",
		Short: "Roll a dice expression such as d10 or 2d10+3",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var src dice.Source = dice.NewCryptoSource()
			if seed != 0 {
				src = dice.NewSeededSource(seed)
			}
			result, err := dice.NewLoggedRoller(src, a.logger).RollExpr(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.String())
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for a reproducible roll (0 = random)")
	return cmd
}
