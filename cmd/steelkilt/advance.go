package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAdvanceCmd(a *app) *cobra.Command {
	var times, grant int
	cmd := &cobra.Command{
		Use:   "advance <template> <skill>",
		Short: "Spend advancement points to raise a template's skill",
		Long: `Spend advancement points to raise a template's skill one level at a time.

  Example: advance knight Longsword --times 2`,
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
			if c.Skills == nil {
				return fmt.Errorf("%s has no trained skills", c.Name)
			}
			c.Skills.Grant(grant)

			out := cmd.OutOrStdout()
			name := args[1]
			for i := 0; i < times; i++ {
				before, points := c.Skills.Level(name), c.Skills.AvailablePoints
				if err := c.Skills.Raise(name); err != nil {
					return fmt.Errorf("%s: %w", c.Name, err)
				}
				fmt.Fprintf(out, "%s: %s %d -> %d (cost %d, %d points left)\n",
					c.Name, name, before, c.Skills.Level(name), points-c.Skills.AvailablePoints, c.Skills.AvailablePoints)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&times, "times", 1, "number of levels to raise")
	cmd.Flags().IntVar(&grant, "grant", 0, "extra advancement points to grant first")
	return cmd
}
