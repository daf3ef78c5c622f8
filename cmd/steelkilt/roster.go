package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRosterCmd(a *app) *cobra.Command {
	var stored bool
	var store string
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "List combatant templates, or saved characters with --stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if stored {
				s, err := openStore(cmd.Context(), store, a.cfg)
				if err != nil {
					return err
				}
				defer s.Close()
				names, err := s.List(cmd.Context())
				if err != nil {
					return err
				}
				for _, n := range names {
					fmt.Fprintln(out, n)
				}
				return nil
			}

			lib, err := loadLibrary(a.cfg.Content)
			if err != nil {
				return err
			}
			for _, id := range lib.templateIDs() {
				t := lib.templates[id]
				extra := ""
				if t.RangedWeapon != "" {
					extra += ", " + t.RangedWeapon
				}
				if t.Magic != nil {
					extra += ", magic"
				}
				if t.Tactics != "" {
					extra += ", tactics " + t.Tactics
				}
				fmt.Fprintf(out, "%-10s %-28s WS %d  DS %d  %s%s\n",
					id, t.Name, t.WeaponSkill, t.DodgeSkill, t.Weapon, extra)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&stored, "stored", false, "list saved characters instead of templates")
	cmd.Flags().StringVar(&store, "store", storeFile, "snapshot store: file, postgres or redis")
	return cmd
}
