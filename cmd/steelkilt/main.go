// Package main is the steelkilt command line: automated duels between
// combatant templates, dice rolls, spell casting and skill advancement.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cory-johannsen/steelkilt/internal/config"
	"github.com/cory-johannsen/steelkilt/internal/observability"
)

const defaultConfigPath = "configs/dev.yaml"

// app carries the state shared by every subcommand once the root command's
// PersistentPreRunE has run.
type app struct {
	v          *viper.Viper
	configPath string
	cfg        config.Config
	logger     *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "steelkilt",
		Short: "Draft RPG combat simulator",
		Long: `steelkilt resolves Draft RPG melee, ranged combat and magic.

Combatants are built from YAML templates under the content directory; duels
are fought automatically by Lua tactics scripts.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", defaultConfigPath, "path to configuration file")
	pf.String("content", "", "content root holding weapons/, armor/, ranged/, spells/ and combatants/")
	pf.String("characters", "", "directory of the YAML snapshot store")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: json or console")
	_ = a.v.BindPFlag("content.root", pf.Lookup("content"))
	_ = a.v.BindPFlag("content.characters", pf.Lookup("characters"))
	_ = a.v.BindPFlag("logging.level", pf.Lookup("log-level"))
	_ = a.v.BindPFlag("logging.format", pf.Lookup("log-format"))

	root.AddCommand(
		newDuelCmd(a),
		newRosterCmd(a),
		newRollCmd(a),
		newCastCmd(a),
		newAdvanceCmd(a),
	)
	return root
}

// load reads the config file when present, builds the Config and the logger.
// A missing file is only an error when --config was given explicitly.
func (a *app) load(cmd *cobra.Command) error {
	if a.configPath != "" {
		_, err := os.Stat(a.configPath)
		switch {
		case err == nil:
			a.v.SetConfigFile(a.configPath)
			if err := a.v.ReadInConfig(); err != nil {
				return fmt.Errorf("reading config file: %w", err)
			}
		case errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config"):
		default:
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg, err := config.LoadFromViper(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}
