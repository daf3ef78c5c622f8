// Package config provides Viper-based configuration loading for the Steelkilt
// tools.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RedisConfig holds settings for the character snapshot cache.
type RedisConfig struct {
	// Addr is the "host:port" of the Redis server.
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// KeyPrefix namespaces every key written by the cache.
	KeyPrefix string `mapstructure:"key_prefix"`
	// TTL bounds how long a cached snapshot lives. Zero keeps it forever.
	TTL time.Duration `mapstructure:"ttl"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ContentConfig locates the YAML catalogs and combatant templates.
type ContentConfig struct {
	// Root holds weapons/, armor/ and ranged/ catalog directories.
	Root string `mapstructure:"root"`
	// Spells is the spell catalog directory. Relative paths resolve against Root.
	Spells string `mapstructure:"spells"`
	// Combatants is the template directory. Relative paths resolve against Root.
	Combatants string `mapstructure:"combatants"`
	// Characters is the directory used by the YAML snapshot store.
	Characters string `mapstructure:"characters"`
}

// SpellsDir returns the spell catalog directory.
func (c ContentConfig) SpellsDir() string {
	return c.resolve(c.Spells)
}

// CombatantsDir returns the combatant template directory.
func (c ContentConfig) CombatantsDir() string {
	return c.resolve(c.Combatants)
}

// CharactersDir returns the YAML snapshot store directory.
func (c ContentConfig) CharactersDir() string {
	return c.resolve(c.Characters)
}

func (c ContentConfig) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// SimulationConfig holds duel simulation settings.
type SimulationConfig struct {
	// MaxRounds caps an automated duel.
	MaxRounds int `mapstructure:"max_rounds"`
	// Seed selects a deterministic dice source. Zero means crypto randomness.
	Seed uint64 `mapstructure:"seed"`
	// Distance is the starting separation in meters for ranged combatants.
	Distance int `mapstructure:"distance"`
	// TacticsDir is the directory of Lua tactics scripts.
	TacticsDir string `mapstructure:"tactics_dir"`
	// InstructionLimit bounds the Lua VM instructions per policy call.
	InstructionLimit int `mapstructure:"instruction_limit"`
	// DecisionTimeout bounds the wall time of one policy decision.
	DecisionTimeout time.Duration `mapstructure:"decision_timeout"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Content    ContentConfig    `mapstructure:"content"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateRedis(c.Redis); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateRedis(r RedisConfig) error {
	var errs []string
	if r.Addr == "" {
		errs = append(errs, "redis.addr must not be empty")
	}
	if r.DB < 0 || r.DB > 15 {
		errs = append(errs, fmt.Sprintf("redis.db must be 0-15, got %d", r.DB))
	}
	if r.TTL < 0 {
		errs = append(errs, "redis.ttl must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.Root == "" {
		errs = append(errs, "content.root must not be empty")
	}
	if c.Spells == "" {
		errs = append(errs, "content.spells must not be empty")
	}
	if c.Combatants == "" {
		errs = append(errs, "content.combatants must not be empty")
	}
	if c.Characters == "" {
		errs = append(errs, "content.characters must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.MaxRounds < 1 {
		errs = append(errs, fmt.Sprintf("simulation.max_rounds must be >= 1, got %d", s.MaxRounds))
	}
	if s.Distance < 0 {
		errs = append(errs, fmt.Sprintf("simulation.distance must be >= 0, got %d", s.Distance))
	}
	if s.TacticsDir == "" {
		errs = append(errs, "simulation.tactics_dir must not be empty")
	}
	if s.InstructionLimit < 1 {
		errs = append(errs, fmt.Sprintf("simulation.instruction_limit must be >= 1, got %d", s.InstructionLimit))
	}
	if s.DecisionTimeout < 0 {
		errs = append(errs, "simulation.decision_timeout must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// NewViper returns a Viper instance with defaults and STEELKILT_ environment
// overrides applied but no config file set.
//
// Postcondition: Returns a non-nil *viper.Viper.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix("STEELKILT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "steelkilt")
	v.SetDefault("database.password", "steelkilt")
	v.SetDefault("database.name", "steelkilt")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "steelkilt")
	v.SetDefault("redis.ttl", "0s")

	v.SetDefault("content.root", "content")
	v.SetDefault("content.spells", "spells")
	v.SetDefault("content.combatants", "combatants")
	v.SetDefault("content.characters", "characters")

	v.SetDefault("simulation.max_rounds", 10)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.distance", 0)
	v.SetDefault("simulation.tactics_dir", "content/tactics")
	v.SetDefault("simulation.instruction_limit", 100000)
	v.SetDefault("simulation.decision_timeout", "1s")
}
