package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Game configuration
	Game GameConfig `json:"game"`

	// Database configuration
	Database DatabaseConfig `json:"database"`

	// Server configuration
	Server ServerConfig `json:"server"`
}

// GameConfig holds simulation specific configuration
type GameConfig struct {
	// Seed of the simulation RNG stream
	Seed uint64 `json:"seed"`

	// Team controlled by the human manager
	UserTeamID string `json:"user_team_id"`

	// Manager display name
	ManagerName string `json:"manager_name"`

	// Calendar year of the first season (the game starts on August 1)
	StartYear int `json:"start_year"`

	// Path to the roster import file
	RosterPath string `json:"roster_path"`

	// Synthetic roster used when RosterPath does not exist
	Synthetic SyntheticRosterConfig `json:"synthetic"`

	// Wall-clock seconds per simulated day; 0 disables auto-advance
	AutoAdvanceSeconds int `json:"auto_advance_seconds"`
}

// SyntheticRosterConfig sizes the generated roster
type SyntheticRosterConfig struct {
	Leagues         int `json:"leagues"`
	GroupsPerLeague int `json:"groups_per_league"`
	TeamsPerGroup   int `json:"teams_per_group"`
	SquadSize       int `json:"squad_size"`
}

// DatabaseConfig holds snapshot storage configuration
type DatabaseConfig struct {
	// Storage driver (sqlite3 or file)
	Driver string `json:"driver"`

	// Database connection string, or file path for the file driver
	DSN string `json:"dsn"`
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	// Server port
	Port string `json:"port"`

	// Log level (debug, info, warn, error)
	LogLevel string `json:"log_level"`

	// Origins allowed by CORS
	AllowedOrigins []string `json:"allowed_origins"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Game: GameConfig{
			Seed:        20240701,
			UserTeamID:  "",
			ManagerName: "Manager",
			StartYear:   2024,
			RosterPath:  "./assets/data/roster.json",
			Synthetic: SyntheticRosterConfig{
				Leagues:         1,
				GroupsPerLeague: 1,
				TeamsPerGroup:   20,
				SquadSize:       24,
			},
			AutoAdvanceSeconds: 0,
		},
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    "./football-manager.db",
		},
		Server: ServerConfig{
			Port:           "8080",
			LogLevel:       "info",
			AllowedOrigins: []string{"*"},
		},
	}
}

// LoadConfig loads configuration from a file, then applies .env and environment overrides
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	// .env is optional
	_ = godotenv.Load()

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return config, err
	}

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := SaveConfig(config, path); err != nil {
			return config, err
		}
		overrideFromEnv(&config)
		return config, nil
	}

	// Read config file
	file, err := os.Open(path)
	if err != nil {
		return config, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return config, err
	}

	overrideFromEnv(&config)
	return config, nil
}

// overrideFromEnv lets environment variables win over file values
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("FM_SEED"); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Game.Seed = seed
		}
	}
	if v := os.Getenv("FM_USER_TEAM"); v != "" {
		cfg.Game.UserTeamID = v
	}
	if v := os.Getenv("FM_AUTO_ADVANCE"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds >= 0 {
			cfg.Game.AutoAdvanceSeconds = seconds
		}
	}
	if v := os.Getenv("FM_ROSTER"); v != "" {
		cfg.Game.RosterPath = v
	}
	if v := os.Getenv("FM_DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("FM_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("FM_PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("FM_LOG_LEVEL"); v != "" {
		cfg.Server.LogLevel = strings.ToLower(v)
	}
}

// SaveConfig saves configuration to a file
func SaveConfig(config Config, path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Create or truncate file
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	// Write config to file
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(config); err != nil {
		return err
	}

	return nil
}
