// Package config loads the arkab YAML configuration with built-in defaults
// and a content hash so audit entries can pin the exact configuration a
// decision was made under.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arkab-io/arkab/internal/alert"
)

// MemoryConfig holds memory store capacity and decay parameters.
type MemoryConfig struct {
	MaxSize       int           `yaml:"max_size"`
	HalfLifeHours float64       `yaml:"half_life_hours"`
	WeightFloor   float64       `yaml:"weight_floor"`
	DecayInterval time.Duration `yaml:"decay_interval"`
}

// HalfLife returns the half-life as a duration.
func (m MemoryConfig) HalfLife() time.Duration {
	return time.Duration(m.HalfLifeHours * float64(time.Hour))
}

// HealthConfig holds per-resource thresholds and sampling cadence.
type HealthConfig struct {
	CPUThreshold    float64       `yaml:"cpu_threshold"`
	MemoryThreshold float64       `yaml:"memory_threshold"`
	DiskThreshold   float64       `yaml:"disk_threshold"`
	SampleTimeout   time.Duration `yaml:"sample_timeout"`
	PollInterval    time.Duration `yaml:"poll_interval"`
}

// Config is the full arkab configuration.
type Config struct {
	Memory   MemoryConfig        `yaml:"memory"`
	Health   HealthConfig        `yaml:"health"`
	AuditLog string              `yaml:"audit_log"`
	Archive  string              `yaml:"archive"`
	Alerts   []alert.AlertConfig `yaml:"alerts"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Memory: MemoryConfig{
			MaxSize:       1000,
			HalfLifeHours: 24,
			WeightFloor:   0.1,
			DecayInterval: time.Hour,
		},
		Health: HealthConfig{
			CPUThreshold:    90,
			MemoryThreshold: 90,
			DiskThreshold:   90,
			SampleTimeout:   2 * time.Second,
			PollInterval:    30 * time.Second,
		},
	}
}

// Load reads a config file, filling unset fields with defaults.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg, _, err := LoadWithHash(path)
	return cfg, err
}

// LoadWithHash loads the config and returns the SHA-256 of the raw file.
// The defaults hash to "builtin".
func LoadWithHash(path string) (*Config, string, error) {
	cfg := Default()
	if path == "" {
		return cfg, "builtin", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, "", fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, "", fmt.Errorf("config %q: %w", path, err)
	}

	sum := sha256.Sum256(data)
	return cfg, "sha256:" + hex.EncodeToString(sum[:]), nil
}

func (c *Config) validate() error {
	if c.Memory.MaxSize <= 0 {
		return fmt.Errorf("memory.max_size must be positive, got %d", c.Memory.MaxSize)
	}
	if c.Memory.HalfLifeHours <= 0 {
		return fmt.Errorf("memory.half_life_hours must be positive, got %v", c.Memory.HalfLifeHours)
	}
	if c.Memory.WeightFloor <= 0 || c.Memory.WeightFloor > 1 {
		return fmt.Errorf("memory.weight_floor must be in (0, 1], got %v", c.Memory.WeightFloor)
	}
	for _, pair := range []struct {
		name  string
		value float64
	}{
		{"health.cpu_threshold", c.Health.CPUThreshold},
		{"health.memory_threshold", c.Health.MemoryThreshold},
		{"health.disk_threshold", c.Health.DiskThreshold},
	} {
		if pair.value <= 0 || pair.value > 100 {
			return fmt.Errorf("%s must be in (0, 100], got %v", pair.name, pair.value)
		}
	}
	return nil
}
