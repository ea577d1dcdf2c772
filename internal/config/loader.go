package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate for unusable configurations.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Load loads the game configuration.
// Search order: customPath -> ~/.tui-flappy/configs/flappy.yaml -> ./configs/flappy.yaml -> embedded default.
// Keys missing from a file keep their default values.
func Load(customPath string) (Config, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return Config{}, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("flappy.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "flappy.yaml")); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultFlappyYAML)
	if err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes a YAML document on top of the hardcoded defaults and validates it.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration can drive a session.
func (c Config) Validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("%w: world size must be positive", ErrInvalidConfig)
	}
	if c.World.GroundHeight < 0 || c.World.GroundHeight >= c.World.Height {
		return fmt.Errorf("%w: ground height %.0f outside world", ErrInvalidConfig, c.World.GroundHeight)
	}
	if c.Player.Width <= 0 || c.Player.Height <= 0 {
		return fmt.Errorf("%w: player size must be positive", ErrInvalidConfig)
	}
	if c.Obstacles.Width <= 0 || c.Obstacles.Height <= 0 {
		return fmt.Errorf("%w: obstacle size must be positive", ErrInvalidConfig)
	}
	if len(c.Profiles) == 0 {
		return fmt.Errorf("%w: no difficulty profiles", ErrInvalidConfig)
	}
	if c.Profiles[0].Unlock != "" {
		return fmt.Errorf("%w: base profile %q cannot require an unlock", ErrInvalidConfig, c.Profiles[0].Name)
	}

	seen := make(map[string]bool, len(c.Profiles))
	for _, p := range c.Profiles {
		if p.Name == "" {
			return fmt.Errorf("%w: profile without a name", ErrInvalidConfig)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate profile %q", ErrInvalidConfig, p.Name)
		}
		seen[p.Name] = true
		if p.SpawnInterval <= 0 {
			return fmt.Errorf("%w: profile %q needs a positive spawn interval", ErrInvalidConfig, p.Name)
		}
		if p.GapHeight <= 0 {
			return fmt.Errorf("%w: profile %q needs a positive gap height", ErrInvalidConfig, p.Name)
		}
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tui-flappy", "configs", filename)
}
