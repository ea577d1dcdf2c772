package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("embedded defaults should parse: %v", err)
	}
	def := Default()

	if cfg.World != def.World {
		t.Errorf("world = %+v, expected %+v", cfg.World, def.World)
	}
	if cfg.Collision != def.Collision {
		t.Errorf("collision = %+v, expected %+v", cfg.Collision, def.Collision)
	}
	if len(cfg.Profiles) != len(def.Profiles) {
		t.Fatalf("got %d profiles, expected %d", len(cfg.Profiles), len(def.Profiles))
	}
	for i := range def.Profiles {
		if cfg.Profiles[i] != def.Profiles[i] {
			t.Errorf("profile %d = %+v, expected %+v", i, cfg.Profiles[i], def.Profiles[i])
		}
	}
	if cfg.Ads.InterstitialInterval != 3*time.Minute {
		t.Errorf("interstitial interval = %v, expected 3m", cfg.Ads.InterstitialInterval)
	}
}

func TestLoadCustomPathPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flappy.yaml")
	doc := []byte("collision:\n  player_margin: 7\nstart_with:\n  shield: false\n")
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Collision.PlayerMargin != 7 {
		t.Errorf("player margin = %v, expected 7", cfg.Collision.PlayerMargin)
	}
	if cfg.Collision.ObstacleMargin != 2 {
		t.Errorf("unset keys should keep defaults, obstacle margin = %v", cfg.Collision.ObstacleMargin)
	}
	if cfg.StartWith.Shield {
		t.Error("start_with.shield should be overridden to false")
	}
	if len(cfg.Profiles) != 3 {
		t.Errorf("profiles should keep defaults, got %d", len(cfg.Profiles))
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing custom config")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no profiles", func(c *Config) { c.Profiles = nil }},
		{"duplicate profile", func(c *Config) { c.Profiles[1].Name = c.Profiles[0].Name }},
		{"locked base tier", func(c *Config) { c.Profiles[0].Unlock = FeatureHardDifficulty }},
		{"zero interval", func(c *Config) { c.Profiles[2].SpawnInterval = 0 }},
		{"zero gap", func(c *Config) { c.Profiles[0].GapHeight = 0 }},
		{"ground taller than world", func(c *Config) { c.World.GroundHeight = c.World.Height }},
		{"zero obstacle", func(c *Config) { c.Obstacles.Width = 0 }},
	}

	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, expected ErrInvalidConfig", err)
			}
		})
	}
}

func TestSpawnChance(t *testing.T) {
	s := SpawnChance{Base: 0.15, Max: 0.5, Step: 0.1}

	tests := []struct {
		misses int
		want   float64
	}{
		{0, 0.15},
		{10, 0.3},
		{100, 0.5},
	}
	for _, tc := range tests {
		if got := s.Chance(tc.misses); got < tc.want-1e-9 || got > tc.want+1e-9 {
			t.Errorf("Chance(%d) = %v, expected %v", tc.misses, got, tc.want)
		}
	}
}

func TestDerivedValues(t *testing.T) {
	cfg := Default()
	if got := cfg.PlayerX(); got != 120 {
		t.Errorf("PlayerX() = %v, expected a quarter of the width (120)", got)
	}
	if got := cfg.World.GroundLine(); got != 528 {
		t.Errorf("GroundLine() = %v, expected 528", got)
	}

	cfg.Obstacles.GapMargin = 0
	if got := cfg.GapMargin(); got != cfg.Obstacles.Height {
		t.Errorf("GapMargin() with 0 = %v, expected obstacle height", got)
	}

	if _, ok := cfg.Item(FeatureShield); !ok {
		t.Error("shop should list the shield")
	}
	if _, ok := cfg.Item("pepper"); ok {
		t.Error("unknown item should not be found")
	}
}
