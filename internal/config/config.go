// Package config provides YAML-based game configuration loading and
// difficulty profile management for tui-flappy.
package config

import "time"

// Config contains all tuning for the flappy simulation.
// Units are world units (the playfield is Width x Height) and ticks at 60 Hz.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Player    PlayerConfig    `yaml:"player"`
	Obstacles ObstacleConfig  `yaml:"obstacles"`
	Pickups   PickupConfig    `yaml:"pickups"`
	Effects   EffectsConfig   `yaml:"effects"`
	Collision CollisionConfig `yaml:"collision"`
	Session   SessionConfig   `yaml:"session"`
	StartWith StartWithConfig `yaml:"start_with"`
	Ads       AdsConfig       `yaml:"ads"`
	Profiles  []Profile       `yaml:"profiles"`
	Shop      []ShopItem      `yaml:"shop"`
}

// WorldConfig defines the playfield.
type WorldConfig struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	GroundHeight float64 `yaml:"ground_height"`
}

// GroundLine returns the y coordinate of the ground surface.
func (w WorldConfig) GroundLine() float64 {
	return w.Height - w.GroundHeight
}

// PlayerConfig defines the player body.
type PlayerConfig struct {
	X        float64 `yaml:"x"` // 0 places the body at a quarter of the world width
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	FlapTilt float64 `yaml:"flap_tilt"` // rotation set on flap (radians, negative = nose up)
	TiltCap  float64 `yaml:"tilt_cap"`  // rotation stops easing down past this value
	TiltRate float64 `yaml:"tilt_rate"` // rotation added per tick while falling
}

// ObstacleConfig defines obstacle pair geometry.
type ObstacleConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	// GapMargin is the minimum distance between the gap and the playfield
	// edges. 0 uses the obstacle height.
	GapMargin float64 `yaml:"gap_margin"`
}

// SpawnChance controls the probabilistic spawning of a special pickup.
type SpawnChance struct {
	Base          float64 `yaml:"base"`
	Max           float64 `yaml:"max"`
	Step          float64 `yaml:"step"`           // growth per obstacle without a spawn
	DelayFraction float64 `yaml:"delay_fraction"` // delay as a fraction of the spawn interval
}

// Chance returns the spawn probability after the given number of misses.
func (s SpawnChance) Chance(misses int) float64 {
	p := s.Base * (1 + float64(misses)*s.Step)
	if p > s.Max {
		return s.Max
	}
	return p
}

// PickupConfig defines coins and power-up pickups.
type PickupConfig struct {
	Width         float64     `yaml:"width"`
	Height        float64     `yaml:"height"`
	CoinChance    float64     `yaml:"coin_chance"`
	FadeRate      float64     `yaml:"fade_rate"` // alpha lost per tick after collection
	RiseRate      float64     `yaml:"rise_rate"` // upward drift per tick after collection
	RegionWeights [3]float64  `yaml:"region_weights"`
	Shield        SpawnChance `yaml:"shield"`
	SpeedBoost    SpawnChance `yaml:"speed_boost"`
}

// EffectsConfig defines status effect timings in ticks.
type EffectsConfig struct {
	AbsorbWindow    float64 `yaml:"absorb_window"`
	FlashTicks      float64 `yaml:"flash_ticks"`
	FlickerEvery    float64 `yaml:"flicker_every"`
	PulseRate       float64 `yaml:"pulse_rate"`
	BoostDuration   float64 `yaml:"boost_duration"`
	BoostResidual   float64 `yaml:"boost_residual"`
	BoostMultiplier float64 `yaml:"boost_multiplier"`
}

// CollisionConfig defines the forgiveness margins applied before overlap tests.
type CollisionConfig struct {
	PlayerMargin   float64 `yaml:"player_margin"`
	ObstacleMargin float64 `yaml:"obstacle_margin"`
	PickupMargin   float64 `yaml:"pickup_margin"`
}

// SessionConfig defines session-level timings.
type SessionConfig struct {
	FallGravityScale  float64 `yaml:"fall_gravity_scale"`
	FallVelocity      float64 `yaml:"fall_velocity"`
	GameOverDelay     float64 `yaml:"game_over_delay"` // ticks between ground contact and game over
	IntroSpeed        float64 `yaml:"intro_speed"`     // game over panel animation units per tick
	IntroLength       float64 `yaml:"intro_length"`
	AutosaveEvery     float64 `yaml:"autosave_every"`
	ContinueInvuln    float64 `yaml:"continue_invuln"`
	ContinuesPerRun   int     `yaml:"continues_per_run"`
	LeaderboardLength int     `yaml:"leaderboard_length"`
}

// StartWithConfig selects which purchased power-up is active at round start.
type StartWithConfig struct {
	Shield     bool `yaml:"shield"`
	SpeedBoost bool `yaml:"speed_boost"`
}

// AdsConfig defines the local ad collaborator.
type AdsConfig struct {
	InterstitialInterval time.Duration `yaml:"interstitial_interval"`
}

// Profile is a named bundle of difficulty tuning. Immutable once loaded.
type Profile struct {
	Name            string  `yaml:"name"`
	Title           string  `yaml:"title"`
	Gravity         float64 `yaml:"gravity"`
	JumpPower       float64 `yaml:"jump_power"`
	PipeSpeed       float64 `yaml:"pipe_speed"`
	SpawnInterval   float64 `yaml:"spawn_interval"`
	GroundSpeed     float64 `yaml:"ground_speed"`
	GapHeight       float64 `yaml:"gap_height"`
	ScoreMultiplier int     `yaml:"score_multiplier"`
	CoinMultiplier  int     `yaml:"coin_multiplier"`
	// Unlock names the shop feature gating this profile. Empty means always available.
	Unlock string `yaml:"unlock"`
}

// ShopItem is a purchasable feature.
type ShopItem struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Price int    `yaml:"price"`
}

// Shop feature identifiers.
const (
	FeatureMediumDifficulty = "medium_difficulty"
	FeatureHardDifficulty   = "hard_difficulty"
	FeatureShield           = "shield"
	FeatureSpeedBoost       = "speed_boost"
)

// Item returns the shop item with the given id.
func (c Config) Item(id string) (ShopItem, bool) {
	for _, it := range c.Shop {
		if it.ID == id {
			return it, true
		}
	}
	return ShopItem{}, false
}

// PlayerX returns the horizontal position of the player body center.
func (c Config) PlayerX() float64 {
	if c.Player.X > 0 {
		return c.Player.X
	}
	return c.World.Width / 4
}

// GapMargin returns the effective spawn margin.
func (c Config) GapMargin() float64 {
	if c.Obstacles.GapMargin > 0 {
		return c.Obstacles.GapMargin
	}
	return c.Obstacles.Height
}
