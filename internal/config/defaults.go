package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

// DefaultYAML returns the embedded default configuration document.
func DefaultYAML() []byte {
	return defaultFlappyYAML
}

// Default returns the hardcoded configuration used when no YAML can be read.
func Default() Config {
	return Config{
		World: WorldConfig{
			Width:        480,
			Height:       640,
			GroundHeight: 112,
		},
		Player: PlayerConfig{
			Width:    34,
			Height:   24,
			FlapTilt: -0.5,
			TiltCap:  0.5,
			TiltRate: 0.1,
		},
		Obstacles: ObstacleConfig{
			Width:     52,
			Height:    320,
			GapMargin: 140,
		},
		Pickups: PickupConfig{
			Width:         24,
			Height:        24,
			CoinChance:    0.9,
			FadeRate:      0.05,
			RiseRate:      1,
			RegionWeights: [3]float64{0.3, 0.4, 0.3},
			Shield: SpawnChance{
				Base:          0.15,
				Max:           0.5,
				Step:          0.1,
				DelayFraction: 0.5,
			},
			SpeedBoost: SpawnChance{
				Base:          0.12,
				Max:           0.4,
				Step:          0.1,
				DelayFraction: 1.0 / 3.0,
			},
		},
		Effects: EffectsConfig{
			AbsorbWindow:    180,
			FlashTicks:      10,
			FlickerEvery:    8,
			PulseRate:       0.1,
			BoostDuration:   180,
			BoostResidual:   120,
			BoostMultiplier: 2.5,
		},
		Collision: CollisionConfig{
			PlayerMargin:   5,
			ObstacleMargin: 2,
			PickupMargin:   2,
		},
		Session: SessionConfig{
			FallGravityScale:  1.5,
			FallVelocity:      5,
			GameOverDelay:     18,
			IntroSpeed:        20,
			IntroLength:       1040,
			AutosaveEvery:     1800,
			ContinueInvuln:    180,
			ContinuesPerRun:   1,
			LeaderboardLength: 10,
		},
		StartWith: StartWithConfig{
			Shield: true,
		},
		Ads: AdsConfig{
			InterstitialInterval: 3 * time.Minute,
		},
		Profiles: []Profile{
			{
				Name: "easy", Title: "Easy",
				Gravity: 0.5, JumpPower: -8,
				PipeSpeed: 3, SpawnInterval: 100, GroundSpeed: 2,
				GapHeight: 120, ScoreMultiplier: 1, CoinMultiplier: 1,
			},
			{
				Name: "medium", Title: "Medium",
				Gravity: 0.65, JumpPower: -9,
				PipeSpeed: 4, SpawnInterval: 75, GroundSpeed: 2.5,
				GapHeight: 112, ScoreMultiplier: 2, CoinMultiplier: 2,
				Unlock: FeatureMediumDifficulty,
			},
			{
				Name: "hard", Title: "Hard",
				Gravity: 0.8, JumpPower: -10,
				PipeSpeed: 5, SpawnInterval: 60, GroundSpeed: 3,
				GapHeight: 104, ScoreMultiplier: 3, CoinMultiplier: 3,
				Unlock: FeatureHardDifficulty,
			},
		},
		Shop: []ShopItem{
			{ID: FeatureMediumDifficulty, Title: "Medium difficulty", Price: 500},
			{ID: FeatureHardDifficulty, Title: "Hard difficulty", Price: 3000},
			{ID: FeatureShield, Title: "Shield", Price: 10000},
			{ID: FeatureSpeedBoost, Title: "Speed boost", Price: 20000},
		},
	}
}
