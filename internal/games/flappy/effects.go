package flappy

import (
	"math"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

// Effects tracks the shield and speed boost status of the player.
//
// Invulnerability is a single latched flag. Shield absorption, an active
// boost, the post-boost residual window and a continue grant all set it,
// and it is cleared in one place at the end of Tick once every window has
// expired. A raised shield does not hold the flag: it protects by being
// consumed.
type Effects struct {
	cfg   config.EffectsConfig
	host  SpeedHost
	audio AudioCues

	shield       bool
	shieldTimed  bool
	shieldLeft   float64
	absorbLeft   float64
	invulnerable bool
	boost        bool
	boostLeft    float64
	residualLeft float64
	saved        Speeds
	flashLeft    float64
	flickerClock float64
	alpha        float64
	pulse        float64
}

// EffectsView is the read-only visual state of the effects.
type EffectsView struct {
	ShieldActive bool
	BoostActive  bool
	Invulnerable bool
	Alpha        float64 // player opacity; drops while flickering
	Flash        bool    // one-shot flash after a shield absorbs a hit
	ShieldPulse  float64 // shield halo scale, oscillates around 1
	Boosted      bool    // player drawn with the boosted sprite
}

// NewEffects creates an effect engine that scales speeds through host.
func NewEffects(cfg config.EffectsConfig, host SpeedHost, audio AudioCues) *Effects {
	return &Effects{cfg: cfg, host: host, audio: audioOrNop(audio), alpha: 1}
}

// Reset clears every effect without touching the host speeds.
func (e *Effects) Reset() {
	*e = Effects{cfg: e.cfg, host: e.host, audio: e.audio, alpha: 1}
}

// ShieldActive reports whether a shield is up.
func (e *Effects) ShieldActive() bool { return e.shield }

// BoostActive reports whether a speed boost is running.
func (e *Effects) BoostActive() bool { return e.boost }

// Invulnerable reports whether fatal outcomes are suppressed.
func (e *Effects) Invulnerable() bool { return e.invulnerable }

// ResidualLeft returns the ticks left in the post-boost window.
func (e *Effects) ResidualLeft() float64 { return e.residualLeft }

// ActivateShield raises the shield for duration ticks, 0 meaning until it absorbs a hit.
func (e *Effects) ActivateShield(duration float64) {
	e.shield = true
	e.shieldTimed = duration > 0
	e.shieldLeft = duration
	e.pulse = 0
	e.audio.Play(CuePoint)
}

// DeactivateShield drops the shield.
func (e *Effects) DeactivateShield() {
	e.shield = false
	e.shieldTimed = false
	e.shieldLeft = 0
}

// Absorb is called on an otherwise fatal collision and reports whether it
// was absorbed. An active shield is consumed and opens an invulnerability
// window, also when the player is already invulnerable. Without a shield,
// invulnerability absorbs without consuming anything.
func (e *Effects) Absorb() bool {
	if e.shield {
		e.DeactivateShield()
		e.absorbLeft = e.cfg.AbsorbWindow
		e.invulnerable = true
		e.flashLeft = e.cfg.FlashTicks
		e.audio.Play(CueHit)
		return true
	}
	return e.invulnerable
}

// GrantInvulnerability makes the player invulnerable for ticks.
func (e *Effects) GrantInvulnerability(ticks float64) {
	if ticks <= 0 {
		return
	}
	e.invulnerable = true
	if ticks > e.absorbLeft {
		e.absorbLeft = ticks
	}
}

// ActivateBoost scales the host speeds by the boost multiplier for the
// boost duration. A running boost only gets its timer refreshed.
func (e *Effects) ActivateBoost() {
	if e.boost {
		e.boostLeft = e.cfg.BoostDuration
		return
	}

	m := e.cfg.BoostMultiplier
	if m <= 0 {
		m = 1
	}
	e.saved = e.host.Speeds()
	boosted := Speeds{
		Pipe:     e.saved.Pipe * m,
		Ground:   e.saved.Ground * m,
		Interval: e.saved.Interval / m,
	}
	e.host.SetSpeeds(boosted)
	e.rescale(e.saved.Interval, boosted.Interval)

	e.boost = true
	e.boostLeft = e.cfg.BoostDuration
	e.residualLeft = 0
	e.invulnerable = true
	e.audio.Play(CuePoint)
}

// DeactivateBoost restores the speeds saved at activation and opens the
// residual invulnerability window.
func (e *Effects) DeactivateBoost() {
	if !e.boost {
		return
	}
	current := e.host.Speeds()
	e.host.SetSpeeds(e.saved)
	e.rescale(current.Interval, e.saved.Interval)

	e.boost = false
	e.boostLeft = 0
	e.residualLeft = e.cfg.BoostResidual
	e.flickerClock = 0
}

func (e *Effects) rescale(oldInterval, newInterval float64) {
	if oldInterval > 0 {
		e.host.RescaleSpawnTimer(newInterval / oldInterval)
	}
}

// Tick advances every timer by dt.
func (e *Effects) Tick(dt float64) {
	if e.shield {
		e.pulse += e.cfg.PulseRate * dt
		if e.shieldTimed {
			e.shieldLeft -= dt
			if e.shieldLeft <= 0 {
				e.DeactivateShield()
			}
		}
	}

	if e.flashLeft > 0 {
		e.flashLeft -= dt
	}

	flicker := false
	if e.absorbLeft > 0 {
		e.absorbLeft -= dt
		flicker = true
	}

	if e.boost {
		e.boostLeft -= dt
		if e.boostLeft <= 0 {
			e.DeactivateBoost()
		}
	} else if e.residualLeft > 0 {
		e.residualLeft -= dt
		flicker = true
	}

	if flicker {
		e.flickerClock += dt
		e.alpha = 1
		if e.cfg.FlickerEvery > 0 && int(e.flickerClock/e.cfg.FlickerEvery)%2 == 1 {
			e.alpha = 0.3
		}
	}

	e.settle()
}

// settle clears invulnerability once no source holds it.
func (e *Effects) settle() {
	if !e.invulnerable {
		return
	}
	if e.boost || e.absorbLeft > 0 || e.residualLeft > 0 {
		return
	}
	e.invulnerable = false
	e.flickerClock = 0
	e.alpha = 1
}

// View returns the visual state.
func (e *Effects) View() EffectsView {
	v := EffectsView{
		ShieldActive: e.shield,
		BoostActive:  e.boost,
		Invulnerable: e.invulnerable,
		Alpha:        e.alpha,
		Flash:        e.flashLeft > 0,
		Boosted:      e.boost,
		ShieldPulse:  1,
	}
	if e.shield {
		v.ShieldPulse = 1 + 0.1*math.Sin(e.pulse)
	}
	return v
}
