package flappy

import (
	"math"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Resolution is the outcome of one collision pass.
type Resolution struct {
	Fatal    bool // the player died
	Bounds   bool // the player touched the ceiling or the ground
	Bounced  bool // velocity was reflected off an obstacle or a boundary
	Absorbed bool // a shield was consumed
	Coins    int
	Shields  int
	Boosts   int
}

// Resolver runs the per-tick collision checks in a fixed order:
// playfield bounds, then obstacles, then pickups.
type Resolver struct {
	margins config.CollisionConfig
	ground  float64
}

// NewResolver creates a resolver for a playfield whose ground is at ground.
func NewResolver(margins config.CollisionConfig, ground float64) *Resolver {
	return &Resolver{margins: margins, ground: ground}
}

// Resolve checks the player against the playfield, obstacles and pickups.
// Collected pickups are marked in place and reported through collect.
func (r *Resolver) Resolve(p *PlayerBody, fx *Effects, obstacles []ObstaclePair, pickups []Pickup, collect func(PickupKind)) Resolution {
	var res Resolution

	if r.bounds(p, fx, &res) {
		return res
	}
	r.obstacles(p, fx, obstacles, &res)
	if res.Fatal {
		return res
	}
	r.pickups(p, fx, pickups, collect, &res)
	return res
}

// bounds handles the ceiling and the ground. It reports whether a boundary
// was touched, which ends the pass for this tick.
func (r *Resolver) bounds(p *PlayerBody, fx *Effects, res *Resolution) bool {
	var top bool
	switch {
	case p.Top() <= 0:
		top = true
	case p.Bottom() >= r.ground:
	default:
		return false
	}

	res.Bounds = true
	if !r.protect(fx, res) {
		res.Fatal = true
		return true
	}

	speed := math.Abs(p.VY) / 2
	if top {
		p.Y = p.H / 2
		p.VY = speed
	} else {
		p.Y = r.ground - p.H/2
		p.VY = -speed
	}
	res.Bounced = true
	return true
}

func (r *Resolver) obstacles(p *PlayerBody, fx *Effects, obstacles []ObstaclePair, res *Resolution) {
	pb := p.Box().Shrink(r.margins.PlayerMargin)
	for _, o := range obstacles {
		upper := pb.Overlaps(o.Upper().Shrink(r.margins.ObstacleMargin))
		lower := !upper && pb.Overlaps(o.Lower().Shrink(r.margins.ObstacleMargin))
		if !upper && !lower {
			continue
		}

		if !fx.BoostActive() && !r.protect(fx, res) {
			res.Fatal = true
			return
		}

		speed := math.Abs(p.VY) / 2
		if upper {
			p.VY = speed
		} else {
			p.VY = -speed
		}
		res.Bounced = true
		return
	}
}

func (r *Resolver) pickups(p *PlayerBody, fx *Effects, pickups []Pickup, collect func(PickupKind), res *Resolution) {
	pb := p.Box().Shrink(r.margins.PlayerMargin)
	for i := range pickups {
		it := &pickups[i]
		if it.Collected {
			continue
		}
		switch it.Kind {
		case PickupShield:
			if fx.ShieldActive() {
				continue
			}
		case PickupSpeedBoost:
			if fx.BoostActive() {
				continue
			}
		}
		if !pb.Overlaps(it.Box().Shrink(r.margins.PickupMargin)) {
			continue
		}

		it.Collected = true
		switch it.Kind {
		case PickupCoin:
			res.Coins++
		case PickupShield:
			res.Shields++
		case PickupSpeedBoost:
			res.Boosts++
		}
		if collect != nil {
			collect(it.Kind)
		}
	}
}

// protect reports whether an otherwise fatal hit is survived. A raised
// shield is always spent first, even inside an invulnerability window.
func (r *Resolver) protect(fx *Effects, res *Resolution) bool {
	shielded := fx.ShieldActive()
	if !fx.Absorb() {
		return false
	}
	res.Absorbed = shielded
	return true
}

// Overlap reports whether a player box and an obstacle box collide after
// applying the forgiveness margins.
func (r *Resolver) Overlap(player, obstacle core.Box) bool {
	return player.Shrink(r.margins.PlayerMargin).Overlaps(obstacle.Shrink(r.margins.ObstacleMargin))
}
