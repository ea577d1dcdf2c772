package flappy

import (
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// PickupKind identifies a collectible.
type PickupKind int

const (
	PickupCoin PickupKind = iota
	PickupShield
	PickupSpeedBoost
)

// String returns the name of the pickup kind.
func (k PickupKind) String() string {
	switch k {
	case PickupCoin:
		return "coin"
	case PickupShield:
		return "shield"
	case PickupSpeedBoost:
		return "speed_boost"
	default:
		return "unknown"
	}
}

// ObstaclePair is an upper and a lower obstacle around one passable gap.
type ObstaclePair struct {
	ID         int
	X          float64 // left edge
	Width      float64
	GapCenter  float64
	GapHeight  float64
	PipeHeight float64
	Passed     bool
}

// Upper returns the obstacle above the gap.
func (o ObstaclePair) Upper() core.Box {
	return core.NewBox(o.X, o.GapCenter-o.GapHeight/2-o.PipeHeight, o.Width, o.PipeHeight)
}

// Lower returns the obstacle below the gap.
func (o ObstaclePair) Lower() core.Box {
	return core.NewBox(o.X, o.GapCenter+o.GapHeight/2, o.Width, o.PipeHeight)
}

// Right returns the trailing edge of the pair.
func (o ObstaclePair) Right() float64 {
	return o.X + o.Width
}

// Pickup is a collectible. X and Y are the center.
type Pickup struct {
	ID        int
	Kind      PickupKind
	X, Y      float64
	W, H      float64
	Collected bool
	Alpha     float64
}

// Box returns the unshrunk bounds of the pickup.
func (p Pickup) Box() core.Box {
	return core.CenteredBox(p.X, p.Y, p.W, p.H)
}

// Spawner creates, moves and retires obstacles and pickups.
// Randomness comes from a seeded source so a run is reproducible.
type Spawner struct {
	rng *rand.Rand

	width      float64 // spawn x
	height     float64 // playfield height (ground line)
	margin     float64
	pipeWidth  float64
	pipeHeight float64
	gapHeight  float64
	speed      float64
	pickups    config.PickupConfig

	obstacles []ObstaclePair
	items     []Pickup
	nextID    int

	generation     int
	shieldMisses   int
	boostMisses    int
	shieldPending  bool
	boostPending   bool
	shieldUnlocked bool
	boostUnlocked  bool

	status   PlayerStatus
	deferrer Deferrer
	logger   *log.Logger
}

// NewSpawner creates a spawner for the configured playfield.
// status gates power-up spawns; deferrer schedules delayed pickups and may
// be nil, in which case pickups appear immediately.
func NewSpawner(cfg config.Config, seed int64, status PlayerStatus, deferrer Deferrer, logger *log.Logger) *Spawner {
	return &Spawner{
		rng:        rand.New(rand.NewSource(seed)),
		width:      cfg.World.Width,
		height:     cfg.World.GroundLine(),
		margin:     cfg.GapMargin(),
		pipeWidth:  cfg.Obstacles.Width,
		pipeHeight: cfg.Obstacles.Height,
		pickups:    cfg.Pickups,
		status:     status,
		deferrer:   deferrer,
		logger:     loggerOrDiscard(logger),
	}
}

// Reset removes every entity, clears the spawn counters and pending
// spawns, and reloads the power-up unlock flags.
func (s *Spawner) Reset(shieldUnlocked, boostUnlocked bool) {
	s.obstacles = s.obstacles[:0]
	s.items = s.items[:0]
	s.generation++
	s.shieldMisses = 0
	s.boostMisses = 0
	s.shieldPending = false
	s.boostPending = false
	s.shieldUnlocked = shieldUnlocked
	s.boostUnlocked = boostUnlocked
}

// SetGapHeight changes the gap of future obstacle pairs.
func (s *Spawner) SetGapHeight(h float64) { s.gapHeight = h }

// SetSpeed changes the scroll speed of every entity.
func (s *Spawner) SetSpeed(v float64) { s.speed = v }

// Speed returns the scroll speed.
func (s *Spawner) Speed() float64 { return s.speed }

// Obstacles returns the live obstacle pairs. Callers may update Passed in place.
func (s *Spawner) Obstacles() []ObstaclePair { return s.obstacles }

// Pickups returns the live pickups. Callers may update Collected in place.
func (s *Spawner) Pickups() []Pickup { return s.items }

// Pending reports whether a delayed spawn of kind is waiting.
func (s *Spawner) Pending(kind PickupKind) bool {
	switch kind {
	case PickupShield:
		return s.shieldPending
	case PickupSpeedBoost:
		return s.boostPending
	}
	return false
}

// GapRange returns the bounds of the gap center. ok is false when the
// playfield is too short for the configured gap and margins.
func (s *Spawner) GapRange() (lo, hi float64, ok bool) {
	lo = s.margin + s.gapHeight/2
	hi = s.height - s.margin - s.gapHeight/2
	return lo, hi, lo <= hi
}

// SpawnObstaclePair adds a pair at the right edge and rolls for the pickups
// that accompany it. interval is the current spawn interval and sets the
// delay of power-up spawns.
func (s *Spawner) SpawnObstaclePair(interval float64) ObstaclePair {
	center := s.height / 2
	if lo, hi, ok := s.GapRange(); ok {
		center = lo + s.rng.Float64()*(hi-lo)
	} else {
		s.logger.Debug("gap does not fit, using midpoint", "lo", lo, "hi", hi)
	}

	pair := ObstaclePair{
		ID:         s.id(),
		X:          s.width,
		Width:      s.pipeWidth,
		GapCenter:  center,
		GapHeight:  s.gapHeight,
		PipeHeight: s.pipeHeight,
	}
	s.obstacles = append(s.obstacles, pair)

	if s.rng.Float64() < s.pickups.CoinChance {
		s.items = append(s.items, s.newPickup(PickupCoin, pair.X+pair.Width/2, center))
	}

	shieldScheduled := s.rollShield(interval)
	if !shieldScheduled {
		s.rollBoost(interval)
	}
	return pair
}

func (s *Spawner) rollShield(interval float64) bool {
	if !s.shieldUnlocked || s.shieldPending || s.alive(PickupShield) {
		return false
	}
	if s.status != nil && (s.status.ShieldActive() || s.status.Invulnerable()) {
		return false
	}
	s.shieldMisses++
	if s.rng.Float64() >= s.pickups.Shield.Chance(s.shieldMisses) {
		return false
	}
	s.shieldMisses = 0
	s.shieldPending = true
	s.schedule(PickupShield, interval*s.pickups.Shield.DelayFraction)
	return true
}

func (s *Spawner) rollBoost(interval float64) bool {
	if !s.boostUnlocked || s.boostPending || s.alive(PickupSpeedBoost) {
		return false
	}
	if s.status != nil && (s.status.BoostActive() || s.status.Invulnerable()) {
		return false
	}
	s.boostMisses++
	if s.rng.Float64() >= s.pickups.SpeedBoost.Chance(s.boostMisses) {
		return false
	}
	s.boostMisses = 0
	s.boostPending = true
	s.schedule(PickupSpeedBoost, interval*s.pickups.SpeedBoost.DelayFraction)
	return true
}

func (s *Spawner) schedule(kind PickupKind, delay float64) {
	gen := s.generation
	spawn := func() {
		if gen != s.generation {
			return
		}
		s.setPending(kind, false)
		s.items = append(s.items, s.newPickup(kind, s.width+s.pickups.Width/2, s.regionY()))
	}
	if s.deferrer == nil {
		spawn()
		return
	}
	s.deferrer.Defer(delay, spawn, func() {
		if gen == s.generation {
			s.setPending(kind, false)
		}
	})
}

func (s *Spawner) setPending(kind PickupKind, v bool) {
	switch kind {
	case PickupShield:
		s.shieldPending = v
	case PickupSpeedBoost:
		s.boostPending = v
	}
}

// regionY picks the top, middle or bottom third of the playfield by weight
// and a uniform point inside it.
func (s *Spawner) regionY() float64 {
	w := s.pickups.RegionWeights
	total := w[0] + w[1] + w[2]
	band := 1
	if total > 0 {
		r := s.rng.Float64() * total
		switch {
		case r < w[0]:
			band = 0
		case r < w[0]+w[1]:
			band = 1
		default:
			band = 2
		}
	}

	third := s.height / 3
	lo := float64(band)*third + s.pickups.Height/2
	hi := float64(band+1)*third - s.pickups.Height/2
	if hi < lo {
		return float64(band)*third + third/2
	}
	return lo + s.rng.Float64()*(hi-lo)
}

func (s *Spawner) alive(kind PickupKind) bool {
	for _, it := range s.items {
		if it.Kind == kind && !it.Collected {
			return true
		}
	}
	return false
}

func (s *Spawner) newPickup(kind PickupKind, x, y float64) Pickup {
	return Pickup{
		ID:    s.id(),
		Kind:  kind,
		X:     x,
		Y:     y,
		W:     s.pickups.Width,
		H:     s.pickups.Height,
		Alpha: 1,
	}
}

func (s *Spawner) id() int {
	s.nextID++
	return s.nextID
}

// Tick scrolls every entity left and retires what is gone.
// Collected pickups fade out while drifting up.
func (s *Spawner) Tick(dt float64) {
	dx := s.speed * dt

	kept := s.obstacles[:0]
	for _, o := range s.obstacles {
		o.X -= dx
		if o.Right() >= 0 {
			kept = append(kept, o)
		}
	}
	s.obstacles = kept

	items := s.items[:0]
	for _, it := range s.items {
		it.X -= dx
		if it.Collected {
			it.Alpha -= s.pickups.FadeRate * dt
			it.Y -= s.pickups.RiseRate * dt
			if it.Alpha <= 0 {
				continue
			}
		} else if it.X+it.W/2 < 0 {
			continue
		}
		items = append(items, it)
	}
	s.items = items
}
