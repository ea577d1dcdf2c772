package flappy

import (
	"testing"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

func TestFlapThenGravity(t *testing.T) {
	p := NewPlayerBody(100, 300, 34, 24, 0.5, 0.1)

	p.Flap(-8, -0.5)
	p.Advance(1, 0.5)

	if p.VY != -7.5 {
		t.Errorf("VY = %v, expected -7.5", p.VY)
	}
	if p.Y != 292.5 {
		t.Errorf("Y = %v, expected 292.5", p.Y)
	}
	if p.Rotation != -0.5 {
		t.Errorf("rotation should not ease while rising, got %v", p.Rotation)
	}
}

func TestPlayerTiltCap(t *testing.T) {
	p := NewPlayerBody(100, 300, 34, 24, 0.5, 0.1)
	for i := 0; i < 50; i++ {
		p.Advance(1, 0.5)
	}
	if p.Rotation > 0.5+0.1 {
		t.Errorf("rotation %v ran past the cap", p.Rotation)
	}
	if p.Rotation < 0.5 {
		t.Errorf("rotation %v should reach the cap while falling", p.Rotation)
	}
}

func TestShrinkOverlap(t *testing.T) {
	r := NewResolver(config.CollisionConfig{PlayerMargin: 5, ObstacleMargin: 2, PickupMargin: 2}, 1000)

	tests := []struct {
		name     string
		player   core.Box
		obstacle core.Box
		want     bool
	}{
		// Player shrinks to x:[15,25], obstacle to x:[27,43].
		{"edge contact removed by margins", core.NewBox(10, 10, 20, 20), core.NewBox(25, 15, 20, 20), false},
		// Obstacle shrinks to x:[22,38], y:[17,33].
		{"clear overlap", core.NewBox(10, 10, 20, 20), core.NewBox(20, 15, 20, 20), true},
		// Shrunk edges touch at x=25.
		{"touching shrunk edges", core.NewBox(10, 10, 20, 20), core.NewBox(23, 10, 20, 20), true},
		{"far apart", core.NewBox(0, 0, 20, 20), core.NewBox(100, 100, 20, 20), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Overlap(tt.player, tt.obstacle); got != tt.want {
				t.Errorf("Overlap() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func newResolverFixture() (*Resolver, *Effects, *fakeHost) {
	host := &fakeHost{speeds: Speeds{Pipe: 3, Ground: 2, Interval: 100}}
	fx := NewEffects(config.Default().Effects, host, nil)
	r := NewResolver(config.CollisionConfig{PlayerMargin: 5, ObstacleMargin: 2, PickupMargin: 2}, 500)
	return r, fx, host
}

// obstacleAt returns a pair whose upper rectangle ends at y=100 and lower starts at y=220.
func obstacleAt(x float64) ObstaclePair {
	return ObstaclePair{ID: 1, X: x, Width: 52, GapCenter: 160, GapHeight: 120, PipeHeight: 320}
}

func TestResolveBounds(t *testing.T) {
	t.Run("ground is fatal", func(t *testing.T) {
		r, fx, _ := newResolverFixture()
		p := NewPlayerBody(100, 495, 34, 24, 0.5, 0.1)
		res := r.Resolve(&p, fx, nil, nil, nil)
		if !res.Fatal || !res.Bounds {
			t.Errorf("resolution = %+v, expected fatal bounds hit", res)
		}
	})

	t.Run("shield absorbs ceiling", func(t *testing.T) {
		r, fx, _ := newResolverFixture()
		fx.ActivateShield(0)
		p := NewPlayerBody(100, 5, 34, 24, 0.5, 0.1)
		p.VY = -8
		res := r.Resolve(&p, fx, nil, nil, nil)

		if res.Fatal || !res.Absorbed || !res.Bounced {
			t.Fatalf("resolution = %+v, expected absorbed bounce", res)
		}
		if p.Top() != 0 {
			t.Errorf("player top = %v, expected clamp to 0", p.Top())
		}
		if p.VY != 4 {
			t.Errorf("VY = %v, expected +4 (half magnitude, away from ceiling)", p.VY)
		}
		if fx.ShieldActive() || !fx.Invulnerable() {
			t.Error("shield should be consumed into invulnerability")
		}
	})

	t.Run("invulnerable ground bounce consumes nothing", func(t *testing.T) {
		r, fx, _ := newResolverFixture()
		fx.GrantInvulnerability(60)
		p := NewPlayerBody(100, 495, 34, 24, 0.5, 0.1)
		p.VY = 6
		res := r.Resolve(&p, fx, nil, nil, nil)

		if res.Fatal || res.Absorbed {
			t.Fatalf("resolution = %+v, expected passthrough", res)
		}
		if p.Bottom() != 500 || p.VY != -3 {
			t.Errorf("bottom=%v VY=%v, expected clamp to 500 and VY -3", p.Bottom(), p.VY)
		}
	})

	t.Run("bounds stop the pass", func(t *testing.T) {
		r, fx, _ := newResolverFixture()
		fx.GrantInvulnerability(60)
		p := NewPlayerBody(100, 495, 34, 24, 0.5, 0.1)
		pickups := []Pickup{{ID: 1, Kind: PickupCoin, X: 100, Y: 488, W: 24, H: 24, Alpha: 1}}
		res := r.Resolve(&p, fx, nil, pickups, nil)
		if res.Coins != 0 || pickups[0].Collected {
			t.Error("pickups should not be checked after a bounds event")
		}
	})
}

func TestResolveObstacles(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(fx *Effects)
		y, vy    float64
		fatal    bool
		absorbed bool
		wantVY   float64
	}{
		{"unprotected hit is fatal", func(*Effects) {}, 95, -6, true, false, -6},
		{"boost bounces down off the upper obstacle", func(fx *Effects) { fx.ActivateBoost() }, 95, -6, false, false, 3},
		{"shield bounces up off the lower obstacle", func(fx *Effects) { fx.ActivateShield(0) }, 225, 6, false, true, -3},
		{"invulnerable passes without absorbing", func(fx *Effects) { fx.GrantInvulnerability(10) }, 225, 6, false, false, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, fx, _ := newResolverFixture()
			tt.setup(fx)
			p := NewPlayerBody(120, tt.y, 34, 24, 0.5, 0.1)
			p.VY = tt.vy

			res := r.Resolve(&p, fx, []ObstaclePair{obstacleAt(100)}, nil, nil)
			if res.Fatal != tt.fatal || res.Absorbed != tt.absorbed {
				t.Fatalf("resolution = %+v", res)
			}
			if p.VY != tt.wantVY {
				t.Errorf("VY = %v, expected %v", p.VY, tt.wantVY)
			}
		})
	}
}

func TestResolveBoostKeepsShield(t *testing.T) {
	r, fx, _ := newResolverFixture()
	fx.ActivateShield(0)
	fx.ActivateBoost()
	p := NewPlayerBody(120, 95, 34, 24, 0.5, 0.1)

	res := r.Resolve(&p, fx, []ObstaclePair{obstacleAt(100)}, nil, nil)
	if res.Fatal || res.Absorbed || !fx.ShieldActive() {
		t.Errorf("boost should bypass obstacles without using the shield: %+v", res)
	}
}

func TestResolveShieldDuringResidualWindow(t *testing.T) {
	r, fx, _ := newResolverFixture()
	fx.ActivateBoost()
	fx.DeactivateBoost()
	fx.ActivateShield(0)
	fx.Tick(1)
	if !fx.Invulnerable() || !fx.ShieldActive() {
		t.Fatal("expected a shield inside the residual window")
	}

	p := NewPlayerBody(120, 225, 34, 24, 0.5, 0.1)
	p.VY = 6
	res := r.Resolve(&p, fx, []ObstaclePair{obstacleAt(100)}, nil, nil)
	if res.Fatal || !res.Absorbed {
		t.Fatalf("resolution = %+v, expected the shield to absorb the hit", res)
	}
	if fx.ShieldActive() {
		t.Fatal("shield should be consumed by the first hit")
	}

	for i := 0; i < 200; i++ {
		fx.Tick(1)
	}
	if fx.Invulnerable() {
		t.Fatal("invulnerability should end with the absorb window")
	}
	p = NewPlayerBody(120, 225, 34, 24, 0.5, 0.1)
	if res := r.Resolve(&p, fx, []ObstaclePair{obstacleAt(100)}, nil, nil); !res.Fatal {
		t.Errorf("resolution = %+v, expected the next hit to be fatal", res)
	}
}

func TestResolvePickups(t *testing.T) {
	r, fx, _ := newResolverFixture()
	p := NewPlayerBody(100, 160, 34, 24, 0.5, 0.1)
	pickups := []Pickup{
		{ID: 1, Kind: PickupCoin, X: 100, Y: 160, W: 24, H: 24, Alpha: 1},
		{ID: 2, Kind: PickupShield, X: 105, Y: 160, W: 24, H: 24, Alpha: 1},
		{ID: 3, Kind: PickupCoin, X: 300, Y: 160, W: 24, H: 24, Alpha: 1},
	}

	var got []PickupKind
	collect := func(k PickupKind) {
		got = append(got, k)
		if k == PickupShield {
			fx.ActivateShield(0)
		}
	}
	res := r.Resolve(&p, fx, nil, pickups, collect)

	if res.Coins != 1 || res.Shields != 1 {
		t.Errorf("resolution = %+v, expected one coin and one shield", res)
	}
	if !pickups[0].Collected || !pickups[1].Collected || pickups[2].Collected {
		t.Errorf("collected flags = %v %v %v", pickups[0].Collected, pickups[1].Collected, pickups[2].Collected)
	}
	if len(got) != 2 {
		t.Errorf("callbacks = %v", got)
	}

	// A second shield is not collectible while one is active.
	more := []Pickup{{ID: 4, Kind: PickupShield, X: 100, Y: 160, W: 24, H: 24, Alpha: 1}}
	res = r.Resolve(&p, fx, nil, more, collect)
	if res.Shields != 0 || more[0].Collected {
		t.Error("shield pickup should be ignored while shielded")
	}

	// Already collected pickups are never collected twice.
	res = r.Resolve(&p, fx, nil, pickups, collect)
	if res.Coins != 0 {
		t.Error("collected coin counted twice")
	}
}
