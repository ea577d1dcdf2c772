package flappy

import "github.com/vovakirdan/tui-flappy/internal/core"

// PlayerBody is the single simulated body. Y is the vertical center.
// Velocity is not clamped.
type PlayerBody struct {
	X, Y     float64
	VY       float64
	Rotation float64
	W, H     float64

	tiltCap  float64
	tiltRate float64
}

// NewPlayerBody creates a body of the given size centered at (x, y).
func NewPlayerBody(x, y, w, h, tiltCap, tiltRate float64) PlayerBody {
	return PlayerBody{X: x, Y: y, W: w, H: h, tiltCap: tiltCap, tiltRate: tiltRate}
}

// Reset puts the body back at (x, y) at rest.
func (p *PlayerBody) Reset(x, y float64) {
	p.X = x
	p.Y = y
	p.VY = 0
	p.Rotation = 0
}

// Advance integrates one step of explicit Euler motion under gravity g.
// The body tilts nose-down while falling until it reaches the tilt cap.
func (p *PlayerBody) Advance(dt, g float64) {
	p.VY += g * dt
	p.Y += p.VY * dt
	if p.VY > 0 && p.Rotation < p.tiltCap {
		p.Rotation += p.tiltRate * dt
	}
}

// Flap replaces the vertical velocity with impulse and tilts the nose up.
func (p *PlayerBody) Flap(impulse, tilt float64) {
	p.VY = impulse
	p.Rotation = tilt
}

// Box returns the unshrunk bounds of the body.
func (p *PlayerBody) Box() core.Box {
	return core.CenteredBox(p.X, p.Y, p.W, p.H)
}

// Top returns the upper edge of the body.
func (p *PlayerBody) Top() float64 { return p.Y - p.H/2 }

// Bottom returns the lower edge of the body.
func (p *PlayerBody) Bottom() float64 { return p.Y + p.H/2 }
