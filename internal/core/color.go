package core

// Color is the role of a screen cell. The platform decides how each role
// looks, so games never pick terminal color codes themselves.
type Color uint8

// Cell roles.
const (
	ColorDefault Color = iota
	ColorGround
	ColorEdge
	ColorObstacle
	ColorPlayer
	ColorFlash
	ColorBoosted
	ColorShield
	ColorCoin
	ColorTitle
	ColorAccent
	ColorText
	ColorSelected
	ColorTier
	ColorAffordable
	ColorLocked
	ColorMuted
)
