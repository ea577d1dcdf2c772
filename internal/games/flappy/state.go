package flappy

import (
	"errors"
	"fmt"
)

// State is the session phase. Exactly one is active at a time.
type State int

const (
	StateMenu State = iota
	StatePlay
	StatePause
	StateFalling
	StateGameOver
	StateShop
	StateLeaderboard
)

// String returns the upper-case name of the state.
func (s State) String() string {
	switch s {
	case StateMenu:
		return "MENU"
	case StatePlay:
		return "PLAY"
	case StatePause:
		return "PAUSE"
	case StateFalling:
		return "FALLING"
	case StateGameOver:
		return "GAMEOVER"
	case StateShop:
		return "SHOP"
	case StateLeaderboard:
		return "LEADERBOARD"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrInvalidTransition is returned for a state change outside the allowed set.
	ErrInvalidTransition = errors.New("flappy: invalid transition")
	// ErrUnknownItem is returned for a purchase of an item not in the shop.
	ErrUnknownItem = errors.New("flappy: unknown shop item")
)

var transitions = map[State][]State{
	StateMenu:        {StatePlay, StateShop, StateLeaderboard},
	StatePlay:        {StatePause, StateFalling},
	StatePause:       {StatePlay},
	StateFalling:     {StateGameOver},
	StateGameOver:    {StatePlay, StateMenu},
	StateShop:        {StateMenu},
	StateLeaderboard: {StateMenu},
}

// CanTransition reports whether from -> to is an allowed change.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
