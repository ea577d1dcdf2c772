package config

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// ActiveProfileKey is the persistence key holding the selected profile name.
const ActiveProfileKey = "difficulty"

// ErrProfileNotFound is returned for unknown or locked profiles.
var ErrProfileNotFound = errors.New("config: profile not found")

// KV is the flat key-value store the active profile name is persisted in.
type KV interface {
	GetItem(key string) (string, bool)
	SetItem(key, value string) error
}

// Unlocks reports whether a shop feature has been purchased.
type Unlocks interface {
	IsUnlocked(feature string) bool
}

// ProfileStore holds the difficulty profiles and the active selection.
// The first profile is the base tier and is always unlocked.
type ProfileStore struct {
	profiles []Profile
	active   int
	kv       KV
	unlocks  Unlocks
	logger   *log.Logger
}

// NewProfileStore creates a profile store and restores the persisted selection.
// A persisted profile that is unknown or locked falls back to the base tier.
func NewProfileStore(profiles []Profile, kv KV, unlocks Unlocks, logger *log.Logger) *ProfileStore {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &ProfileStore{
		profiles: profiles,
		kv:       kv,
		unlocks:  unlocks,
		logger:   logger,
	}

	if kv == nil {
		return s
	}
	name, ok := kv.GetItem(ActiveProfileKey)
	if !ok {
		return s
	}
	if i := s.index(name); i >= 0 && s.IsUnlocked(name) {
		s.active = i
		return s
	}
	s.logger.Warn("persisted profile unavailable, using base tier", "profile", name)
	s.persist()
	return s
}

// Get returns the named profile if it exists and is unlocked.
func (s *ProfileStore) Get(name string) (Profile, error) {
	i := s.index(name)
	if i < 0 || !s.IsUnlocked(name) {
		return Profile{}, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	return s.profiles[i], nil
}

// IsUnlocked reports whether the named profile may be selected.
func (s *ProfileStore) IsUnlocked(name string) bool {
	i := s.index(name)
	if i < 0 {
		return false
	}
	p := s.profiles[i]
	if i == 0 || p.Unlock == "" {
		return true
	}
	if s.unlocks == nil {
		return false
	}
	return s.unlocks.IsUnlocked(p.Unlock)
}

// SetActive switches the active profile and persists the choice.
// Returns false without changes if the profile is unknown or locked.
func (s *ProfileStore) SetActive(name string) bool {
	i := s.index(name)
	if i < 0 || !s.IsUnlocked(name) {
		return false
	}
	s.active = i
	s.persist()
	return true
}

// Active returns the active profile.
func (s *ProfileStore) Active() Profile {
	if len(s.profiles) == 0 {
		return Profile{}
	}
	return s.profiles[s.active]
}

// Names returns all profile names in tier order.
func (s *ProfileStore) Names() []string {
	names := make([]string, len(s.profiles))
	for i, p := range s.profiles {
		names[i] = p.Name
	}
	return names
}

// Profiles returns a copy of all profiles in tier order.
func (s *ProfileStore) Profiles() []Profile {
	out := make([]Profile, len(s.profiles))
	copy(out, s.profiles)
	return out
}

// Cycle moves the active profile by step to the next unlocked tier, wrapping around.
// Returns the newly active profile name.
func (s *ProfileStore) Cycle(step int) string {
	n := len(s.profiles)
	if n == 0 {
		return ""
	}
	for k := 1; k <= n; k++ {
		i := ((s.active+step*k)%n + n) % n
		if s.SetActive(s.profiles[i].Name) {
			break
		}
	}
	return s.Active().Name
}

func (s *ProfileStore) index(name string) int {
	for i, p := range s.profiles {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func (s *ProfileStore) persist() {
	if s.kv == nil {
		return
	}
	if err := s.kv.SetItem(ActiveProfileKey, s.Active().Name); err != nil {
		s.logger.Error("failed to persist profile", "err", err)
	}
}
