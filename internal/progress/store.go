// Package progress tracks the player's persistent progression: best score,
// coin balance and purchased shop features. Every change is written to a
// local key-value store and mirrored to an optional remote save slot.
package progress

import (
	"context"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
)

// Persistence keys.
const (
	KeyBestScore  = "bestScore"
	KeyCoins      = "coins"
	ShopKeyPrefix = "shop_"
)

// ErrNoRemoteData is returned by RemoteSync implementations for players without a save.
var ErrNoRemoteData = errors.New("progress: no remote data")

// Data is a snapshot of the player's progression.
type Data struct {
	BestScore int
	Coins     int
	Unlocked  map[string]bool
}

// Clone returns a deep copy of d.
func (d Data) Clone() Data {
	out := Data{BestScore: d.BestScore, Coins: d.Coins, Unlocked: make(map[string]bool, len(d.Unlocked))}
	for k, v := range d.Unlocked {
		out.Unlocked[k] = v
	}
	return out
}

// KV is the local flat key-value store.
type KV interface {
	GetItem(key string) (string, bool)
	SetItem(key, value string) error
}

// RemoteSync is an optional remote save slot. Calls are best-effort.
type RemoteSync interface {
	LoadPlayerData(ctx context.Context) (Data, error)
	SavePlayerData(ctx context.Context, data Data) error
}

// Options configures a Store.
type Options struct {
	Remote      RemoteSync    // nil keeps progression local-only
	SyncTimeout time.Duration // per remote call, default 5s
	Logger      *log.Logger
}

// Store owns the progression state. It is not safe for concurrent use;
// the remote worker only ever sees copies.
type Store struct {
	kv       KV
	features []string
	data     Data
	syncer   *syncer
	remote   RemoteSync
	timeout  time.Duration
	logger   *log.Logger
}

// NewStore loads progression for the given shop features from kv.
func NewStore(kv KV, features []string, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	timeout := opts.SyncTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	s := &Store{
		kv:       kv,
		features: features,
		remote:   opts.Remote,
		timeout:  timeout,
		logger:   logger,
	}
	s.load()
	if opts.Remote != nil {
		s.syncer = newSyncer(opts.Remote, timeout, logger)
	}
	return s
}

func (s *Store) load() {
	s.data = Data{Unlocked: make(map[string]bool, len(s.features))}
	if s.kv == nil {
		return
	}
	s.data.BestScore = s.readInt(KeyBestScore)
	s.data.Coins = s.readInt(KeyCoins)
	for _, f := range s.features {
		v, _ := s.kv.GetItem(ShopKeyPrefix + f)
		s.data.Unlocked[f] = v == "true"
	}
}

func (s *Store) readInt(key string) int {
	v, ok := s.kv.GetItem(key)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		s.logger.Warn("ignoring malformed value", "key", key, "value", v)
		return 0
	}
	return n
}

// Data returns a copy of the current progression.
func (s *Store) Data() Data {
	return s.data.Clone()
}

// BestScore returns the best recorded score.
func (s *Store) BestScore() int { return s.data.BestScore }

// Coins returns the coin balance.
func (s *Store) Coins() int { return s.data.Coins }

// IsUnlocked reports whether a shop feature was purchased.
func (s *Store) IsUnlocked(feature string) bool {
	return s.data.Unlocked[feature]
}

// AddCoins adds n coins to the balance.
func (s *Store) AddCoins(n int) {
	if n == 0 {
		return
	}
	s.data.Coins += n
	s.set(KeyCoins, strconv.Itoa(s.data.Coins))
	s.push()
}

// RecordScore stores score as the best score if it beats the previous one.
// Returns true for a new best.
func (s *Store) RecordScore(score int) bool {
	if score <= s.data.BestScore {
		return false
	}
	s.data.BestScore = score
	s.set(KeyBestScore, strconv.Itoa(score))
	s.push()
	return true
}

// Purchase unlocks feature for price coins.
// Returns false without changes if it is already unlocked or unaffordable.
func (s *Store) Purchase(feature string, price int) bool {
	if s.data.Unlocked[feature] || s.data.Coins < price {
		return false
	}
	s.data.Coins -= price
	s.data.Unlocked[feature] = true
	s.set(KeyCoins, strconv.Itoa(s.data.Coins))
	s.set(ShopKeyPrefix+feature, "true")
	s.push()
	return true
}

// Save writes the full progression to the local store and the remote slot.
func (s *Store) Save() {
	s.set(KeyBestScore, strconv.Itoa(s.data.BestScore))
	s.set(KeyCoins, strconv.Itoa(s.data.Coins))
	for _, f := range s.features {
		s.set(ShopKeyPrefix+f, strconv.FormatBool(s.data.Unlocked[f]))
	}
	s.push()
}

// SyncFromRemote merges the remote save into local progression.
// The best score keeps the higher value, coins take the remote balance and
// unlocks are merged. A player without a remote save uploads the local state.
func (s *Store) SyncFromRemote(ctx context.Context) error {
	if s.remote == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	remote, err := s.remote.LoadPlayerData(ctx)
	if errors.Is(err, ErrNoRemoteData) {
		s.push()
		return nil
	}
	if err != nil {
		return err
	}

	if remote.BestScore > s.data.BestScore {
		s.data.BestScore = remote.BestScore
	}
	s.data.Coins = remote.Coins
	for f, ok := range remote.Unlocked {
		if ok {
			s.data.Unlocked[f] = true
		}
	}
	s.logger.Debug("merged remote progression", "best", s.data.BestScore, "coins", s.data.Coins)
	s.Save()
	return nil
}

// Close flushes pending remote saves and stops the worker.
func (s *Store) Close() {
	if s.syncer != nil {
		s.syncer.close()
	}
}

func (s *Store) set(key, value string) {
	if s.kv == nil {
		return
	}
	if err := s.kv.SetItem(key, value); err != nil {
		s.logger.Error("failed to persist progression", "key", key, "err", err)
	}
}

func (s *Store) push() {
	if s.syncer != nil {
		s.syncer.push(s.data.Clone())
	}
}
