// Package ads provides the local stand-in for an ad network: rewarded ads
// grant their reward immediately and interstitials are rate limited.
package ads

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Callbacks receives the outcome of a rewarded ad.
// Any field may be nil.
type Callbacks struct {
	OnRewarded func()
	OnClose    func()
	OnError    func(error)
}

// Local is an ad collaborator without a network.
type Local struct {
	mu               sync.Mutex
	minInterval      time.Duration
	lastInterstitial time.Time
	shown            int
	now              func() time.Time
	logger           *log.Logger
}

// NewLocal creates a local ad collaborator that shows at most one
// interstitial per minInterval.
func NewLocal(minInterval time.Duration, logger *log.Logger) *Local {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Local{
		minInterval: minInterval,
		now:         time.Now,
		logger:      logger,
	}
}

// ShowRewardedAd grants the reward and closes the ad.
// Returns true if the ad was shown.
func (l *Local) ShowRewardedAd(cb Callbacks) bool {
	l.logger.Debug("rewarded ad")
	if cb.OnRewarded != nil {
		cb.OnRewarded()
	}
	if cb.OnClose != nil {
		cb.OnClose()
	}
	return true
}

// ShowInterstitialAd records an interstitial unless one was shown recently.
func (l *Local) ShowInterstitialAd() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if !l.lastInterstitial.IsZero() && now.Sub(l.lastInterstitial) < l.minInterval {
		l.logger.Debug("interstitial skipped", "since", now.Sub(l.lastInterstitial))
		return
	}
	l.lastInterstitial = now
	l.shown++
	l.logger.Debug("interstitial shown", "count", l.shown)
}

// InterstitialsShown returns how many interstitials passed the rate limit.
func (l *Local) InterstitialsShown() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.shown
}
