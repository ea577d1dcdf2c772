package progress

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// syncer uploads progression snapshots in the background.
// The queue holds a single snapshot and a newer push replaces an unsent one.
type syncer struct {
	remote  RemoteSync
	timeout time.Duration
	logger  *log.Logger

	mu      sync.Mutex
	closed  bool
	pending chan Data
	done    chan struct{}
}

func newSyncer(remote RemoteSync, timeout time.Duration, logger *log.Logger) *syncer {
	s := &syncer{
		remote:  remote,
		timeout: timeout,
		logger:  logger,
		pending: make(chan Data, 1),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *syncer) run() {
	defer close(s.done)
	for data := range s.pending {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		err := s.remote.SavePlayerData(ctx, data)
		cancel()
		if err != nil {
			s.logger.Warn("remote save failed", "err", err)
		}
	}
}

// push queues data, dropping an older snapshot that has not been sent yet.
func (s *syncer) push(data Data) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.pending <- data:
		return
	default:
	}
	select {
	case <-s.pending:
	default:
	}
	select {
	case s.pending <- data:
	default:
	}
}

// close stops accepting snapshots and waits for the queued one to be sent.
func (s *syncer) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.pending)
	s.mu.Unlock()
	<-s.done
}
