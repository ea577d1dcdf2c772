package flappy

import "sort"

// Scheduler runs delayed callbacks on the simulation clock.
// Entries are polled on Advance; an entry whose guard fails when it comes
// due is dropped and its cancel callback runs instead.
type Scheduler struct {
	now     float64
	seq     int
	entries []scheduled
}

type scheduled struct {
	due    float64
	seq    int
	guard  func() bool
	fn     func()
	cancel func()
}

// Schedule registers fn to run delay ticks from now.
// guard and cancel may be nil.
func (s *Scheduler) Schedule(delay float64, guard func() bool, fn func(), cancel func()) {
	s.seq++
	s.entries = append(s.entries, scheduled{
		due:    s.now + delay,
		seq:    s.seq,
		guard:  guard,
		fn:     fn,
		cancel: cancel,
	})
}

// Advance moves the clock forward by dt and runs every due entry in due order.
// Callbacks may schedule new entries; those run on a later Advance at the earliest.
func (s *Scheduler) Advance(dt float64) {
	s.now += dt

	var due []scheduled
	pending := s.entries[:0]
	for _, e := range s.entries {
		if e.due <= s.now {
			due = append(due, e)
		} else {
			pending = append(pending, e)
		}
	}
	s.entries = pending
	if len(due) == 0 {
		return
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})
	for _, e := range due {
		if e.guard != nil && !e.guard() {
			if e.cancel != nil {
				e.cancel()
			}
			continue
		}
		e.fn()
	}
}

// Clear drops every entry, running cancel callbacks.
func (s *Scheduler) Clear() {
	entries := s.entries
	s.entries = nil
	for _, e := range entries {
		if e.cancel != nil {
			e.cancel()
		}
	}
}

// Len returns the number of waiting entries.
func (s *Scheduler) Len() int { return len(s.entries) }

// Now returns the scheduler clock in ticks.
func (s *Scheduler) Now() float64 { return s.now }
