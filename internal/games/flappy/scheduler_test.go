package flappy

import "testing"

func TestSchedulerRunsInDueOrder(t *testing.T) {
	var s Scheduler
	var order []string

	s.Schedule(10, nil, func() { order = append(order, "late") }, nil)
	s.Schedule(5, nil, func() { order = append(order, "early") }, nil)
	s.Schedule(5, nil, func() { order = append(order, "early-second") }, nil)

	s.Advance(4)
	if len(order) != 0 {
		t.Fatalf("ran too soon: %v", order)
	}
	s.Advance(20)
	want := []string{"early", "early-second", "late"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, expected %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order = %v, expected %v", order, want)
			break
		}
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after all entries ran", s.Len())
	}
}

func TestSchedulerGuardCancels(t *testing.T) {
	var s Scheduler
	ran, cancelled := false, false
	valid := true

	s.Schedule(3, func() bool { return valid },
		func() { ran = true },
		func() { cancelled = true })

	valid = false
	s.Advance(3)
	if ran || !cancelled {
		t.Errorf("ran=%v cancelled=%v, expected only the cancel callback", ran, cancelled)
	}
}

func TestSchedulerCallbackSchedulesLater(t *testing.T) {
	var s Scheduler
	count := 0
	s.Schedule(1, nil, func() {
		count++
		s.Schedule(0, nil, func() { count++ }, nil)
	}, nil)

	s.Advance(1)
	if count != 1 {
		t.Fatalf("count = %d, entries added during Advance should wait", count)
	}
	s.Advance(0)
	if count != 2 {
		t.Errorf("count = %d, expected the follow-up to run", count)
	}
}

func TestSchedulerClear(t *testing.T) {
	var s Scheduler
	cancelled := 0
	for i := 0; i < 3; i++ {
		s.Schedule(float64(i), nil, func() { t.Error("cleared entry ran") }, func() { cancelled++ })
	}
	s.Clear()
	s.Advance(10)
	if cancelled != 3 || s.Len() != 0 {
		t.Errorf("cancelled=%d len=%d", cancelled, s.Len())
	}
}
