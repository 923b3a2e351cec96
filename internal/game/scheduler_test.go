package game

import (
	"testing"
	"time"
)

func TestSchedulerOrdering(t *testing.T) {
	s := NewScheduler()
	s.Schedule(testEpoch.Add(3*time.Second), TimerRelease, 3)
	s.Schedule(testEpoch.Add(time.Second), TimerRelease, 1)
	s.Schedule(testEpoch.Add(time.Second), TimerVulnerabilityEnd, 2)
	s.Schedule(testEpoch, TimerRelease, 0)

	due := s.Due(testEpoch.Add(time.Second))
	if len(due) != 3 {
		t.Fatalf("Expected 3 due events, got %d", len(due))
	}
	wantGhosts := []int{0, 1, 2}
	for i, ev := range due {
		if ev.Ghost != wantGhosts[i] {
			t.Errorf("Event %d: expected ghost %d, got %d", i, wantGhosts[i], ev.Ghost)
		}
	}
	if s.Pending() != 1 {
		t.Errorf("Expected 1 pending, got %d", s.Pending())
	}
	if due := s.Due(testEpoch.Add(time.Second)); len(due) != 0 {
		t.Errorf("Events fired twice: %v", due)
	}
}

func TestSchedulerCancel(t *testing.T) {
	tests := []struct {
		name   string
		cancel func(s *Scheduler, ids []TimerID)
		want   int
	}{
		{"cancel one", func(s *Scheduler, ids []TimerID) { s.Cancel(ids[0]) }, 2},
		{"cancel ghost kind", func(s *Scheduler, ids []TimerID) { s.CancelGhost(1, TimerRelease) }, 2},
		{"cancel other kind", func(s *Scheduler, ids []TimerID) { s.CancelGhost(1, TimerVulnerabilityEnd) }, 3},
		{"cancel all", func(s *Scheduler, ids []TimerID) { s.CancelAll() }, 0},
		{"cancel unknown", func(s *Scheduler, ids []TimerID) { s.Cancel(999) }, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScheduler()
			ids := []TimerID{
				s.Schedule(testEpoch, TimerRelease, 0),
				s.Schedule(testEpoch, TimerRelease, 1),
				s.Schedule(testEpoch, TimerRelease, 2),
			}
			tt.cancel(s, ids)
			if got := len(s.Due(testEpoch)); got != tt.want {
				t.Errorf("Expected %d events to fire, got %d", tt.want, got)
			}
		})
	}
}

func TestTimedEffect(t *testing.T) {
	fx := NewTimedEffect(10 * time.Second)
	if fx.Active() || fx.Expired(testEpoch) {
		t.Fatal("New effect should be inactive")
	}

	fx.Start(testEpoch)
	at := testEpoch.Add(2500 * time.Millisecond)
	if !fx.ActiveAt(at) {
		t.Error("Expected effect active")
	}
	if r := fx.RemainingRatio(at); r != 0.75 {
		t.Errorf("Expected ratio 0.75, got %f", r)
	}
	if p := fx.Progress(at); p != 0.25 {
		t.Errorf("Expected progress 0.25, got %f", p)
	}

	end := testEpoch.Add(10 * time.Second)
	if !fx.Expired(end) {
		t.Error("Expected effect to expire exactly at its duration")
	}
	if !fx.ActiveAt(end) {
		t.Error("Expected effect still active at the boundary instant")
	}
	if fx.ActiveAt(end.Add(time.Millisecond)) {
		t.Error("Expected effect inactive past its duration")
	}
	if fx.Remaining(end.Add(time.Second)) != 0 {
		t.Error("Remaining should clamp at zero")
	}

	fx.Stop()
	if fx.Active() || fx.Expired(end) {
		t.Error("Stopped effect should be inactive")
	}
}
