package game

import (
	"container/heap"
	"time"
)

// TimerKind identifies what a scheduled event does when it fires.
type TimerKind uint8

const (
	// TimerRelease moves a confined adversary to the safe-zone exit.
	TimerRelease TimerKind = iota + 1
	// TimerVulnerabilityEnd clears an adversary's vulnerable flag.
	TimerVulnerabilityEnd
)

func (k TimerKind) String() string {
	switch k {
	case TimerRelease:
		return "release"
	case TimerVulnerabilityEnd:
		return "vulnerability_end"
	default:
		return "unknown"
	}
}

// TimerID is the cancel token returned by Schedule.
type TimerID uint64

// TimerEvent is a scheduled event that has come due.
type TimerEvent struct {
	ID    TimerID
	Due   time.Time
	Kind  TimerKind
	Ghost int
}

// Scheduler is a single-threaded event queue ordered by due time.
// The engine drains it at the start of each tick; it is not safe for
// concurrent use.
type Scheduler struct {
	queue  timerHeap
	live   map[TimerID]struct{}
	nextID TimerID
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{live: make(map[TimerID]struct{})}
}

// Schedule queues an event for ghost at the given time.
func (s *Scheduler) Schedule(at time.Time, kind TimerKind, ghost int) TimerID {
	s.nextID++
	ev := TimerEvent{ID: s.nextID, Due: at, Kind: kind, Ghost: ghost}
	heap.Push(&s.queue, ev)
	s.live[ev.ID] = struct{}{}
	return ev.ID
}

// Cancel drops a pending event. Unknown or already fired ids are ignored.
func (s *Scheduler) Cancel(id TimerID) {
	delete(s.live, id)
}

// CancelGhost drops every pending event of the given kind for one adversary.
func (s *Scheduler) CancelGhost(ghost int, kind TimerKind) {
	for _, ev := range s.queue {
		if ev.Ghost == ghost && ev.Kind == kind {
			s.Cancel(ev.ID)
		}
	}
}

// CancelAll drops every pending event.
func (s *Scheduler) CancelAll() {
	s.queue = s.queue[:0]
	clear(s.live)
}

// Pending returns the number of live events.
func (s *Scheduler) Pending() int {
	return len(s.live)
}

// Due pops every live event due at or before now, oldest first.
// Events with equal due times fire in scheduling order.
func (s *Scheduler) Due(now time.Time) []TimerEvent {
	var out []TimerEvent
	for len(s.queue) > 0 && !s.queue[0].Due.After(now) {
		ev := heap.Pop(&s.queue).(TimerEvent)
		if _, ok := s.live[ev.ID]; !ok {
			continue
		}
		delete(s.live, ev.ID)
		out = append(out, ev)
	}
	return out
}

type timerHeap []TimerEvent

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].Due.Equal(h[j].Due) {
		return h[i].ID < h[j].ID
	}
	return h[i].Due.Before(h[j].Due)
}
func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any)   { *h = append(*h, x.(TimerEvent)) }
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	ev := old[n-1]
	*h = old[:n-1]
	return ev
}
