package mission

import (
	"time"

	"github.com/google/uuid"

	"github.com/osse101/NexusMissions_Go/internal/domain"
)

type timerEntry struct {
	missionID uuid.UUID
	finishAt  time.Time
	ready     bool // result of the previous tick, used for edge detection
}

// Supervisor tracks countdowns for active assignments. It owns no
// goroutines: the caller drives it by calling Tick from a single loop.
// Not safe for concurrent use; the Engine serializes access.
type Supervisor struct {
	entries map[uuid.UUID]*timerEntry
	order   []uuid.UUID
}

// NewSupervisor creates an empty supervisor
func NewSupervisor() *Supervisor {
	return &Supervisor{
		entries: make(map[uuid.UUID]*timerEntry),
	}
}

// Reset tears down every countdown and creates one per active assignment.
// A mission that was already announced as ready with the same finish time
// keeps its flag so a reload does not announce it twice.
func (s *Supervisor) Reset(assignments []domain.MissionAssignment) {
	previous := s.entries

	s.entries = make(map[uuid.UUID]*timerEntry, len(assignments))
	s.order = s.order[:0]

	for _, a := range assignments {
		if !a.IsActive() {
			continue
		}
		entry := &timerEntry{missionID: a.MissionID, finishAt: a.FinishAt}
		if prev, ok := previous[a.MissionID]; ok && prev.ready && prev.finishAt.Equal(a.FinishAt) {
			entry.ready = true
		}
		s.entries[a.MissionID] = entry
		s.order = append(s.order, a.MissionID)
	}
}

// Tick re-evaluates readiness at now and returns the missions that crossed
// from not-ready to ready since the previous tick.
func (s *Supervisor) Tick(now time.Time) []uuid.UUID {
	var crossed []uuid.UUID
	for _, id := range s.order {
		entry := s.entries[id]
		isReady := !now.Before(entry.finishAt)
		if isReady && !entry.ready {
			crossed = append(crossed, id)
		}
		entry.ready = isReady
	}
	return crossed
}

// IsReady reports whether the mission's countdown has elapsed at now
func (s *Supervisor) IsReady(missionID uuid.UUID, now time.Time) bool {
	entry, ok := s.entries[missionID]
	if !ok {
		return false
	}
	return !now.Before(entry.finishAt)
}

// Remaining returns max(0, finishAt-now) for a tracked mission
func (s *Supervisor) Remaining(missionID uuid.UUID, now time.Time) (time.Duration, bool) {
	entry, ok := s.entries[missionID]
	if !ok {
		return 0, false
	}
	return remaining(entry.finishAt, now), true
}

// FinishAt returns the finish time of a tracked mission
func (s *Supervisor) FinishAt(missionID uuid.UUID) (time.Time, bool) {
	entry, ok := s.entries[missionID]
	if !ok {
		return time.Time{}, false
	}
	return entry.finishAt, true
}

// Timers returns a view of every countdown at now
func (s *Supervisor) Timers(now time.Time) []domain.MissionTimer {
	timers := make([]domain.MissionTimer, 0, len(s.order))
	for _, id := range s.order {
		entry := s.entries[id]
		left := remaining(entry.finishAt, now)
		timers = append(timers, domain.MissionTimer{
			MissionID:          id,
			FinishAt:           entry.finishAt,
			Remaining:          left,
			FormattedRemaining: FormatRemaining(left),
			Ready:              left == 0,
		})
	}
	return timers
}

// Len returns the number of tracked countdowns
func (s *Supervisor) Len() int {
	return len(s.order)
}

func remaining(finishAt, now time.Time) time.Duration {
	left := finishAt.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}
