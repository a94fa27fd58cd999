package domain

import (
	"time"

	"github.com/google/uuid"
)

// Bootstrap mission titles. The availability gate sequences these two
// missions before the rest of the catalog is offered.
const (
	MissionTitleWelcome     = "Welcome to the Nexus"
	MissionTitleBehindWalls = "Behind the Walls"
)

// DefaultSuccessChance applies when a mission definition leaves success_chance unset
const DefaultSuccessChance = 50

// MissionDefinition is an immutable catalog entry authored outside the engine
type MissionDefinition struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	LevelRequirement int       `json:"level_requirement"`
	DurationHours    int       `json:"duration_hours"`
	Reward           int       `json:"reward"`
	SuccessChance    *int      `json:"success_chance,omitempty"` // 0-100, nil means DefaultSuccessChance
	SuccessMessage   string    `json:"success_message"`
	FailMessage      *string   `json:"fail_message,omitempty"`
}

// EffectiveSuccessChance returns the configured chance or the default when unset
func (m MissionDefinition) EffectiveSuccessChance() int {
	if m.SuccessChance == nil {
		return DefaultSuccessChance
	}
	return *m.SuccessChance
}

// Duration returns the mission length as a time.Duration
func (m MissionDefinition) Duration() time.Duration {
	return time.Duration(m.DurationHours) * time.Hour
}

// MissionAssignment is a user's in-progress (Completed=false) or
// resolved-success (Completed=true) instance of a mission.
type MissionAssignment struct {
	UserID    uuid.UUID `json:"user_id"`
	MissionID uuid.UUID `json:"mission_id"`
	StartedAt time.Time `json:"started_at"`
	FinishAt  time.Time `json:"finish_at"`
	Completed bool      `json:"completed"`
}

// IsActive reports whether the assignment is still awaiting resolution
func (a MissionAssignment) IsActive() bool {
	return !a.Completed
}

// NewMissionAssignment builds an active assignment starting at startedAt
func NewMissionAssignment(userID uuid.UUID, mission MissionDefinition, startedAt time.Time) MissionAssignment {
	return MissionAssignment{
		UserID:    userID,
		MissionID: mission.ID,
		StartedAt: startedAt,
		FinishAt:  startedAt.Add(mission.Duration()),
		Completed: false,
	}
}

// MissionResult is the transient outcome of a resolution roll
type MissionResult struct {
	Mission   MissionDefinition `json:"mission"`
	IsSuccess bool              `json:"is_success"`
	Message   string            `json:"message"`
	Roll      int               `json:"roll"`
}

// Profile is the slice of the user profile the mission engine reads
type Profile struct {
	UserID   uuid.UUID `json:"user_id"`
	Level    int       `json:"level"`
	Currency int       `json:"currency"`
}

// MissionTimer describes the countdown for one active assignment
type MissionTimer struct {
	MissionID          uuid.UUID     `json:"mission_id"`
	FinishAt           time.Time     `json:"finish_at"`
	Remaining          time.Duration `json:"remaining_ns"`
	FormattedRemaining string        `json:"formatted_remaining"`
	Ready              bool          `json:"ready"`
}

// MissionSnapshot is the read-only view of an engine's derived state.
// Slices are copies; mutating them has no effect on the engine.
type MissionSnapshot struct {
	UserID            uuid.UUID           `json:"user_id"`
	UserLevel         int                 `json:"user_level"`
	AvailableMissions []MissionDefinition `json:"available_missions"`
	ActiveMissions    []MissionDefinition `json:"active_missions"`
	CompletedMissions []MissionDefinition `json:"completed_missions"`
	Timers            []MissionTimer      `json:"timers"`
	LastResult        *MissionResult      `json:"last_result,omitempty"`
	ErrorMessage      string              `json:"error_message,omitempty"`
	LoadedAt          *time.Time          `json:"loaded_at,omitempty"`
	Generation        uint64              `json:"generation"`
}
