package mission

import (
	"math/rand/v2"
	"strings"

	"golang.org/x/text/cases"

	"github.com/osse101/NexusMissions_Go/internal/domain"
)

// Roller draws the resolution roll
type Roller interface {
	// Roll returns a uniform integer in [RollMin, RollMax]
	Roll() int
}

type randomRoller struct{}

// NewRandomRoller returns a Roller backed by math/rand/v2
func NewRandomRoller() Roller {
	return randomRoller{}
}

func (randomRoller) Roll() int {
	return rand.IntN(RollMax-RollMin+1) + RollMin //nolint:gosec
}

// FixedRoller always returns the same value. Used by tests and debug tooling.
type FixedRoller int

// Roll returns the fixed value
func (f FixedRoller) Roll() int {
	return int(f)
}

var placeholderFold = cases.Fold().String(FailMessagePlaceholder)

// resolveRoll turns a roll into a result for the given mission
func resolveRoll(m domain.MissionDefinition, roll int) domain.MissionResult {
	success := roll <= m.EffectiveSuccessChance()

	message := m.SuccessMessage
	if !success {
		message = failMessage(m)
	}

	return domain.MissionResult{
		Mission:   m,
		IsSuccess: success,
		Message:   message,
		Roll:      roll,
	}
}

func failMessage(m domain.MissionDefinition) string {
	if m.FailMessage == nil {
		return GenericFailMessage
	}
	msg := strings.TrimSpace(*m.FailMessage)
	if msg == "" || cases.Fold().String(msg) == placeholderFold {
		return GenericFailMessage
	}
	return *m.FailMessage
}
