package mission

import (
	"github.com/google/uuid"

	"github.com/osse101/NexusMissions_Go/internal/domain"
)

// ComputeAvailable decides which missions are offered to a user.
//
// Rules are evaluated top-down and short-circuit:
//  1. "Welcome to the Nexus" unclaimed: it is the only offer.
//  2. "Behind the Walls" unclaimed: offered alone, or nothing at all while
//     "Welcome to the Nexus" is still active.
//  3. Otherwise every unclaimed mission with LevelRequirement <= userLevel.
//
// A mission is claimed when the user holds an assignment row for it,
// active or completed. If both bootstrap missions are missing from the
// catalog the gate falls through to plain level gating.
func ComputeAvailable(catalog []domain.MissionDefinition, assignments []domain.MissionAssignment, userLevel int) []domain.MissionDefinition {
	byMission := indexAssignments(assignments)

	unclaimed := make([]domain.MissionDefinition, 0, len(catalog))
	for _, m := range catalog {
		if _, claimed := byMission[m.ID]; !claimed {
			unclaimed = append(unclaimed, m)
		}
	}

	if welcome, ok := findByTitle(unclaimed, domain.MissionTitleWelcome); ok {
		return []domain.MissionDefinition{welcome}
	}

	if behind, ok := findByTitle(unclaimed, domain.MissionTitleBehindWalls); ok {
		if welcome, ok := findByTitle(catalog, domain.MissionTitleWelcome); ok {
			if a, held := byMission[welcome.ID]; held && a.IsActive() {
				return []domain.MissionDefinition{}
			}
		}
		return []domain.MissionDefinition{behind}
	}

	available := make([]domain.MissionDefinition, 0, len(unclaimed))
	for _, m := range unclaimed {
		if m.LevelRequirement <= userLevel {
			available = append(available, m)
		}
	}
	return available
}

// partition splits the catalog into active, completed and unclaimed
// definitions. Assignments referencing missions missing from the catalog
// are ignored.
func partition(catalog []domain.MissionDefinition, assignments []domain.MissionAssignment) (active, completed, unclaimed []domain.MissionDefinition) {
	byMission := indexAssignments(assignments)

	active = make([]domain.MissionDefinition, 0)
	completed = make([]domain.MissionDefinition, 0)
	unclaimed = make([]domain.MissionDefinition, 0, len(catalog))

	for _, m := range catalog {
		a, held := byMission[m.ID]
		switch {
		case !held:
			unclaimed = append(unclaimed, m)
		case a.Completed:
			completed = append(completed, m)
		default:
			active = append(active, m)
		}
	}
	return active, completed, unclaimed
}

func indexAssignments(assignments []domain.MissionAssignment) map[uuid.UUID]domain.MissionAssignment {
	idx := make(map[uuid.UUID]domain.MissionAssignment, len(assignments))
	for _, a := range assignments {
		idx[a.MissionID] = a
	}
	return idx
}

func findByTitle(missions []domain.MissionDefinition, title string) (domain.MissionDefinition, bool) {
	for _, m := range missions {
		if m.Title == title {
			return m, true
		}
	}
	return domain.MissionDefinition{}, false
}

func findByID(missions []domain.MissionDefinition, id uuid.UUID) (domain.MissionDefinition, bool) {
	for _, m := range missions {
		if m.ID == id {
			return m, true
		}
	}
	return domain.MissionDefinition{}, false
}
