package mission

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/osse101/NexusMissions_Go/internal/clock"
	"github.com/osse101/NexusMissions_Go/internal/domain"
)

func benchCatalog(n int) []domain.MissionDefinition {
	catalog := make([]domain.MissionDefinition, 0, n+2)
	catalog = append(catalog, def(domain.MissionTitleWelcome, 1, 1, 10), def(domain.MissionTitleBehindWalls, 1, 2, 10))
	for i := 0; i < n; i++ {
		catalog = append(catalog, def(fmt.Sprintf("Patrol %d", i), 1+i%20, 1+i%8, 5))
	}
	return catalog
}

func BenchmarkComputeAvailable(b *testing.B) {
	catalog := benchCatalog(200)
	userID := uuid.New()
	assignments := []domain.MissionAssignment{
		domain.NewMissionAssignment(userID, catalog[0], testStart),
		domain.NewMissionAssignment(userID, catalog[5], testStart),
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ComputeAvailable(catalog, assignments, 10)
	}
}

func BenchmarkEngine_LoadAllMissions(b *testing.B) {
	gw := newFakeGateway(10, benchCatalog(200)...)
	e := NewEngine(uuid.New(), Deps{Gateway: gw, Clock: clock.NewSimulatedClock(testStart)})
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := e.LoadAllMissions(ctx, 10); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSupervisor_Tick(b *testing.B) {
	userID := uuid.New()
	catalog := benchCatalog(100)
	assignments := make([]domain.MissionAssignment, 0, len(catalog))
	for _, m := range catalog {
		assignments = append(assignments, domain.NewMissionAssignment(userID, m, testStart))
	}

	s := NewSupervisor()
	s.Reset(assignments)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Tick(testStart)
	}
}
