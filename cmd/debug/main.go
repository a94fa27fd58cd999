package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/NexusMissions_Go/internal/config"
	"github.com/osse101/NexusMissions_Go/internal/database"
	"github.com/osse101/NexusMissions_Go/internal/database/postgres"
	"github.com/osse101/NexusMissions_Go/internal/domain"
	"github.com/osse101/NexusMissions_Go/internal/mission"
)

// Prints the mission catalog and, with -user, that user's profile,
// assignments and the missions the availability gate offers them.
func main() {
	userFlag := flag.String("user", "", "user id to inspect")
	levelFlag := flag.Int("level", 0, "override the user's level")
	setLevel := flag.Int("set-level", 0, "persist a new level for -user before inspecting")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dbPool, err := database.NewPool(cfg.GetDBConnString(), 2, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := postgres.NewMissionRepository(dbPool, 0)

	catalog, err := repo.FetchCatalog(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch catalog: %v", err)
	}

	fmt.Println("--- Catalog ---")
	printMissions(catalog)

	if *userFlag == "" {
		return
	}
	userID, err := uuid.Parse(*userFlag)
	if err != nil {
		log.Fatalf("Invalid -user: %v", err)
	}

	if *setLevel > 0 {
		if err := repo.SetProfileLevel(ctx, userID, *setLevel); err != nil {
			log.Fatalf("Failed to set level: %v", err)
		}
	}

	profile, err := repo.GetProfile(ctx, userID)
	if err != nil {
		log.Fatalf("Failed to fetch profile: %v", err)
	}
	level := profile.Level
	if *levelFlag > 0 {
		level = *levelFlag
	}
	fmt.Printf("\n--- Profile ---\nlevel=%d currency=%d\n", profile.Level, profile.Currency)

	assignments, err := repo.FetchAssignments(ctx, userID)
	if err != nil {
		log.Fatalf("Failed to fetch assignments: %v", err)
	}

	fmt.Println("\n--- Assignments ---")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MISSION\tSTARTED\tFINISH\tCOMPLETED\tREMAINING")
	now := time.Now()
	for _, a := range assignments {
		remaining := mission.ReadyToCompleteText
		if a.Completed {
			remaining = "-"
		} else if left := a.FinishAt.Sub(now); left > 0 {
			remaining = mission.FormatRemaining(left)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n", a.MissionID, a.StartedAt.Format(time.RFC3339), a.FinishAt.Format(time.RFC3339), a.Completed, remaining)
	}
	w.Flush()

	fmt.Printf("\n--- Available at level %d ---\n", level)
	printMissions(mission.ComputeAvailable(catalog, assignments, level))
}

func printMissions(missions []domain.MissionDefinition) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tLEVEL\tHOURS\tREWARD\tCHANCE")
	for _, m := range missions {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d%%\n", m.ID, m.Title, m.LevelRequirement, m.DurationHours, m.Reward, m.EffectiveSuccessChance())
	}
	w.Flush()
}
