package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/NexusMissions_Go/internal/bootstrap"
	"github.com/osse101/NexusMissions_Go/internal/config"
	"github.com/osse101/NexusMissions_Go/internal/database"
	"github.com/osse101/NexusMissions_Go/internal/database/postgres"
	"github.com/osse101/NexusMissions_Go/migrations"
)

// Drops and recreates the configured database, applies migrations and
// seeds the mission catalog.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to reset a production database")
	}

	ctx := context.Background()

	serverConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort)

	serverPool, err := database.NewPool(serverConnString, 2, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL server: %v", err)
	}

	dbIdent := pgx.Identifier{cfg.DBName}.Sanitize()

	log.Printf("Terminating existing connections to database %s...", cfg.DBName)
	if _, err := serverPool.Exec(ctx, `
		SELECT pg_terminate_backend(pid)
		FROM pg_stat_activity
		WHERE datname = $1 AND pid <> pg_backend_pid()`, cfg.DBName); err != nil {
		log.Printf("Warning: Failed to terminate connections: %v", err)
	}

	log.Printf("Dropping database %s if it exists...", cfg.DBName)
	if _, err := serverPool.Exec(ctx, "DROP DATABASE IF EXISTS "+dbIdent); err != nil {
		log.Fatalf("Failed to drop database: %v", err)
	}

	log.Printf("Creating database %s...", cfg.DBName)
	if _, err := serverPool.Exec(ctx, "CREATE DATABASE "+dbIdent); err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	serverPool.Close()

	dbPool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	if err := database.Migrate(ctx, dbPool, migrations.FS); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	repo := postgres.NewMissionRepository(dbPool, 0)
	if err := bootstrap.SyncMissionCatalog(ctx, cfg.MissionCatalogPath, repo); err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	log.Println("✅ Database reset complete")
}
