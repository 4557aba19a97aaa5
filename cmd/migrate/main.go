package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	migrate "github.com/rubenv/sql-migrate"

	"github.com/johnquangdev/coreagenda/internal/infrastructure/database"
	"github.com/johnquangdev/coreagenda/pkg/config"
	pkglogger "github.com/johnquangdev/coreagenda/pkg/logger"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up, down or status")
	steps := flag.Int("steps", 0, "maximum number of migrations to apply (0 applies all)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Database.Driver != "postgres" {
		log.Fatalf("Migrations need DB_DRIVER=postgres, got %q", cfg.Database.Driver)
	}

	logger, err := pkglogger.New(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.NewPostgresDB(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	switch *direction {
	case "status":
		records, err := database.MigrationStatus(db)
		if err != nil {
			log.Fatalf("Failed to read migration status: %v", err)
		}
		if len(records) == 0 {
			fmt.Println("No migrations applied")
		}
		for _, r := range records {
			fmt.Printf("%-40s applied %s\n", r.Id, r.AppliedAt.Format("2006-01-02 15:04:05"))
		}
		return
	case "up", "down":
	default:
		log.Printf("Unknown direction %q", *direction)
		flag.Usage()
		os.Exit(2)
	}

	dir := migrate.Up
	if *direction == "down" {
		dir = migrate.Down
	}

	log.Printf("🔄 Applying %s migrations from %s ...", *direction, cfg.Database.MigrationDir)
	n, err := database.Migrate(db, cfg.Database.MigrationDir, dir, *steps)
	if err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	log.Printf("✅ Successfully applied %d migration(s)!", n)
}
