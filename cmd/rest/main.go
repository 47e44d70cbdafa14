package main

import (
	"context"
	"log"

	"career-coach-be/internal/bootstrap"
	"career-coach-be/internal/config"
	"career-coach-be/internal/server"
	"career-coach-be/internal/tracer"
	"career-coach-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Ingest Consumer...")
		if err := container.IngestConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Ingest Consumer Error: %v", err)
		}
	}()
	if err := container.ProfileSyncService.Start(); err != nil {
		log.Printf("Background Profile Sync Error: %v", err)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
