package main

import (
	"context"
	"log"

	"eras-capsule-be/internal/bootstrap"
	"eras-capsule-be/internal/config"
	"eras-capsule-be/internal/server"
	"eras-capsule-be/internal/tracer"
	"eras-capsule-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDB(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Vault Media Pipeline...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Pipeline Error: %v", err)
		}
	}()
	go func() {
		log.Println("Background: Starting Delivery Sweeper...")
		container.DeliveryService.Run(context.Background())
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
