package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"collabnote-be/internal/bootstrap"
	"collabnote-be/internal/config"
	"collabnote-be/internal/server"
	"collabnote-be/internal/tracer"
	"collabnote-be/pkg/database"
)

func main() {
	// 1. Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	shutdownTracer, err := tracer.Init(context.Background(), cfg.Tracing)
	if err != nil {
		log.Printf("Tracing disabled: %v", err)
	}
	defer shutdownTracer(context.Background())

	// 2. Initialize database
	gormDB, err := database.NewGormDB(cfg.Database.Driver, cfg.Database.Connection, cfg.App.Environment != "production")
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap dependencies
	container, err := bootstrap.NewContainer(gormDB, cfg)
	if err != nil {
		log.Fatalf("Failed to bootstrap: %v", err)
	}
	defer container.Close()

	// 4. Serve until interrupted
	srv := server.New(cfg, container)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("Shutting down server...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
