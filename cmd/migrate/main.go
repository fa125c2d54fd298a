package main

import (
	"context"
	"log"

	"collabnote-be/internal/config"
	"collabnote-be/internal/model"
	"collabnote-be/internal/pkg/logger"
	"collabnote-be/internal/repository/unitofwork"
	"collabnote-be/internal/service"
	"collabnote-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDB(cfg.Database.Driver, cfg.Database.Connection, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Step 1: Running AutoMigrate...")
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("Step 2: Ensuring special groups...")
	groups := service.NewGroupService(unitofwork.NewRepositoryFactory(db), logger.NewNopLogger())
	if err := groups.EnsureSpecialGroups(context.Background()); err != nil {
		log.Fatalf("Error: Failed to create special groups: %v", err)
	}

	log.Println("✅ Success: Database migration completed.")
}
