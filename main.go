package main

import (
	"log"

	"grocery-price-tracker/cmd/config"
	migration "grocery-price-tracker/cmd/database/migrate"
	"grocery-price-tracker/internal/utils"
)

func main() {
	cfg, err := utils.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	db, err := config.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("error connecting to database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("error migrating database: %v", err)
	}

	app, err := config.NewApp(db, cfg)
	if err != nil {
		log.Fatalf("error creating app: %v", err)
	}

	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
