package main

import (
	"Recipehub-Backend/cmd/config"
	migration "Recipehub-Backend/cmd/database/migrate"
	"Recipehub-Backend/internal/utils"
	"log"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}
	if err := migration.SeedCatalogs(
		db,
		utils.GetConfig("INGREDIENTS_CSV"),
		utils.GetConfig("TAGS_CSV"),
	); err != nil {
		log.Fatalf("Catalog seeding failed: %v", err)
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("App setup failed: %v", err)
	}

	port := utils.GetConfig("APP_PORT")
	if port == "" {
		port = "8080"
	}
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
