package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"task-companion-service/internal/adapters/repositories"
)

// dbtool initializes the database schema and optionally seeds demo tasks.
// Pass SEED_PATH="" to skip seeding.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := repositories.NewDatabase(ctx, databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, pool); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	seedPath, ok := os.LookupEnv("SEED_PATH")
	if !ok {
		seedPath = "data/seeds/tasks.json"
	}
	if seedPath == "" {
		return
	}

	log.Println("Seeding database...")
	repo := repositories.NewPostgresTaskRepository(pool)
	if err := repositories.SeedTasksFromJSON(ctx, repo, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}
