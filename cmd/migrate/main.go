package main

import (
	"context"
	"log"
	"os"

	"starter-coach-be/internal/entity"
	"starter-coach-be/internal/pkg/logger"
	"starter-coach-be/internal/repository/implementation"
	"starter-coach-be/internal/repository/specification"
	"starter-coach-be/pkg/database"

	"github.com/joho/godotenv"
)

// Creates or updates the completion_events table used by LOG_BACKEND=postgres.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Running AutoMigrate for completion_events...")
	repo := implementation.NewCompletionEventRepository(db, logger.NewNopLogger())
	if err := repo.Migrate(); err != nil {
		log.Fatalf("Error: Migration failed: %v", err)
	}

	ctx := context.Background()
	for _, v := range entity.Variants {
		n, err := repo.Count(ctx, specification.ByVariant{Variant: string(v)})
		if err != nil {
			log.Printf("Warn: Failed to count variant %s: %v", v, err)
			continue
		}
		log.Printf("completion_events variant %s: %d rows", v, n)
	}

	log.Println("Migration completed.")
}
