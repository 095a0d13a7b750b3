package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"sciannotate/internal/model"
	"sciannotate/internal/repository"
	"sciannotate/internal/service"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seeds the questions collection from the per-domain JSON files in
// QUESTIONS_DIR, so the server can run with QUESTIONS_SOURCE=mongo.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	mongoDB := os.Getenv("MONGO_DB")
	if mongoDB == "" {
		mongoDB = "sciannotate"
	}
	dir := os.Getenv("QUESTIONS_DIR")
	if dir == "" {
		dir = "data"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	questionRepo := repository.NewQuestionRepo(client.Database(mongoDB))

	for _, d := range model.Domains() {
		path := filepath.Join(dir, d.Slug+"-questions.json")
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Skipping %s: %v", d.Name, err)
			continue
		}
		questions, err := service.DecodeQuestions(data)
		if err != nil {
			log.Fatalf("Failed to parse %s: %v", path, err)
		}
		n, err := questionRepo.Upsert(ctx, d.Name, questions)
		if err != nil {
			log.Fatalf("Failed to seed %s: %v", d.Name, err)
		}
		log.Printf("Seeded %d questions for %s", n, d.Name)
	}
}
