package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sciannotate/internal/cache"
	"sciannotate/internal/config"
	"sciannotate/internal/repository"
	"sciannotate/internal/service"
	"sciannotate/internal/transport/rest"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}
	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize repositories
	questionRepo := repository.NewQuestionRepo(db)
	responseRepo := repository.NewResponseRepo(db)

	// Initialize caches
	ledgerCache := cache.NewLedgerCache(rdb)
	sessionCache := cache.NewSessionCache(rdb, cfg.SessionTTL)

	// Initialize collection services
	statusSvc := service.NewStatusService(ledgerCache, responseRepo)
	responseSvc := service.NewResponseService(responseRepo, ledgerCache)
	exportSvc := service.NewExportService(responseRepo)
	statsSvc := service.NewStatsService(responseRepo)

	// Question loader: static files on disk or the seeded mongo collection
	var loader service.Loader
	switch cfg.QuestionsSource {
	case "mongo":
		loader = service.LoaderFunc(questionRepo.GetByDomain)
		log.Println("Question source: mongo")
	default:
		loader = service.NewFileLoader(cfg.QuestionsDir)
		log.Printf("Question source: files in %s", cfg.QuestionsDir)
	}

	// Review status: remote endpoint when configured, local service otherwise
	var statusClient service.StatusClient = statusSvc
	if cfg.StatusURL != "" {
		statusClient = service.NewHTTPStatusClient(cfg.StatusURL)
		log.Printf("Review status source: %s", cfg.StatusURL)
	}

	// Initialize the session engine
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ledger := service.NewLedger(statusClient, cfg.ReviewCap)
	selector := service.NewSelector(
		service.ParseStrategy(cfg.SelectorStrategy),
		service.ParseCountSource(cfg.SelectorCountSource),
		cfg.ReviewCap,
		rng,
	)
	sink := service.NewWebhookSink(cfg.WebhookURL)
	sessionSvc := service.NewSessionService(loader, ledger, selector, sink, sessionCache, rng)

	// Create router with container
	container := &rest.Container{
		SessionService:  sessionSvc,
		StatusService:   statusSvc,
		ResponseService: responseSvc,
		ExportService:   exportSvc,
		StatsService:    statsSvc,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Printf("Selector: strategy=%s counts=%s cap=%d", cfg.SelectorStrategy, cfg.SelectorCountSource, cfg.ReviewCap)
		log.Println("Endpoints:")
		log.Println("  GET  /v1/domains")
		log.Println("  POST /v1/sessions")
		log.Println("  GET  /v1/sessions/{id}")
		log.Println("  POST /v1/sessions/{id}/record")
		log.Println("  POST /v1/sessions/{id}/skip")
		log.Println("  POST /v1/sessions/{id}/next")
		log.Println("  GET  /v1/questions?action=getAvailableQuestions")
		log.Println("  POST /v1/responses")
		log.Println("  GET  /v1/responses/export")
		log.Println("  GET  /v1/stats")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
