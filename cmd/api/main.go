package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/daanvos/macroflow-engine/internal/adapters/cache"
	adapterHTTP "github.com/daanvos/macroflow-engine/internal/adapters/handler/http"
	"github.com/daanvos/macroflow-engine/internal/adapters/repository"
	"github.com/daanvos/macroflow-engine/internal/core/domain"
	"github.com/daanvos/macroflow-engine/internal/core/services"
	"github.com/daanvos/macroflow-engine/internal/core/workers"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	startTime := time.Now()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	serverPort := getEnv("PORT", "8080")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("Critical: JWT_SECRET is required")
	}
	jwtIssuer := getEnv("JWT_ISSUER", "macroflow-engine")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	redisHost := getEnv("REDIS_HOST", "localhost")
	redisPort := getEnv("REDIS_PORT", "6379")
	redisPass := os.Getenv("REDIS_PASSWORD")
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	rdb, err := cache.NewRedisClient(redisHost, redisPort, redisPass, redisDB)
	if err != nil {
		log.Printf("Redis unavailable, running without cache and rate limiting: %v", err)
		rdb = nil
	}

	planRepo := repository.NewPostgresPlanRepository(db)
	workoutRepo := repository.NewPostgresWorkoutRepository(db)

	var mealRepo domain.MealRepository = repository.NewPostgresMealRepository(db)
	var kv domain.KeyValueStore = repository.NewInMemoryKeyValueStore()
	if rdb != nil {
		mealRepo = repository.NewCachedMealRepository(mealRepo, rdb)
		kv = repository.NewRedisKeyValueStore(rdb)
	}

	resolver := services.NewPlanResolver(planRepo, mealRepo)
	progressService := services.NewProgressService(workoutRepo)
	checkedService := services.NewCheckedStateService(kv, nil)
	tokenService := services.NewTokenService(jwtSecret, jwtIssuer, 24*time.Hour)

	recomputeWorker := workers.NewRecomputeWorker(resolver, checkedService, kv)
	checkedService.SetRecomputer(recomputeWorker)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	recomputeWorker.Start(workerCtx)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		PlanHandler:     adapterHTTP.NewPlanHandler(resolver, checkedService),
		ProgressHandler: adapterHTTP.NewProgressHandler(resolver, checkedService, progressService),
		CheckedHandler:  adapterHTTP.NewCheckedHandler(checkedService),
		TokenService:    tokenService,
		DB:              db,
		Redis:           rdb,
		StartTime:       startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Macroflow Engine running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
