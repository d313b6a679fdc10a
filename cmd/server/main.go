package main // Entry point package

import (
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/rbarbosa/glowroutine/internal/ai"
	"github.com/rbarbosa/glowroutine/internal/config"
	"github.com/rbarbosa/glowroutine/internal/database"
	"github.com/rbarbosa/glowroutine/internal/handler"
	"github.com/rbarbosa/glowroutine/internal/queue"
	"github.com/rbarbosa/glowroutine/internal/repository"
	"github.com/rbarbosa/glowroutine/internal/router"
	"github.com/rbarbosa/glowroutine/internal/service"
	"github.com/rbarbosa/glowroutine/internal/storage/local"
)

func main() {
	// .env is optional; real deployments set variables in the environment.
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		slog.Warn("redis unavailable, rate limiting and response cache disabled")
	}

	blobs, err := local.NewLocalStore(cfg.PhotoPath)
	if err != nil {
		log.Fatalf("photo store: %v", err)
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	profiles := repository.NewProfileRepo(db)
	products := repository.NewProductRepo(db)
	routines := repository.NewRoutineRepo(db)
	usageLogs := repository.NewUsageLogRepo(db)
	analyses := repository.NewAnalysisRepo(db)
	photos := repository.NewPhotoRepo(db)

	chat := ai.NewClient(cfg.AIAPIKey, cfg.AIModel, cfg.AIBaseURL, cfg.AITimeout)
	planner := service.NewPlannerService(profiles, products, routines, chat)
	scanner := service.NewScannerService(profiles, products, routines, analyses, blobs, chat, cfg.PublicBaseURL)

	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			slog.Error("activity consumer stopped", "error", err)
		}
	}()

	photoHandler := handler.NewPhotoHandler(cfg, photos, blobs)
	h := router.Handlers{
		Auth:       handler.NewAuthHandler(cfg, users, tokens, profiles),
		Onboarding: handler.NewOnboardingHandler(cfg, profiles, products, photos, blobs, planner),
		Routines:   handler.NewRoutineHandler(cfg, routines, planner),
		Usage:      handler.NewUsageHandler(usageLogs, routines),
		Scanner:    handler.NewScannerHandler(cfg, scanner),
		Products:   handler.NewProductHandler(products),
		Photos:     photoHandler,
		Overview:   handler.NewOverviewHandler(cfg, profiles, photos, planner),
	}

	e := echo.New()
	router.RegisterRoutes(e, photoHandler)
	router.RegisterAuth(e, h.Auth, cfg.JWTSecret)
	router.RegisterAPI(e, h, cfg, config.LoadRateLimitConfig(), config.LoadCacheConfig(), rdb, profiles)

	addr := ":" + cfg.Port
	slog.Info("listening", "addr", addr, "env", cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
