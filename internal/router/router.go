package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework used for routing
	"github.com/redis/go-redis/v9"

	"github.com/rbarbosa/glowroutine/internal/config"
	"github.com/rbarbosa/glowroutine/internal/handler"
	"github.com/rbarbosa/glowroutine/internal/middleware"
	"github.com/rbarbosa/glowroutine/internal/repository"
)

// Handlers collects every handler the router wires up.
type Handlers struct {
	Auth       *handler.AuthHandler
	Onboarding *handler.OnboardingHandler
	Routines   *handler.RoutineHandler
	Usage      *handler.UsageHandler
	Scanner    *handler.ScannerHandler
	Products   *handler.ProductHandler
	Photos     *handler.PhotoHandler
	Overview   *handler.OverviewHandler
}

// RegisterRoutes registers routes that do not require authentication:
// the health check and public blob retrieval.  Photo URLs must stay
// fetchable without credentials because the AI service downloads scan
// images through them.
func RegisterRoutes(e *echo.Echo, photos *handler.PhotoHandler) {
	e.GET("/healthz", handler.Health)
	e.GET("/public/photos/:key", photos.Serve)
}

// RegisterAuth registers authentication routes.  Unauthenticated
// operations live under /v1/auth; /v1/me and /v1/logout require a
// valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout accepts a refresh_token body without a JWT; with a valid
	// bearer and no body it revokes every session of that user.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.POST("/logout", a.Logout)
}

// RegisterAPI registers the authenticated application surface.  All
// routes require a valid access token; the planner, scanner, usage and
// overview routes additionally require a completed profile.  The
// AI-backed endpoints share a Redis token bucket, and the read views
// go through the per-user response cache.
func RegisterAPI(e *echo.Echo, h Handlers, cfg config.Config, rlCfg config.RateLimitConfig, cacheCfg config.CacheConfig, rdb *redis.Client, profiles *repository.ProfileRepo) {
	auth := e.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))

	needsProfile := middleware.RequireProfile(profiles)
	aiLimited := middleware.NewTokenBucket(rlCfg, rdb)
	cached := middleware.NewRedisCache(cacheCfg, rdb)

	// Onboarding is the one AI-backed route that must run before a
	// profile exists; it creates the profile itself.
	auth.POST("/onboarding", h.Onboarding.Onboard, aiLimited)

	auth.POST("/routines/generate", h.Routines.Generate, needsProfile, aiLimited)
	auth.GET("/routines", h.Routines.Day, needsProfile, cached)
	auth.GET("/routines/week", h.Routines.Week, needsProfile, cached)

	auth.POST("/usage-logs", h.Usage.Append, needsProfile)
	auth.GET("/usage-logs", h.Usage.ListByDay, needsProfile)

	auth.POST("/scans", h.Scanner.Scan, needsProfile, aiLimited)
	auth.POST("/scans/:id/routine", h.Scanner.AddToRoutine, needsProfile)

	auth.GET("/products", h.Products.List)
	auth.POST("/products", h.Products.Create)

	auth.POST("/photos", h.Photos.Upload)
	auth.GET("/photos", h.Photos.List)

	auth.GET("/overview", h.Overview.Overview, needsProfile, cached)
}
