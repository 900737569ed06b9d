// Package bootstrap assembles the application: configuration in, a ready
// fiber server out.
package bootstrap

import (
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/adapter/in/http"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/config"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/infra/middleware"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/pkg/logger"
)

// NewAPI builds the HTTP server with all routes and middleware wired. The
// returned cleanup closes the dependency graph.
func NewAPI(cfg *config.Config) (*fiber.App, func(), error) {
	logLevel := logger.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = logger.LevelDebug
	}
	logger.Init(logger.Config{
		Level:   logLevel,
		Service: "leadadapter-api",
	})

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		With().Timestamp().Str("component", "api").Logger()

	deps, cleanup, err := NewDependencies(cfg)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize dependencies")
		return nil, nil, err
	}

	cacheKind := "memory"
	if deps.Redis != nil {
		cacheKind = "redis"
	}
	zlog.Info().
		Str("cache", cacheKind).
		Str("model", deps.LLM.Model()).
		Float64("quality_threshold", deps.MessageService.Threshold()).
		Msg("Dependencies initialized")

	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(),
		DisableStartupMessage: cfg.IsProduction(),
		StrictRouting:         false,
		CaseSensitive:         false,

		ReadBufferSize:  16384,
		WriteBufferSize: 16384,

		// go-json over encoding/json for serialization throughput
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,

		// Generation payloads are small; 1MB leaves room for rich playbooks.
		BodyLimit: 1 * 1024 * 1024,

		ServerHeader:       "",
		DisableDefaultDate: true,
	})

	// Global middleware stack (order matters)
	app.Use(middleware.Recover())
	app.Use(middleware.RequestID())
	app.Use(middleware.SecurityHeaders())
	app.Use(middleware.ValidateContentType())
	app.Use(middleware.RequestLogger())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// CORS. AllowCredentials:true requires explicit origins, never "*".
	allowOrigins := strings.Join(cfg.AllowedOrigins, ",")
	allowCredentials := true
	if allowOrigins == "" || allowOrigins == "*" {
		if cfg.IsProduction() {
			allowOrigins = ""
			allowCredentials = false
		} else {
			allowOrigins = "http://localhost:3000,http://localhost:5173"
		}
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		ExposeHeaders:    "X-Request-ID,X-RateLimit-Limit,X-RateLimit-Remaining,X-RateLimit-Reset",
		AllowCredentials: allowCredentials,
		MaxAge:           86400,
	}))

	// Health and stats stay outside the rate limit.
	public := app.Group("/api/v1")
	healthHandler := http.NewHealthHandler(cfg.AppVersion, deps.LLM, deps.Latency)
	healthHandler.Register(public)

	api := app.Group("/api/v1")

	// Redis coordinates the limit across instances; the memory limiter is
	// per process.
	window := time.Duration(cfg.RateLimitWindowSec) * time.Second
	if deps.Redis != nil {
		api.Use(middleware.NewRedisRateLimiter(deps.Redis.Client(), cfg.RateLimitRequests, window).Handler())
	} else {
		api.Use(middleware.NewRateLimiter(cfg.RateLimitRequests, window).Handler())
	}

	generationTimeout := time.Duration(cfg.GenerationTimeoutSec) * time.Second
	messageHandler := http.NewMessageHandler(deps.MessageService, generationTimeout)
	messageHandler.Register(api)

	logger.Info("API server initialized successfully")

	return app, cleanup, nil
}
