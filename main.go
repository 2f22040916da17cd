package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"repairshop-backend/database"
	"repairshop-backend/middlewares"
	"repairshop-backend/routes"
	"repairshop-backend/services"
	"repairshop-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// envInt reads an int env var with a default fallback.
func envInt(key string, def int) int {
	return utils.ParseIntDefault(os.Getenv(key), def)
}

// startJobCardSweep schedules the periodic scan that creates job cards for
// in-progress repair orders that have none. Default is hourly; override with
// JOB_CARD_SWEEP_SCHEDULE (standard cron expression).
func startJobCardSweep() *cron.Cron {
	schedule := os.Getenv("JOB_CARD_SWEEP_SCHEDULE")
	if schedule == "" {
		schedule = "@hourly"
	}

	svc := services.NewJobCardService()
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			created, err := svc.AutoCreateJobCards(tx)
			if err != nil {
				return err
			}
			if created > 0 {
				log.Printf("job card sweep: created %d card(s)", created)
			}
			return nil
		})
		if err != nil {
			log.Printf("job card sweep failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("invalid JOB_CARD_SWEEP_SCHEDULE %q: %v", schedule, err)
	}
	c.Start()
	return c
}

func main() {
	// ---- Database
	database.Connect()
	database.AutoMigrate()
	if err := database.Migrate(); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	// ---- Background job card sweep
	sweep := startJobCardSweep()
	defer sweep.Stop()

	// ---- Limits (configurable via env)
	// Fiber default BodyLimit is 4 * 1024 * 1024 bytes if unset (per docs).
	// We allow overriding with BODY_LIMIT_BYTES or BODY_LIMIT_MB.
	bodyLimitBytes := envInt("BODY_LIMIT_BYTES", 0)
	if bodyLimitBytes <= 0 {
		bodyLimitBytes = envInt("BODY_LIMIT_MB", 4) * 1024 * 1024
	}

	// ---- Fiber app with global error handler + body limit
	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.ErrorHandler,
		BodyLimit:    bodyLimitBytes,
	})

	// ---- CORS
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: false, // using Bearer tokens, not cookies
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
	}))

	// ---- Global rate limiter (applies to all routes; tune via env)
	rlMax := envInt("RATE_LIMIT_MAX", 60)                                            // default 60 reqs
	rlWindow := time.Duration(envInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second // default 60s window
	app.Use(limiter.New(limiter.Config{
		Max:        rlMax,
		Expiration: rlWindow,
		// Default KeyGenerator = client IP; default 429 handler is fine.
		// See: https://docs.gofiber.io/api/middleware/limiter
	}))

	// ---- Routes
	routes.Register(app)

	// ---- Start
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := app.Listen(":" + port); err != nil {
		panic(err)
	}
	fmt.Println("API server started on port", port)
}
