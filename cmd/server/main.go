package main // Entry point package

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/prudvivenkat/agriconnect/internal/advisory"
	"github.com/prudvivenkat/agriconnect/internal/config"
	"github.com/prudvivenkat/agriconnect/internal/database"
	"github.com/prudvivenkat/agriconnect/internal/handler"
	"github.com/prudvivenkat/agriconnect/internal/mailer"
	"github.com/prudvivenkat/agriconnect/internal/middleware"
	"github.com/prudvivenkat/agriconnect/internal/queue"
	"github.com/prudvivenkat/agriconnect/internal/repository"
	"github.com/prudvivenkat/agriconnect/internal/router"
	"github.com/prudvivenkat/agriconnect/internal/service"
)

// csrfTTL bounds how long an issued CSRF token stays redeemable.
const csrfTTL = 15 * time.Minute

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	// Repositories over the shared connection pool.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	otps := repository.NewOTPRepo(db)
	equipment := repository.NewEquipmentRepo(db)
	workers := repository.NewWorkerRepo(db)
	bookings := repository.NewBookingRepo(db)
	hirings := repository.NewHiringRepo(db)
	reviews := repository.NewReviewRepo(db)
	feedback := repository.NewFeedbackRepo(db)
	stats := repository.NewStatsRepo(db)
	csrf := repository.NewCSRFStore(rdb, csrfTTL)

	// Services. Lifecycle transitions publish to RabbitMQ; the publisher is
	// best-effort and never blocks a committed transition.
	otpSvc := service.NewOTPService(otps)
	bookingSvc := service.NewBookingService(db, equipment, bookings, queue.PublishLifecycle)
	hiringSvc := service.NewHiringService(db, workers, hirings, queue.PublishLifecycle)
	reviewSvc := service.NewReviewService(reviews, equipment, workers, hirings)

	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPSender, cfg.SMTPPass)

	authH := handler.NewAuthHandler(cfg, users, tokens, otpSvc, csrf, mail)
	equipmentH := handler.NewEquipmentHandler(equipment, reviewSvc)
	workerH := handler.NewWorkerHandler(workers, reviewSvc)
	bookingH := handler.NewBookingHandler(bookingSvc)
	hiringH := handler.NewHiringHandler(hiringSvc)
	reviewH := handler.NewReviewHandler(reviewSvc)
	adminH := handler.NewAdminHandler(users, equipment, workers, feedback, stats)
	feedbackH := handler.NewFeedbackHandler(feedback)
	advisoryH := handler.NewAdvisoryHandler(advisory.New(cfg.AdvisoryKey))

	// Drain lifecycle queues into the audit log for as long as the process
	// runs. The consumer reconnects on broker failures.
	go func() {
		if err := queue.StartLifecycleConsumer(); err != nil {
			log.Printf("lifecycle consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, equipmentH, workerH, cache)
	router.RegisterMarketplace(e, equipmentH, bookingH, reviewH, cfg.JWTSecret)
	router.RegisterLabor(e, workerH, hiringH, reviewH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)
	router.RegisterSupport(e, feedbackH, advisoryH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
