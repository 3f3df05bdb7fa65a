package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/diagnosis/taipei-trip/internal/http/handlers"
	apimw "github.com/diagnosis/taipei-trip/internal/http/middleware"
	"github.com/diagnosis/taipei-trip/internal/platform/auth"
	"github.com/diagnosis/taipei-trip/internal/platform/mailer"
	"github.com/diagnosis/taipei-trip/internal/platform/payment"
	"github.com/diagnosis/taipei-trip/internal/repo/postgres"
	"github.com/diagnosis/taipei-trip/internal/service"
	"github.com/diagnosis/taipei-trip/pkg/config"
	"github.com/diagnosis/taipei-trip/pkg/database"
	"github.com/diagnosis/taipei-trip/pkg/events"
	"github.com/diagnosis/taipei-trip/pkg/logger"
	mw "github.com/diagnosis/taipei-trip/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env not found, using environment variables")
	}
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	var bus events.Publisher = events.NoopBus{}
	if cfg.NATS.URL != "" {
		natsBus, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		bus = natsBus
	}
	defer bus.Close()

	var mail mailer.Service
	if cfg.Email.DevMode {
		mail = mailer.DevMailer{}
	} else {
		mail = mailer.NewMailer(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail)
	}

	// Repositories and platform clients
	usersRepo := postgres.NewUsersRepo(pool)
	attractionsRepo := postgres.NewAttractionsRepo(pool)
	bookingsRepo := postgres.NewBookingsRepo(pool)
	ordersRepo := postgres.NewOrdersRepo(pool)
	tokens := auth.NewTokenIssuer(cfg.Auth)
	tapPay := payment.NewTapPay(cfg.TapPay)

	orderService := service.NewOrderService(ordersRepo, tapPay, bus, mail)

	// Handlers
	userHandler := handlers.NewUserHandler(usersRepo, tokens)
	attractionsHandler := handlers.NewAttractionsHandler(attractionsRepo)
	bookingHandler := handlers.NewBookingHandler(bookingsRepo, bus)
	orderHandler := handlers.NewOrderHandler(orderService)

	authLimiter := apimw.NewRateLimiter(pool, apimw.RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
		KeyFunc:  apimw.ClientIPKeyFunc,
	})

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Mount("/api", handlers.APIRouter(
		userHandler, attractionsHandler, bookingHandler, orderHandler,
		apimw.RequireAuth(tokens),
		authLimiter.Middleware(),
	))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down API server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("API server shutdown error", "error", err)
		}
	}()

	logger.Info("Starting API server", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("API server error", "error", err)
		os.Exit(1)
	}
}
