package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/huntboard/huntboard/internal/app"
	"github.com/huntboard/huntboard/internal/auth"
	"github.com/huntboard/huntboard/internal/jobs"
	"github.com/huntboard/huntboard/internal/mail"
	"github.com/huntboard/huntboard/internal/platform/db"
	"github.com/huntboard/huntboard/internal/products"
	"github.com/huntboard/huntboard/internal/token"
	"github.com/huntboard/huntboard/internal/users"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	mailer, err := mail.NewSMTPSender(mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		From:     cfg.SMTPFrom,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
	})
	if err != nil {
		logger.Error("configure mailer", slog.Any("error", err))
		os.Exit(1)
	}

	tokens := token.NewService(cfg.JWTSecret, cfg.JWTLifetime)
	authMiddleware := auth.NewMiddleware(logger, tokens)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(logger, authRepo, tokens, mailer, auth.ServiceConfig{
		BaseURL:         cfg.AppBaseURL,
		VerificationTTL: cfg.VerificationTokenTTL,
		ResetTTL:        cfg.ResetTokenTTL,
		BcryptCost:      cfg.BcryptCost,
	})
	authHandler := auth.NewHandler(logger, authService, tokens, authMiddleware, cfg.IsProduction())

	jobsRepo := jobs.NewRepository(dbpool)
	jobsService := jobs.NewService(jobsRepo)
	jobsHandler := jobs.NewHandler(logger, jobsService)

	productsRepo := products.NewRepository(dbpool)
	productsService := products.NewService(productsRepo)
	productsHandler := products.NewHandler(logger, productsService, authMiddleware, cfg.UploadDir, cfg.MaxUploadSize)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo, cfg.BcryptCost)
	usersHandler := users.NewHandler(logger, usersService, authMiddleware)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		AuthHandler:     authHandler,
		AuthMiddleware:  authMiddleware,
		JobsHandler:     jobsHandler,
		ProductsHandler: productsHandler,
		UsersHandler:    usersHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
