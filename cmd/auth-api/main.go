package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/vasapolrittideah/auth-flow-api/internal/auth"
	"github.com/vasapolrittideah/auth-flow-api/internal/config"
	"github.com/vasapolrittideah/auth-flow-api/internal/handler"
	"github.com/vasapolrittideah/auth-flow-api/internal/mailer"
	"github.com/vasapolrittideah/auth-flow-api/internal/middleware"
	"github.com/vasapolrittideah/auth-flow-api/internal/repository"
	"github.com/vasapolrittideah/auth-flow-api/internal/security"
	"github.com/vasapolrittideah/auth-flow-api/internal/usecase"
	"github.com/vasapolrittideah/auth-flow-api/internal/validation"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "auth-api").Logger()

	cfg := config.New(&logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping MongoDB")
	}

	db := client.Database(cfg.MongoDatabase)
	userRepo := repository.NewUserMongoRepository(ctx, &logger, db)

	notifier := mailer.NewEmailNotifier(mailer.NewMailer(&logger))
	tokenSource := security.NewTokenSource()
	jwtAuth := auth.NewJWTAuthenticator(
		cfg.Token.SessionSecret,
		cfg.Token.Issuer,
		cfg.Token.SessionExpiresIn,
	)

	authUsecase := usecase.NewAuthUsecase(userRepo, notifier, tokenSource, jwtAuth, &cfg.Token)
	passwordResetUsecase := usecase.NewPasswordResetUsecase(
		userRepo,
		notifier,
		tokenSource,
		cfg.ClientURL,
		&cfg.Token,
	)

	validate, err := validation.New()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize validator")
	}

	authHandler := handler.NewAuthHandler(
		authUsecase,
		passwordResetUsecase,
		&jwtAuth,
		validate,
		handler.CookieSettings{
			Secure: cfg.CookieSecure,
			MaxAge: int(cfg.Token.SessionExpiresIn.Seconds()),
		},
		&logger,
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.ClientURL))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	authHandler.RegisterRoutes(r)

	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
