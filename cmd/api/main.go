package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/shoplane-io/shoplane-api/internal/config"
	"github.com/shoplane-io/shoplane-api/internal/handler"
	"github.com/shoplane-io/shoplane-api/internal/repository"
	"github.com/shoplane-io/shoplane-api/internal/uploader"
	"github.com/shoplane-io/shoplane-api/internal/usecase"
	"github.com/shoplane-io/shoplane-api/shared/auth"
	"github.com/shoplane-io/shoplane-api/shared/mailer"
	"github.com/shoplane-io/shoplane-api/shared/provider"
	"github.com/shoplane-io/shoplane-api/shared/registry"
	"github.com/shoplane-io/shoplane-api/shared/validator"
)

func main() {
	logger := newLogger()

	cfg := config.New(&logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping MongoDB")
	}

	db := client.Database(cfg.Mongo.Database)

	v, err := validator.New()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create validator")
	}

	up, err := uploader.NewDiskUploader(cfg.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create upload directory")
	}

	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Issuer, cfg.Token.Issuer)
	mailSender := mailer.NewMailer(cfg.SMTP)

	var googleProvider *provider.GoogleOAuthProvider
	if cfg.Google.ClientID != "" {
		googleProvider = provider.NewGoogleOAuthProvider(cfg.Google.ClientID)
	}

	userRepo := repository.NewUserMongoRepository(ctx, &logger, db)
	productRepo := repository.NewProductMongoRepository(db)

	authUsecase := usecase.NewAuthUsecase(userRepo, mailSender, googleProvider, jwtAuth, cfg, &logger)
	passwordResetUsecase := usecase.NewPasswordResetUsecase(userRepo, mailSender, cfg, &logger)
	userUsecase := usecase.NewUserUsecase(userRepo)
	productUsecase := usecase.NewProductUsecase(productRepo)

	authHandler := handler.NewAuthHandler(authUsecase, passwordResetUsecase, v, &logger)
	userHandler := handler.NewUserHandler(userUsecase, v, &logger)
	productHandler := handler.NewProductHandler(productUsecase, up, v, &logger)

	router := handler.NewRouter(cfg, &logger, jwtAuth, authHandler, userHandler, productHandler)

	deregister, err := registry.Register(&logger, cfg.Consul, cfg.ServerPort)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to register with consul")
	}
	defer deregister()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.ServerPort).Msg("server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func newLogger() zerolog.Logger {
	if os.Getenv("APP_ENV") == "production" {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
}
