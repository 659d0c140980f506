// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"carelink/internal/config"
	httptransport "carelink/internal/http"
	"carelink/internal/infra"
	"carelink/internal/modules/booking"
	"carelink/internal/modules/rating"
	"carelink/internal/modules/user"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := infra.NewLogger(cfg.Log.Level)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Fatal("db init", zap.Error(err))
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	ratingStore := rating.NewStore(dbPool)
	ratingSvc := rating.NewService(ratingStore, redisClient, cfg.Cache.PartnerRatingTTL)

	userStore := user.NewStore(dbPool, redisClient, cfg.Cache.PartnerProfileTTL)

	bookingStore := booking.NewStore(dbPool)
	bookingSvc := booking.NewService(bookingStore, userStore, ratingSvc, logger)

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Booking:       bookingSvc,
		Ratings:       ratingSvc,
		JWTSecret:     cfg.Auth.JWTSecret,
		AdminPageSize: cfg.AdminPageSize,
		Logger:        logger,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", zap.String("addr", cfg.HTTP.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("serve", zap.Error(err))
	}
}
