// Package main runs the background email worker (confirmation resends).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/edushare/backend/config"
	"github.com/edushare/backend/internal/booking"
	"github.com/edushare/backend/internal/emaillog"
	"github.com/edushare/backend/internal/worker"
	"github.com/edushare/backend/pkg/database"
	"github.com/edushare/backend/pkg/email"
	"github.com/edushare/backend/pkg/queue"
	"github.com/edushare/backend/pkg/redis"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	transport, err := email.NewTransport(email.Config{
		Provider:           cfg.Email.Provider,
		FromAddress:        cfg.Email.FromAddress,
		FromName:           cfg.Email.FromName,
		SMTPHost:           cfg.Email.SMTPHost,
		SMTPPort:           cfg.Email.SMTPPort,
		SMTPUser:           cfg.Email.SMTPUser,
		SMTPPass:           cfg.Email.SMTPPass,
		AuthMode:           cfg.Email.AuthMode,
		GoogleClientID:     cfg.Email.GoogleClientID,
		GoogleClientSecret: cfg.Email.GoogleClientSecret,
		GoogleRefreshToken: cfg.Email.GoogleRefreshToken,
		SendGridAPIKey:     cfg.Email.SendGridAPIKey,
	}, logger)
	if err != nil {
		logger.Fatal("email transport", zap.Error(err))
	}

	dispatcher := booking.NewDispatcher(transport, cfg.Booking.MeetLink, logger)
	bookingRepo := booking.NewRepository(pool)
	emailLogRepo := emaillog.NewRepository(pool)
	jobQueue := queue.NewQueue(rdb.Client, logger)
	processor := worker.NewEmailProcessor(jobQueue, bookingRepo, emailLogRepo, dispatcher, logger)

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go processor.Run(workerCtx)
	logger.Info("worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("worker stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
