// Package main runs the EduShare HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/edushare/backend/config"
	"github.com/edushare/backend/internal/auth"
	"github.com/edushare/backend/internal/booking"
	"github.com/edushare/backend/internal/emaillog"
	"github.com/edushare/backend/internal/groups"
	"github.com/edushare/backend/internal/mentors"
	"github.com/edushare/backend/internal/middleware"
	"github.com/edushare/backend/internal/resources"
	"github.com/edushare/backend/internal/worker"
	"github.com/edushare/backend/pkg/database"
	"github.com/edushare/backend/pkg/email"
	"github.com/edushare/backend/pkg/queue"
	"github.com/edushare/backend/pkg/redis"
	"github.com/edushare/backend/pkg/response"
	"github.com/edushare/backend/pkg/storage"
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

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			ResourcesBucket:      cfg.AWS.ResourcesBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	transport, err := email.NewTransport(emailConfig(cfg), logger)
	if err != nil {
		logger.Fatal("email transport", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Groups
	groupRepo := groups.NewRepository(pool)
	groupHandler := groups.NewHandler(groupRepo)

	// Group resources (S3-backed files and links with ordering)
	resourceRepo := resources.NewRepository(pool)
	resourceHandler := resources.NewHandler(resourceRepo, groupRepo, s3Client, logger)

	// Mentors (Redis-cached directory)
	mentorRepo := mentors.NewRepository(pool)
	mentorHandler := mentors.NewHandler(mentorRepo, rdb.Client, logger)

	// Bookings and confirmation emails
	dispatcher := booking.NewDispatcher(transport, cfg.Booking.MeetLink, logger)
	bookingRepo := booking.NewRepository(pool)
	emailLogRepo := emaillog.NewRepository(pool)
	bookingHandler := booking.NewHandler(bookingRepo, emailLogRepo, dispatcher, logger)

	// Email log admin API; resends go through the Redis queue
	jobQueue := queue.NewQueue(rdb.Client, logger)
	emailLogHandler := emaillog.NewHandler(emailLogRepo, jobQueue, logger)
	emailProcessor := worker.NewEmailProcessor(jobQueue, bookingRepo, emailLogRepo, dispatcher, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics())

	// Health and metrics
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Session booking (public; legacy frontend contract)
	router.POST("/book-session", bookingHandler.BookSession)

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/login", authHandler.Login)
	}

	// Public mentor directory
	router.GET("/mentors", mentorHandler.List)
	router.GET("/mentors/:id", mentorHandler.GetByID)

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		// Users (admin only)
		api.GET("/users", middleware.RequireRole("admin"), authHandler.List)

		// Groups (create, join, list; member list for group access)
		api.GET("/groups", groupHandler.List)
		api.GET("/groups/mine", groupHandler.ListMine)
		api.POST("/groups", groupHandler.Create)
		api.POST("/groups/join", groupHandler.Join)
		api.GET("/groups/:id", groupHandler.GetByID)
		api.GET("/groups/:id/members", groupHandler.ListMembers)

		// Group resources (membership enforced in handler)
		api.GET("/groups/:id/resources", resourceHandler.List)
		api.POST("/groups/:id/resources", resourceHandler.Add)
		api.PUT("/groups/:id/resources/order", resourceHandler.Reorder)
		api.DELETE("/groups/:id/resources/:resourceId", resourceHandler.Delete)
		api.POST("/groups/:id/resources/generate-upload-url", resourceHandler.GenerateUploadURL)
		api.GET("/groups/:id/resources/:resourceId/download-url", resourceHandler.GenerateDownloadURL)

		// Mentor directory management (admin only)
		api.POST("/mentors", middleware.RequireRole("admin"), mentorHandler.Create)
		api.PATCH("/mentors/:id", middleware.RequireRole("admin"), mentorHandler.Update)
		api.DELETE("/mentors/:id", middleware.RequireRole("admin"), mentorHandler.Delete)

		// Bookings
		api.GET("/bookings", bookingHandler.ListMine)

		// Email delivery log (admin only)
		api.GET("/email-logs", middleware.RequireRole("admin"), emailLogHandler.List)
		api.POST("/email-logs/:id/resend", middleware.RequireRole("admin"), emailLogHandler.Resend)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Background worker (confirmation email resends)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go emailProcessor.Run(workerCtx)

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func emailConfig(cfg *config.Config) email.Config {
	return email.Config{
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
	}
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
