package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/malabro/eshop-backend/internal/adapters/repository"
	"github.com/malabro/eshop-backend/internal/config"
	"github.com/malabro/eshop-backend/internal/handlers"
	"github.com/malabro/eshop-backend/internal/logger"
	"github.com/malabro/eshop-backend/internal/metrics"
	"github.com/malabro/eshop-backend/internal/services/assistant"
	"github.com/malabro/eshop-backend/internal/services/notification"
	"github.com/malabro/eshop-backend/utils"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	notificationTimeout = 30 * time.Second
	shutdownTimeout     = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Setup(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile}); err != nil {
		logrus.Fatalf("Failed to configure logger: %v", err)
	}
	if cfg.JWTSecret == "change-me" {
		logrus.Warn("JWT_SECRET is not set, using the development default")
	}

	utils.ConfigureJWT(cfg.JWTSecret, cfg.AccessTokenTTL())
	metrics.Init()

	db, disconnect := connectMongo(cfg)
	defer disconnect()

	if db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		if err := repository.EnsureIndexes(ctx, db); err != nil {
			logrus.WithError(err).Error("Failed to ensure indexes")
		}
		if err := ensureSuperuser(ctx, repository.NewUserRepository(db), cfg.FirstSuperuser, cfg.FirstSuperuserPassword); err != nil {
			logrus.WithError(err).Error("Failed to bootstrap superuser")
		}
		cancel()
	}

	dispatcher := notification.NewDispatcher(notificationTimeout)
	sender := notification.NewSMTPSender(notification.SMTPConfig{
		Host:     cfg.SMTPServer,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.FromEmail,
	})
	if !cfg.SMTPEnabled() {
		logrus.Warn("SMTP credentials missing, emails will be logged and skipped")
	}
	notifier := notification.NewNotifier(dispatcher, sender, cfg.AdminEmail)

	var images utils.ImageStore = utils.DisabledImageStore{}
	if cfg.CloudinaryEnabled() {
		store, err := utils.NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		if err != nil {
			logrus.WithError(err).Error("Failed to initialise Cloudinary, image upload disabled")
		} else {
			images = store
		}
	}

	var bot assistant.Assistant = assistant.Disabled{}
	if cfg.GeminiAPIKey != "" {
		gemini, err := assistant.NewGeminiAssistant(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logrus.WithError(err).Error("Failed to initialise Gemini, assistant disabled")
		} else {
			defer gemini.Close()
			bot = gemini
		}
	}

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), logger.RequestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handlers.SetupRoutes(router, handlers.Dependencies{
		DB:                  db,
		Notifier:            notifier,
		Images:              images,
		Assistant:           bot,
		StripeSecretKey:     cfg.StripeSecretKey,
		StripeWebhookSecret: cfg.StripeWebhookSecret,
		StripeCurrency:      cfg.StripeCurrency,
		LoginRatePerMinute:  cfg.LoginRatePerMinute,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithField("port", cfg.Port).Info("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}
	// pending emails get whatever time is left
	if err := dispatcher.Shutdown(ctx); err != nil {
		logrus.WithError(err).Warn("Some notifications were still in flight at shutdown")
	}
	logrus.Info("Server exited")
}

// connectMongo returns a nil database when the server cannot be reached so
// the API can still answer health checks.
func connectMongo(cfg *config.Config) (*mongo.Database, func()) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI).SetServerSelectionTimeout(20*time.Second))
	if err != nil {
		logrus.WithError(err).Error("Failed to create MongoDB client")
		return nil, func() {}
	}
	if err := client.Ping(ctx, nil); err != nil {
		logrus.WithError(err).Error("Failed to connect to MongoDB")
		_ = client.Disconnect(context.Background())
		return nil, func() {}
	}
	logrus.WithField("database", cfg.MongoDB).Info("Connected to MongoDB")

	return client.Database(cfg.MongoDB), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			logrus.WithError(err).Warn("Failed to disconnect from MongoDB")
		}
	}
}
