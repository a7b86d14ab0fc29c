// File: concierge/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"concierge/config"
	"concierge/cron"
	"concierge/database"
	bookingsRepo "concierge/database/repository/bookings"
	"concierge/handlers"
	"concierge/middleware"
	"concierge/routes"
	"concierge/services/booking"
	"concierge/services/chat"
	"concierge/services/intelligence"
	"concierge/services/notification"
	"concierge/services/rag"
	"concierge/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()

	ctx := context.Background()

	generator, err := intelligence.NewGeminiClient(ctx, config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiModel)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize generation client: %v", err)
	}
	embedder, err := intelligence.NewGeminiEmbedder(ctx, config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiEmbedModel)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize embedding client: %v", err)
	}

	// Background email worker, fed through the asynq queue.
	mailer, err := notification.NewSMTPMailer(
		config.AppConfig.SMTPHost,
		config.AppConfig.SMTPPort,
		config.AppConfig.SMTPUsername,
		config.AppConfig.SMTPPassword,
		config.AppConfig.SMTPFrom,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize mailer: %v", err)
	}
	cron.InitConfirmationWorker(mailer)

	notifier := notification.NewQueueNotifier(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer notifier.Close()

	// Repositories.
	bookingRepo := bookingsRepo.NewMongoBookingRepo()

	// Services.
	chunker := rag.NewChunker(config.AppConfig.ChunkSize, config.AppConfig.ChunkOverlap)
	retriever := rag.NewRetriever(chunker, embedder, config.AppConfig.RetrievalTopK, logger)
	composer := rag.NewComposer(config.AppConfig.MaxContextChars)
	machine := booking.NewMachine(config.AppConfig.ServiceTypes)

	sessionTTL := time.Duration(config.AppConfig.SessionTTLMin) * time.Minute
	sessionStore := chat.NewRedisSessionStore(utils.GetSessionCacheClient(), sessionTTL)

	chatService := chat.NewDefaultChatService(
		sessionStore,
		machine,
		retriever,
		composer,
		generator,
		bookingRepo,
		notifier,
		logger,
		config.AppConfig.MaxHistory,
	)

	// Handlers.
	chatHandler := handlers.NewChatHandler(chatService, logger)
	documentHandler := handlers.NewDocumentHandler(retriever, logger)
	bookingHandler := handlers.NewBookingHandler(bookingRepo, logger)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
	}))

	routes.RegisterRoutes(router, chatHandler, documentHandler, bookingHandler)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("main: listening on port %s", config.AppConfig.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: forced shutdown: %v", err)
	}
}
