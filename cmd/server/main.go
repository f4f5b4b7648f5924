// Package main is the application entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gamisaur/gccan/internal/config"
	"github.com/gamisaur/gccan/internal/handler"
	"github.com/gamisaur/gccan/internal/middleware"
	"github.com/gamisaur/gccan/internal/model"
	"github.com/gamisaur/gccan/internal/notifier"
	"github.com/gamisaur/gccan/internal/repository"
	"github.com/gamisaur/gccan/internal/service"
	"github.com/gamisaur/gccan/pkg/database"
	"github.com/gamisaur/gccan/pkg/es"
	"github.com/gamisaur/gccan/pkg/kafka"
	"github.com/gamisaur/gccan/pkg/log"
	"github.com/gamisaur/gccan/pkg/mailer"
	"github.com/gamisaur/gccan/pkg/storage"
	"github.com/gamisaur/gccan/pkg/token"
	"github.com/gin-gonic/gin"
)

func main() {
	// 1. Initialize configuration
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. Initialize the logger
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()
	log.Info("logger initialized successfully")

	// 3. Initialize the databases and external clients
	database.InitMySQL(cfg.Database.MySQL.DSN)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	storage.InitMinIO(cfg.MinIO)
	if err := es.InitES(cfg.Elasticsearch); err != nil {
		log.Errorf("elasticsearch initialization failed: %s", err)
		return
	}
	kafka.InitProducer(cfg.Kafka)

	if err := database.DB.AutoMigrate(&model.FAQ{}, &model.Faculty{}, &model.Subject{}, &model.Admin{}); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	// 4. Initialize repositories
	faqRepo := repository.NewFAQRepository(database.DB)
	scheduleRepo := repository.NewScheduleRepository(database.DB)
	adminRepo := repository.NewAdminRepository(database.DB)
	feedbackRepo := repository.NewFeedbackRepository(database.RDB)
	transcriptRepo := repository.NewTranscriptRepository(database.RDB)
	sessionRepo := repository.NewSessionRepository(database.RDB)

	// 5. Initialize services (dependency injection)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpireHours, cfg.JWT.SessionExpireHours, cfg.JWT.RememberExpireDays)
	mail := mailer.NewSendgridMailer(cfg.Mail)
	faqIndex := service.NewESFAQIndex(cfg.Elasticsearch.IndexName)
	faqService := service.NewFAQService(faqRepo, faqIndex)
	scheduleService := service.NewScheduleService(scheduleRepo)
	feedbackService := service.NewFeedbackService(feedbackRepo, mail, kafka.ProduceFeedbackTask)
	chatService := service.NewChatService(faqService, transcriptRepo, faqIndex, cfg.Chatbot.FallbackAnswer)
	sessionService := service.NewSessionService(sessionRepo, transcriptRepo, cfg.Chatbot.RequireTerms)
	adminService := service.NewAdminService(adminRepo, jwtManager, cfg.MinIO)

	// 6. Warm the in-memory directories and open the live inbox subscription
	if err := faqService.Refresh(); err != nil {
		log.Fatalf("initial FAQ refresh failed: %v", err)
	}
	if err := scheduleService.Refresh(); err != nil {
		log.Fatalf("initial schedule refresh failed: %v", err)
	}

	subCtx, cancelSub := context.WithCancel(context.Background())
	defer cancelSub()
	unsubscribe, err := feedbackService.SubscribeLive(subCtx)
	if err != nil {
		log.Fatalf("feedback subscription failed: %v", err)
	}
	defer unsubscribe()

	// 7. Start the background Kafka consumer mailing feedback notices
	go kafka.StartConsumer(cfg.Kafka, notifier.New(mail))

	// 8. Set the Gin mode and create the router
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	faqHandler := handler.NewFAQHandler(faqService)
	scheduleHandler := handler.NewScheduleHandler(scheduleService)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService, adminService, jwtManager)
	chatHandler := handler.NewChatHandler(chatService)
	sessionHandler := handler.NewSessionHandler(sessionService)
	authHandler := handler.NewAuthHandler(adminService, sessionService)
	adminHandler := handler.NewAdminHandler(adminService)

	authed := middleware.AuthMiddleware(jwtManager, adminService, sessionService)

	// 9. Register routes
	apiV1 := r.Group("/api/v1")
	{
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refreshToken", authHandler.Refresh)
			auth.POST("/logout", authed, authHandler.Logout)
		}

		// Visitor session state machine
		sessions := apiV1.Group("/sessions")
		{
			sessions.GET("/:id", sessionHandler.Get)
			sessions.POST("/:id/start-chat", sessionHandler.StartChat)
			sessions.POST("/:id/return", sessionHandler.ReturnToLanding)
			sessions.POST("/:id/enter-login", sessionHandler.EnterLogin)
		}

		// Visitor chat (public)
		chat := apiV1.Group("/chat")
		{
			chat.GET("/transcript", chatHandler.GetTranscript)
			chat.POST("/faq", chatHandler.AskFAQ)
			chat.POST("/ask", chatHandler.Ask)
		}
		r.GET("/chat/ws", chatHandler.Handle)

		// Public directories and the visitor feedback form
		apiV1.GET("/faqs/directory", faqHandler.GetDirectory)
		apiV1.GET("/schedules", scheduleHandler.List)
		apiV1.POST("/feedback", feedbackHandler.Submit)

		// Admin console routes require authentication plus an admins record
		admin := apiV1.Group("/admin")
		admin.Use(authed, middleware.AdminAuthMiddleware())
		{
			admin.GET("/profile", adminHandler.GetProfile)
			admin.PUT("/profile/display-name", adminHandler.UpdateDisplayName)
			admin.POST("/profile/avatar", adminHandler.UploadAvatar)

			faqs := admin.Group("/faqs")
			{
				faqs.GET("", faqHandler.List)
				faqs.POST("", faqHandler.Create)
				faqs.POST("/refresh", faqHandler.Refresh)
				faqs.PUT("/:id/answer", faqHandler.UpdateAnswer)
				faqs.DELETE("/:id", faqHandler.Delete)
			}

			schedules := admin.Group("/schedules")
			{
				schedules.POST("", scheduleHandler.Create)
				schedules.POST("/refresh", scheduleHandler.Refresh)
				schedules.PUT("/:email/:id/class-type", scheduleHandler.SetClassType)
				schedules.DELETE("/:email/:id", scheduleHandler.Delete)
			}

			feedback := admin.Group("/feedback")
			{
				feedback.GET("", feedbackHandler.List)
				feedback.PUT("/:id/resolve", feedbackHandler.Resolve)
				feedback.POST("/:id/reply", feedbackHandler.Reply)
				feedback.DELETE("/:id", feedbackHandler.Delete)
			}
		}

		// Live inbox stream (websocket, token in path)
		r.GET("/feedback/live/:token", feedbackHandler.Live)
	}

	// Start the HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received, closing server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP server shutdown failed: %v", err)
	}

	log.Info("server shut down gracefully")
}
