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
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"plantspace/internal/auth"
	"plantspace/internal/config"
	"plantspace/internal/db"
	"plantspace/internal/handlers"
	"plantspace/internal/media"
	"plantspace/internal/middleware"
	"plantspace/internal/observability"
	"plantspace/internal/relay"
	"plantspace/internal/repositories"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("invalid configuration")
	}

	log := newLogger(cfg)
	zlog.Logger = log
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.OTEL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up tracing")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	database, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to db")
	}
	defer database.Close()

	publisher := observability.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, log)
	defer publisher.Close()

	mediaStore, err := media.NewStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up media store")
	}

	userRepo := repositories.NewUserRepo(database)
	postRepo := repositories.NewPostRepo(database)
	commentRepo := repositories.NewCommentRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	moderationRepo := repositories.NewModerationRepo(database)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	verifier := auth.NewVerifier(tokens, userRepo)

	hub := relay.NewHub()
	relayRouter := relay.New(hub, messageRepo, publisher, log)
	relayHandler := relay.NewHandler(relayRouter, verifier, log)

	authHandler := handlers.NewAuthHandler(userRepo, tokens, cfg.MinPassword)
	postHandler := handlers.NewPostHandler(postRepo)
	userHandler := handlers.NewUserHandler(userRepo)
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo)
	messageHandler := handlers.NewMessageHandler(messageRepo, hub)
	moderationHandler := handlers.NewModerationHandler(moderationRepo, publisher)
	verificationHandler := handlers.NewVerificationHandler(moderationRepo, userRepo)
	mediaHandler := handlers.NewMediaHandler(mediaStore)

	limiter := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(cfg))
	router.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(limiter.Handler())

	requireAuth := middleware.RequireAuth(verifier)
	optionalAuth := middleware.OptionalAuth(verifier)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/profile", requireAuth, authHandler.Profile)
		authGroup.PUT("/profile", requireAuth, authHandler.UpdateProfile)
		authGroup.PUT("/password", requireAuth, authHandler.UpdatePassword)
	}

	posts := router.Group("/posts")
	{
		posts.GET("/feed", optionalAuth, postHandler.Feed)
		posts.POST("", requireAuth, postHandler.Create)
		posts.GET("/:id", optionalAuth, postHandler.Get)
		posts.DELETE("/:id", requireAuth, postHandler.Delete)
		posts.POST("/:id/like", requireAuth, postHandler.Like)
		posts.DELETE("/:id/like", requireAuth, postHandler.Unlike)
	}

	users := router.Group("/users")
	{
		users.GET("/search", userHandler.Search)
		users.GET("/:id", optionalAuth, userHandler.Get)
		users.POST("/:id/follow", requireAuth, userHandler.Follow)
		users.DELETE("/:id/follow", requireAuth, userHandler.Unfollow)
	}

	comments := router.Group("/comments")
	{
		comments.POST("/posts/:postId/comments", requireAuth, commentHandler.Create)
		comments.GET("/posts/:postId/comments", commentHandler.List)
		comments.DELETE("/:commentId", requireAuth, commentHandler.Delete)
	}

	messages := router.Group("/messages", requireAuth)
	{
		messages.GET("/conversations", messageHandler.Conversations)
		messages.GET("/:otherUserId", messageHandler.Thread)
		messages.POST("", messageHandler.Create)
		messages.PUT("/:otherUserId/read", messageHandler.MarkRead)
		messages.DELETE("/:messageId", messageHandler.Delete)
	}

	moderation := router.Group("/moderation", requireAuth)
	{
		moderation.POST("/reports", moderationHandler.CreateReport)
		moderation.GET("/reports", moderationHandler.ListReports)
		moderation.PUT("/reports/:id", moderationHandler.UpdateReport)
	}

	verification := router.Group("/verification", requireAuth)
	{
		verification.POST("/request", verificationHandler.Request)
		verification.GET("/requests", verificationHandler.List)
		verification.PUT("/requests/:id", verificationHandler.Resolve)
	}

	router.POST("/media/upload", requireAuth, mediaHandler.Upload)
	router.Static("/uploads", mediaStore.Dir())

	router.GET("/ws", relayHandler.Handle)

	router.GET("/healthz", func(c *gin.Context) {
		if err := database.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out = zerolog.New(os.Stdout)
	if cfg.LogPretty {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	return out.Level(level).With().Timestamp().Str("service", "plantspace").Logger()
}

func corsMiddleware(cfg config.Config) gin.HandlerFunc {
	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Request-ID")
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	return cors.New(corsCfg)
}
