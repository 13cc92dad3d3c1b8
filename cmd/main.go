package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/config"
	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/gemini"
	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/handler"
	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/render"
	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/service"
	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/storage"
	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/pkg/logger"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./configs/config.yaml", "path to the configuration file")
	flag.Parse()

	// Local development convenience; missing .env is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	store := storage.NewMemoryStore()
	if err := store.Init(); err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	client := gemini.NewClient(context.Background(), cfg.Gemini)
	renderer := render.NewRenderer()
	sessions := service.NewSessionService(store, client, renderer, &cfg.Session)
	sessionHandler := handler.NewSessionHandler(sessions)

	router := setupRouter(cfg, sessionHandler)

	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Infof("Server listening on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server shutting down...")
	if err := server.Close(); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	logger.Info("Server stopped")
}

func setupRouter(cfg *config.Config, sessionHandler *handler.SessionHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})

	api := router.Group("/api")
	{
		session := api.Group("/session")
		{
			session.POST("", sessionHandler.CreateSession)
			session.GET("/list", sessionHandler.ListSessions)
			session.POST("/clear", sessionHandler.ClearSessions)
			session.GET("/:session_id", sessionHandler.GetSession)
			session.DELETE("/:session_id", sessionHandler.DeleteSession)

			session.POST("/:session_id/field", sessionHandler.SetField)
			session.POST("/:session_id/example", sessionHandler.LoadExampleData)

			session.POST("/:session_id/analysis", sessionHandler.SubmitAnalysis)
			session.POST("/:session_id/image", sessionHandler.SubmitImage)
			session.POST("/:session_id/chat", sessionHandler.SubmitChat)
			session.POST("/:session_id/search", sessionHandler.SubmitSearch)
			session.POST("/:session_id/maps", sessionHandler.SubmitMaps)
			session.POST("/:session_id/quick", sessionHandler.SubmitQuick)
		}
	}

	return router
}
