package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/content-audit/backend/analyzer"
	"github.com/content-audit/backend/logging"
	"github.com/content-audit/backend/middleware"
	"github.com/content-audit/backend/suggest"
)

var (
	engine    *analyzer.Service
	suggester *suggest.Client
)

func loadEnv() {
	// Try .env.development first (local development), then the regular .env.
	if err := godotenv.Load(".env.development"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, using environment variables")
		}
	}
}

func setupGinMode() {
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
}

func main() {
	loadEnv()
	setupGinMode()

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	var err error
	engine, err = analyzer.NewService(dataDir)
	if err != nil {
		log.Fatal("Failed to initialize analyzer service:", err)
	}
	defer engine.Shutdown()

	// The suggestion collaborator is optional: without an API key the scoring
	// path still works and /api/suggest degrades.
	if client, err := suggest.NewClient(context.Background()); err != nil {
		log.Printf("Suggestion client disabled: %v", err)
	} else {
		suggester = client
		defer suggester.Close()
	}

	rateLimiter := middleware.NewRateLimiterFromEnv()
	stats := logging.Initialize()

	r := gin.Default()

	r.Use(middleware.ErrorHandler())
	r.Use(rateLimiter.RateLimit())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.Use(middleware.Stats(stats))

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})

		api.POST("/analyze", analyzeContent)
		api.POST("/suggest", suggestContent)

		api.GET("/statistics", func(c *gin.Context) {
			c.JSON(http.StatusOK, stats.GetStatistics())
		})
		api.GET("/cache", func(c *gin.Context) {
			c.JSON(http.StatusOK, engine.GetCacheStats())
		})
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8082"
	}

	log.Printf("Server starting on http://localhost:%s\n", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func analyzeContent(c *gin.Context) {
	var input analyzer.ContentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid analysis input",
		})
		return
	}

	c.Set(middleware.FocusKeywordKey, input.FocusKeyword)

	c.JSON(http.StatusOK, engine.Analyze(input))
}

func suggestContent(c *gin.Context) {
	var input analyzer.ContentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid analysis input",
		})
		return
	}

	result := engine.Analyze(input)

	if suggester == nil {
		c.JSON(http.StatusOK, gin.H{
			"analysis":   result,
			"suggestion": nil,
			"error":      "suggestion unavailable",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	suggestion, err := suggester.Optimize(ctx, input, result)
	if err != nil {
		engine.RecordSuggestionFailure()
		c.JSON(http.StatusOK, gin.H{
			"analysis":   result,
			"suggestion": nil,
			"error":      "suggestion unavailable",
		})
		return
	}

	engine.RecordSuggestion()
	c.JSON(http.StatusOK, gin.H{
		"analysis":   result,
		"suggestion": suggestion,
	})
}
