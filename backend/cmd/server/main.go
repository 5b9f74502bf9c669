package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"recall/backend/internal/constants"
	"recall/backend/internal/embedding"
	"recall/backend/internal/graph"
	"recall/backend/internal/reason"
	"recall/backend/internal/record"
	"recall/backend/internal/search"
	"recall/backend/internal/store/sqlite"
	"recall/backend/internal/story"
	"recall/backend/pkg/config"
	"recall/backend/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting memory intelligence server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Open the record store
	ctx := context.Background()
	store, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		log.Fatal("Failed to open record store", zap.Error(err))
	}
	defer store.Close()

	// Embedding provider is optional; without it the search engine runs in
	// keyword-only mode
	var embedder search.EmbeddingProvider
	if cfg.HasEmbeddings() {
		embedder = embedding.NewClient(cfg.EmbeddingURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel)
		log.Info("Embedding provider configured", zap.String("model", cfg.EmbeddingModel))
	} else {
		log.Info("No embedding provider configured, search is keyword-only")
	}

	// Initialize components
	engine := search.NewEngine(store, embedder)
	pipeline := reason.NewPipeline(store, engine)
	builder := graph.NewBuilder(cfg.CanvasWidth, cfg.CanvasHeight)
	stories := story.NewGenerator(store)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api")
	{
		// Entity co-occurrence graph over recent records
		api.GET("/graph", func(c *gin.Context) {
			ctx := c.Request.Context()

			records, err := store.Recent(ctx, constants.GraphRecordLimit)
			if err != nil {
				log.Warn("Graph fetch failed", zap.Error(err))
				records = nil
			}

			nodes, edges := builder.Build(records)

			// Relax the layout for the full tick budget before responding;
			// the live drag/tick loop belongs to interactive callers
			sim := graph.NewSimulation(nodes, edges, cfg.CanvasWidth, cfg.CanvasHeight)
			ticks := int(constants.LayoutDuration / constants.LayoutTickInterval)
			for i := 0; i < ticks; i++ {
				sim.Step(constants.LayoutTickInterval.Seconds())
			}

			c.JSON(http.StatusOK, gin.H{
				"nodes": sim.Snapshot(),
				"edges": edges,
			})
		})

		// Hybrid keyword + semantic search
		api.GET("/search", func(c *gin.Context) {
			results := engine.Search(c.Request.Context(), c.Query("q"))
			c.JSON(http.StatusOK, gin.H{
				"results": results,
				"count":   len(results),
			})
		})

		// Multi-step reasoning over a free-text question
		api.POST("/reason", func(c *gin.Context) {
			var req struct {
				Question string `json:"question" binding:"required"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			result := pipeline.Reason(c.Request.Context(), req.Question, nil)
			c.JSON(http.StatusOK, result)
		})

		// Narrative digests
		api.GET("/stories", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"stories": stories.Generate(c.Request.Context())})
		})

		// Ingestion surface for the record collaborator
		api.POST("/records", func(c *gin.Context) {
			var req struct {
				Title    string   `json:"title" binding:"required"`
				Content  string   `json:"content" binding:"required"`
				Category string   `json:"category"`
				Source   string   `json:"source"`
				FilePath string   `json:"file_path"`
				Tags     []string `json:"tags"`
				Favorite bool     `json:"favorite"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			rec, err := store.Insert(c.Request.Context(), record.Record{
				Title:    req.Title,
				Content:  req.Content,
				Category: record.ParseCategory(req.Category),
				Source:   req.Source,
				FilePath: req.FilePath,
				Tags:     req.Tags,
				Favorite: req.Favorite,
			})
			if err != nil {
				log.Error("Failed to store record", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store record"})
				return
			}

			c.JSON(http.StatusCreated, rec)
		})

		api.GET("/records/count", func(c *gin.Context) {
			count, err := store.Count(c.Request.Context())
			if err != nil {
				log.Error("Failed to count records", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count records"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"count": count})
		})
	}

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
