// Package server exposes the fill engine over HTTP: a JSON solve
// endpoint, a websocket variant, and an optional redis-backed solution
// cache. The word database is loaded once and shared read-only across
// requests.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/crosshare-org/crosshare/pkg/worddb"
)

// Config holds the server configuration, typically read from the
// environment.
type Config struct {
	Port        string
	RedisURL    string // Empty disables the solution cache
	Wordlist    string // Text wordlist path (WORD;SCORE)
	Cluedata    string // Binary clue dataset path; Wordlist wins if both set
	Discrepancy int
	CacheTTL    time.Duration
}

// ConfigFromEnv builds a Config from environment variables.
func ConfigFromEnv() Config {
	return Config{
		Port:     getEnv("PORT", "8080"),
		RedisURL: os.Getenv("REDIS_URL"),
		Wordlist: os.Getenv("WORDLIST"),
		Cluedata: os.Getenv("CLUEDATA"),
		CacheTTL: 24 * time.Hour,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Server handles solve requests against one shared word database.
type Server struct {
	db          *worddb.DB
	cache       *redis.Client
	cacheTTL    time.Duration
	discrepancy int
}

// New creates a server. cache may be nil to run without a solution
// cache.
func New(db *worddb.DB, cache *redis.Client, cfg Config) *Server {
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &Server{
		db:          db,
		cache:       cache,
		cacheTTL:    ttl,
		discrepancy: cfg.Discrepancy,
	}
}

// Router builds the gin router with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"words":  s.db.Size(),
			"time":   time.Now().Unix(),
		})
	})

	api := router.Group("/api")
	{
		api.POST("/solve", s.handleSolve)
		api.GET("/solve/ws", s.handleSolveWs)
	}

	return router
}

// Run loads the database described by cfg, starts the HTTP server and
// blocks until SIGINT/SIGTERM, then shuts down gracefully.
func Run(cfg Config) error {
	var (
		db  *worddb.DB
		err error
	)
	switch {
	case cfg.Wordlist != "":
		db, err = worddb.LoadWordlist(cfg.Wordlist)
	case cfg.Cluedata != "":
		db, err = worddb.Open(cfg.Cluedata)
	default:
		return fmt.Errorf("no word database configured: set WORDLIST or CLUEDATA")
	}
	if err != nil {
		return fmt.Errorf("failed to load word database: %w", err)
	}
	log.Printf("Loaded %d words", db.Size())

	var cache *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to parse redis url: %w", err)
		}
		cache = redis.NewClient(opt)
		if err := cache.Ping(context.Background()).Err(); err != nil {
			log.Printf("Warning: redis unavailable, running without solution cache: %v", err)
			cache = nil
		} else {
			log.Println("Solution cache connected")
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: New(db, cache, cfg).Router(),
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server exited")
	return nil
}
