// file: internal/server/server.go
// version: 1.1.0
// guid: 6d7e8f9a-0b1c-2d3e-4f5a-6b7c8d9e0f1a

package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jdfalk/flexster/internal/database"
	"github.com/jdfalk/flexster/internal/metrics"
)

// Server hosts the local playback demo page over HTTPS. Browsers refuse to
// hand the Spotify Web Playback SDK a token over plain HTTP, so even the
// localhost demo needs TLS with a throwaway self-signed certificate.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	store      *database.Store
}

// Config holds server configuration.
type Config struct {
	Host      string
	Port      string
	StaticDir string
	CertFile  string
	KeyFile   string
}

// DefaultConfig matches the demo setup: loopback only, port 8000.
func DefaultConfig() Config {
	return Config{
		Host:      "127.0.0.1",
		Port:      "8000",
		StaticDir: "web",
		CertFile:  "cert.pem",
		KeyFile:   "key.pem",
	}
}

// NewServer creates a server serving the static demo directory plus a small
// JSON API over the resolved track store. The store may be nil, in which case
// the API routes return 503.
func NewServer(store *database.Store, staticDir string) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	limiter := NewIPRateLimiter(300, 30)
	router.Use(limiter.Middleware())

	// Register metrics (idempotent)
	metrics.Register()

	server := &Server{router: router, store: store}
	server.setupRoutes(staticDir)
	return server
}

func (s *Server) setupRoutes(staticDir string) {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api")
	api.GET("/tracks", s.handleListTracks)
	api.GET("/tracks/:query", s.handleGetTrack)

	if staticDir != "" {
		if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
			s.router.Static("/demo", staticDir)
			s.router.GET("/", func(c *gin.Context) {
				c.Redirect(http.StatusFound, "/demo/")
			})
		} else {
			log.Printf("[WARN] server: static dir %s not found, demo page disabled", staticDir)
		}
	}
}

func (s *Server) handleListTracks(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no track database configured"})
		return
	}
	tracks, err := s.store.ListTracks()
	if err != nil {
		log.Printf("[ERROR] server: failed to list tracks: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tracks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tracks": tracks, "count": len(tracks)})
}

func (s *Server) handleGetTrack(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no track database configured"})
		return
	}
	track, err := s.store.GetTrack(c.Param("query"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "track not found"})
			return
		}
		log.Printf("[ERROR] server: failed to get track: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get track"})
		return
	}
	c.JSON(http.StatusOK, track)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start serves HTTPS until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start(cfg Config) error {
	if err := EnsureCertificate(cfg.CertFile, cfg.KeyFile); err != nil {
		return fmt.Errorf("failed to prepare TLS certificate: %w", err)
	}

	s.httpServer = &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:        s.router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	go func() {
		log.Printf("[INFO] server: listening on https://%s", s.httpServer.Addr)
		err := s.httpServer.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("[ERROR] server: failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("[INFO] server: shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Printf("[INFO] server: exited")
	return nil
}
