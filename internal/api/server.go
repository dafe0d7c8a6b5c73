// Package api serves the weekly board over HTTP as JSON.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tgienger/weekly/internal/api/handlers"
	"github.com/tgienger/weekly/internal/engine"
	"github.com/tgienger/weekly/internal/models"
)

const shutdownTimeout = 5 * time.Second

// Options configures the server
type Options struct {
	CopyDefaults models.CopySettings
	WeekCount    int
	Now          func() time.Time
}

// Server is the weekly HTTP API
type Server struct {
	router *gin.Engine
	log    *logrus.Entry
}

// NewServer wires every handler onto a fresh router
func NewServer(eng *engine.Engine, opts Options, log *logrus.Entry) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	handlers.NewTaskHandler(eng, log, opts.CopyDefaults).EnrichRoutes(router)
	handlers.NewWeekHandler(eng, log, opts.WeekCount, opts.Now).EnrichRoutes(router)
	handlers.NewDirectoryHandler(eng, log).EnrichRoutes(router)

	return &Server{router: router, log: log}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func requestLogger(log *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}).Debug("request")
	}
}
