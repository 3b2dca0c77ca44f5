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

	"cvlens/internal/config"
	"cvlens/internal/observability"
)

// Start starts the HTTP server with graceful shutdown support
func (s *Server) Start() error {
	obsConfig := observability.GetObservabilityConfig(s.AppConfig, s.Version)
	om, err := observability.NewObservabilityManager(obsConfig, s.AppConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer s.shutdownObservability(om)

	s.startPromptWatcher()

	server := s.setupHTTPServer(om)
	s.displayServerInfo()

	return s.startWithGracefulShutdown(server)
}

// setupHTTPServer creates and configures the HTTP server
func (s *Server) setupHTTPServer(om *observability.ObservabilityManager) *http.Server {
	mux := s.setupRoutes(om)

	var handler http.Handler = mux
	if middleware := om.HTTPMiddleware(); middleware != nil {
		handler = middleware(mux)
	}

	return &http.Server{
		Addr:         s.Host + ":" + s.Port,
		Handler:      handler,
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
		IdleTimeout:  s.IdleTimeout,
	}
}

// startPromptWatcher begins watching configured prompt files for changes.
// Reloaded prompts take effect on the next request because the pipeline
// is built per request.
func (s *Server) startPromptWatcher() {
	files := s.AppConfig.PromptFiles()
	if len(files) == 0 {
		return
	}

	watcher := config.NewPromptWatcher(files, time.Second, func() {
		if err := s.AppConfig.ReloadPrompts(); err != nil {
			s.Logger.Warn("Prompt reload failed", "error", err.Error())
			return
		}
		s.Logger.Info("Prompts reloaded from files", "count", len(files))
	}, s.Logger)

	if err := watcher.Start(); err != nil {
		s.Logger.Warn("Prompt watcher failed to start", "error", err.Error())
		return
	}

	s.promptWatcher = watcher
	s.Logger.Info("Prompt hot-reload enabled", "files", len(files))
}

// startWithGracefulShutdown runs the server and handles graceful shutdown
func (s *Server) startWithGracefulShutdown(server *http.Server) error {
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-shutdown:
		log.Printf("Received signal %v, shutting down gracefully...", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if s.promptWatcher != nil {
			if err := s.promptWatcher.Stop(); err != nil {
				s.Logger.Warn("Failed to stop prompt watcher", "error", err.Error())
			}
		}

		if s.RateLimiter != nil {
			s.RateLimiter.Close()
		}

		if err := server.Shutdown(ctx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				log.Printf("Failed to force close server: %v", closeErr)
			}
			return fmt.Errorf("could not gracefully shutdown server: %w", err)
		}

		log.Println("Server shutdown complete")
		return nil
	}
}

// shutdownObservability flushes and shuts down the observability stack
func (s *Server) shutdownObservability(om *observability.ObservabilityManager) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := om.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown observability: %v", err)
	}
}
