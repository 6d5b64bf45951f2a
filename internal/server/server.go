package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yigit/communityadmin/internal/bootstrap"
	"github.com/yigit/communityadmin/internal/config"
	"github.com/yigit/communityadmin/internal/workspace"
)

// Server holds the state for the HTTP server.
type Server struct {
	config   *config.Config
	router   *gin.Engine
	registry *workspace.Registry
	logger   zerolog.Logger
	http     *http.Server
}

// NewServer creates and initializes a new server instance by calling bootstrap functions.
func NewServer(configPath string) (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	router := bootstrap.SetupRouter(cfg, deps, lgr)

	return &Server{
		config:   cfg,
		router:   router,
		registry: deps.Registry,
		logger:   lgr,
	}, nil
}

// Handler returns the router
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until SIGINT or SIGTERM, sweeping idle workspaces meanwhile, then
// shuts down gracefully.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s.http = &http.Server{
		Addr:              ":" + s.config.Server.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		// uploads and proxied calls can take as long as the upstream timeout
		WriteTimeout: s.config.UpstreamTimeout() + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		s.sweepIdle(gctx, s.config.IdleTimeout())
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info().Msg("Initiating shutdown...")
		return s.Shutdown(context.Background())
	})
	return g.Wait()
}

// sweepIdle closes workspaces unused for longer than idle until ctx ends
func (s *Server) sweepIdle(ctx context.Context, idle time.Duration) {
	ticker := time.NewTicker(max(idle/4, time.Minute))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.registry.Sweep(now, idle); n > 0 {
				s.logger.Debug().Int("closed", n).Msg("Swept idle workspaces")
			}
		}
	}
}

// Shutdown gracefully stops the server and closes every workspace.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	shutdownError := false

	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			shutdownError = true
		} else {
			s.logger.Info().Msg("HTTP server gracefully stopped.")
		}
	}

	// Cancels in-flight upstream calls of every workspace
	s.logger.Info().Int("workspaces", s.registry.Len()).Msg("Closing workspaces...")
	s.registry.Close()

	s.logger.Info().Msg("Server shutdown process complete.")
	if shutdownError {
		return errors.New("server shutdown completed with errors")
	}
	return nil
}
