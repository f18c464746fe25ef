package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amankumarsingh77/hls-transcode-queue/internal/config"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/videojobs"
	"github.com/amankumarsingh77/hls-transcode-queue/pkg/logger"
	"github.com/labstack/echo/v4"
)

const (
	maxHeaderBytes  = 1 << 20
	shutdownTimeout = 5 * time.Second
)

type Server struct {
	echo       *echo.Echo
	cfg        *config.Config
	statusRepo videojobs.StatusRepository
	blobRepo   videojobs.BlobRepository
	queue      videojobs.JobQueue
	logger     logger.Logger
}

func NewServer(
	cfg *config.Config,
	statusRepo videojobs.StatusRepository,
	blobRepo videojobs.BlobRepository,
	queue videojobs.JobQueue,
	logger logger.Logger,
) *Server {
	return &Server{
		echo:       echo.New(),
		cfg:        cfg,
		statusRepo: statusRepo,
		blobRepo:   blobRepo,
		queue:      queue,
		logger:     logger,
	}
}

// Run serves until SIGINT/SIGTERM or ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if err := s.MapHandlers(s.echo); err != nil {
		return err
	}
	s.echo.HideBanner = true

	server := &http.Server{
		Addr:           s.cfg.Server.Port,
		ReadTimeout:    s.cfg.Server.ReadTimeout,
		WriteTimeout:   s.cfg.Server.WriteTimeout,
		MaxHeaderBytes: maxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Server is listening on PORT: %s", s.cfg.Server.Port)
		if err := s.echo.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, os.Interrupt)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down server")
	return s.echo.Shutdown(shutdownCtx)
}
