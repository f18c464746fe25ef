package middleware

import (
	"github.com/amankumarsingh77/hls-transcode-queue/internal/config"
	"github.com/amankumarsingh77/hls-transcode-queue/pkg/logger"
)

type MiddlewareManager struct {
	cfg     *config.Config
	origins []string
	logger  logger.Logger
}

// Middleware manager constructor
func NewMiddlewareManager(cfg *config.Config, origins []string, logger logger.Logger) *MiddlewareManager {
	return &MiddlewareManager{cfg: cfg, origins: origins, logger: logger}
}
