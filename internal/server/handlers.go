package server

import (
	"net/http"
	"strconv"

	"github.com/amankumarsingh77/hls-transcode-queue/internal/middleware"
	videoHttp "github.com/amankumarsingh77/hls-transcode-queue/internal/videojobs/delivery/http"
	videoUsecase "github.com/amankumarsingh77/hls-transcode-queue/internal/videojobs/usecase"
	"github.com/amankumarsingh77/hls-transcode-queue/pkg/utils"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) MapHandlers(e *echo.Echo) error {
	videoUC := videoUsecase.NewVideoJobsUseCase(s.cfg, s.statusRepo, s.blobRepo, s.queue, s.logger)
	videoHandlers := videoHttp.NewVideoJobsHandler(s.cfg, videoUC, s.logger)

	mw := middleware.NewMiddlewareManager(s.cfg, []string{"*"}, s.logger)

	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.Recover())
	e.Use(mw.CORS())
	e.Use(mw.RequestLoggerMiddleware)
	e.Use(echoMiddleware.BodyLimit(bodyLimit(s.cfg.Upload.MaxFileSize)))

	if s.cfg.Metrics.Enabled {
		e.GET(s.cfg.Metrics.Path, echo.WrapHandler(promhttp.Handler()))
	}

	v1 := e.Group("/api/v1")
	health := v1.Group("/health")
	mediaGroup := v1.Group("/medias")
	staticGroup := e.Group("/static")

	videoHttp.MapVideoJobsRoutes(mediaGroup, videoHandlers)
	videoHttp.MapStaticRoutes(staticGroup, videoHandlers)

	health.GET("", func(c echo.Context) error {
		s.logger.Infof("Health check RequestID: %s", utils.GetRequestID(c))
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":       "OK",
			"queue_length": s.queue.Len(),
		})
	})
	return nil
}

// bodyLimit leaves headroom over the file cap for the multipart envelope.
func bodyLimit(maxFileSize int64) string {
	const envelope = 1 << 20
	return strconv.FormatInt(maxFileSize+envelope, 10)
}
