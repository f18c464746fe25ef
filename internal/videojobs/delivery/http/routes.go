package http

import (
	"github.com/amankumarsingh77/hls-transcode-queue/internal/videojobs"
	"github.com/labstack/echo/v4"
)

func MapVideoJobsRoutes(mediaGroup *echo.Group, h videojobs.Handler) {
	mediaGroup.POST("/upload-video-hls", h.UploadVideoHLS())
	mediaGroup.GET("/video-hls-status/:id", h.GetVideoHLSStatus())
}

func MapStaticRoutes(staticGroup *echo.Group, h videojobs.Handler) {
	staticGroup.GET("/video-hls/:id/*", h.ServeVideoHLS())
}
