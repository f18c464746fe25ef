package videojobs

import "github.com/labstack/echo/v4"

type Handler interface {
	UploadVideoHLS() echo.HandlerFunc
	GetVideoHLSStatus() echo.HandlerFunc
	ServeVideoHLS() echo.HandlerFunc
}
