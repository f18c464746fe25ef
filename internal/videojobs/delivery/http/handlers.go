package http

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/amankumarsingh77/hls-transcode-queue/internal/config"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/models"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/videojobs"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/worker"
	"github.com/amankumarsingh77/hls-transcode-queue/pkg/logger"
	"github.com/amankumarsingh77/hls-transcode-queue/pkg/utils"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const videoFormField = "video"

type videoJobsHandler struct {
	cfg     *config.Config
	videoUC videojobs.UseCase
	logger  logger.Logger
}

func NewVideoJobsHandler(cfg *config.Config, videoUC videojobs.UseCase, log logger.Logger) videojobs.Handler {
	return &videoJobsHandler{
		cfg:     cfg,
		videoUC: videoUC,
		logger:  log,
	}
}

func (h *videoJobsHandler) UploadVideoHLS() echo.HandlerFunc {
	return func(c echo.Context) error {
		file, err := c.FormFile(videoFormField)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "video file is required"})
		}
		if file.Size > h.cfg.Upload.MaxFileSize {
			return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": "video file is too large"})
		}

		input := &models.VideoUploadInput{
			FileName: file.Filename,
			FileSize: file.Size,
			MimeType: file.Header.Get(echo.HeaderContentType),
			File:     file,
		}
		if input.MimeType == "" || input.MimeType == echo.MIMEOctetStream {
			input.MimeType = sniffMimeType(file)
		}
		if err := utils.ValidateStruct(c.Request().Context(), input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid video upload"})
		}
		if !isAcceptedVideo(input.MimeType) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "unsupported video format"})
		}

		stagedPath, err := h.stageUpload(input)
		if err != nil {
			h.logger.Errorf("UploadVideoHLS - stageUpload error: %v, RequestID: %s", err, utils.GetRequestID(c))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to store upload"})
		}

		ctx, cancel := h.requestContext(c)
		defer cancel()

		result, err := h.videoUC.Submit(ctx, stagedPath)
		if err != nil {
			_ = os.Remove(stagedPath)
			h.logger.Errorf("UploadVideoHLS - Submit error: %v, RequestID: %s", err, utils.GetRequestID(c))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to queue video"})
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "Upload success",
			"result":  result,
		})
	}
}

func (h *videoJobsHandler) GetVideoHLSStatus() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := h.requestContext(c)
		defer cancel()

		record, err := h.videoUC.GetStatus(ctx, c.Param("id"))
		if err != nil {
			switch {
			case errors.Is(err, videojobs.ErrNotFound):
				return c.JSON(http.StatusNotFound, map[string]string{"error": "video status not found"})
			case errors.Is(err, videojobs.ErrInvalidIdentity):
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid video id"})
			default:
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get video status"})
			}
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "Get video status success",
			"result":  record,
		})
	}
}

func (h *videoJobsHandler) ServeVideoHLS() echo.HandlerFunc {
	return func(c echo.Context) error {
		obj, err := h.videoUC.OpenArtifact(c.Request().Context(), c.Param("id"), c.Param("*"))
		if err != nil {
			switch {
			case errors.Is(err, videojobs.ErrNotFound),
				errors.Is(err, videojobs.ErrInvalidArtifactPath),
				errors.Is(err, videojobs.ErrInvalidIdentity):
				return c.String(http.StatusNotFound, "Not found")
			default:
				h.logger.Errorf("ServeVideoHLS - OpenArtifact error: %v", err)
				return c.String(http.StatusBadGateway, "Blob store unavailable")
			}
		}
		defer obj.Body.Close()

		contentType := obj.ContentType
		if contentType == "" || contentType == echo.MIMEOctetStream {
			contentType = worker.ContentType(c.Param("*"))
		}
		if obj.ContentLength > 0 {
			c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(obj.ContentLength, 10))
		}
		return c.Stream(http.StatusOK, contentType, obj.Body)
	}
}

func (h *videoJobsHandler) requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	if h.cfg.Server.CtxDefaultTimeout > 0 {
		return context.WithTimeout(c.Request().Context(), h.cfg.Server.CtxDefaultTimeout)
	}
	return context.WithCancel(c.Request().Context())
}

// stageUpload copies the multipart file into the staging dir as <uuid><ext>.
func (h *videoJobsHandler) stageUpload(input *models.VideoUploadInput) (string, error) {
	if err := os.MkdirAll(h.cfg.Upload.StagingDir, 0o755); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(input.FileName))
	if ext == "" {
		ext = extensionForMime(input.MimeType)
	}
	dst := filepath.Join(h.cfg.Upload.StagingDir, uuid.New().String()+ext)

	src, err := input.File.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err = io.Copy(out, src); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return "", err
	}
	if err = out.Close(); err != nil {
		_ = os.Remove(dst)
		return "", err
	}
	return dst, nil
}

func isAcceptedVideo(mimeType string) bool {
	return strings.Contains(mimeType, "mp4") || strings.Contains(mimeType, "quicktime")
}

func extensionForMime(mimeType string) string {
	if strings.Contains(mimeType, "quicktime") {
		return ".mov"
	}
	return ".mp4"
}

func sniffMimeType(file *multipart.FileHeader) string {
	src, err := file.Open()
	if err != nil {
		return ""
	}
	defer src.Close()
	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return ""
	}
	return mt.String()
}
