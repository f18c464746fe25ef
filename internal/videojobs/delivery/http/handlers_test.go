package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/amankumarsingh77/hls-transcode-queue/internal/config"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/models"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/videojobs/fake"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/videojobs/usecase"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/worker"
	"github.com/amankumarsingh77/hls-transcode-queue/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mp4Header = []byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom")

type handlerEnv struct {
	e      *echo.Echo
	cfg    *config.Config
	status *fake.StatusStore
	blob   *fake.BlobStore
	queue  *worker.Queue
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()
	cfg := &config.Config{}
	cfg.Server.BaseURL = "http://localhost:5000/"
	cfg.Blob.KeyPrefix = "videos-hls"
	cfg.Upload.StagingDir = t.TempDir()
	cfg.Upload.MaxFileSize = 1 << 20

	env := &handlerEnv{
		e:      echo.New(),
		cfg:    cfg,
		status: fake.NewStatusStore(),
		blob:   fake.NewBlobStore(),
		queue:  worker.NewQueue(),
	}
	uc := usecase.NewVideoJobsUseCase(cfg, env.status, env.blob, env.queue, logger.NewNopLogger())
	h := NewVideoJobsHandler(cfg, uc, logger.NewNopLogger())
	MapVideoJobsRoutes(env.e.Group("/api/v1/medias"), h)
	MapStaticRoutes(env.e.Group("/static"), h)
	return env
}

func (env *handlerEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="video"; filename="`+filename+`"`)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/medias/upload-video-hls", body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	return req
}

type uploadResponse struct {
	Message string              `json:"message"`
	Result  models.SubmitResult `json:"result"`
}

func stagedFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var out []string
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out
}

func TestUploadVideoHLS_QueuesJob(t *testing.T) {
	env := newHandlerEnv(t)

	rec := env.do(uploadRequest(t, "Holiday.MP4", "video/mp4", mp4Header))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Upload success", resp.Message)
	assert.Equal(t, models.JobStatusPending, resp.Result.Status)
	assert.Equal(t, "http://localhost:5000/static/video-hls/"+resp.Result.Identity+"/master.m3u8", resp.Result.ManifestURL)

	files := stagedFiles(t, env.cfg.Upload.StagingDir)
	require.Len(t, files, 1)
	assert.Equal(t, ".mp4", filepath.Ext(files[0]))
	assert.Equal(t, files[0][:len(files[0])-len(".mp4")], resp.Result.Identity)

	got, ok := env.status.Status(resp.Result.Identity)
	require.True(t, ok)
	assert.Equal(t, models.JobStatusPending, got)
	assert.Equal(t, 1, env.queue.Len())
}

func TestUploadVideoHLS_SniffsOctetStream(t *testing.T) {
	env := newHandlerEnv(t)

	rec := env.do(uploadRequest(t, "clip.mp4", echo.MIMEOctetStream, mp4Header))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestUploadVideoHLS_Rejections(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		env := newHandlerEnv(t)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/medias/upload-video-hls", nil)
		assert.Equal(t, http.StatusBadRequest, env.do(req).Code)
	})

	t.Run("unsupported format", func(t *testing.T) {
		env := newHandlerEnv(t)
		rec := env.do(uploadRequest(t, "notes.txt", "text/plain", []byte("hello")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, stagedFiles(t, env.cfg.Upload.StagingDir))
		assert.Equal(t, 0, env.queue.Len())
	})

	t.Run("too large", func(t *testing.T) {
		env := newHandlerEnv(t)
		env.cfg.Upload.MaxFileSize = 8
		rec := env.do(uploadRequest(t, "clip.mp4", "video/mp4", mp4Header))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("status store down", func(t *testing.T) {
		env := newHandlerEnv(t)
		env.status.FailCreate = true
		rec := env.do(uploadRequest(t, "clip.mp4", "video/mp4", mp4Header))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Empty(t, stagedFiles(t, env.cfg.Upload.StagingDir))
		assert.Equal(t, 0, env.queue.Len())
	})
}

func TestGetVideoHLSStatus(t *testing.T) {
	env := newHandlerEnv(t)
	require.NoError(t, env.status.CreatePending(context.Background(), "clip1"))
	require.NoError(t, env.status.MarkProcessing(context.Background(), "clip1"))

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/medias/video-hls-status/clip1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Result models.StatusRecord `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "clip1", resp.Result.Name)
	assert.Equal(t, models.JobStatusProcessing, resp.Result.Status)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/medias/video-hls-status/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeVideoHLS(t *testing.T) {
	env := newHandlerEnv(t)
	env.blob.Put("videos-hls/clip1/master.m3u8", "application/vnd.apple.mpegurl", []byte("#EXTM3U\n"))
	env.blob.Put("videos-hls/clip1/v0/fileSequence0.ts", "", []byte{0x47, 0x40})

	rec := env.do(httptest.NewRequest(http.MethodGet, "/static/video-hls/clip1/master.m3u8", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.apple.mpegurl", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "#EXTM3U\n", rec.Body.String())

	rec = env.do(httptest.NewRequest(http.MethodGet, "/static/video-hls/clip1/v0/fileSequence0.ts", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "video/mp2t", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "2", rec.Header().Get(echo.HeaderContentLength))

	rec = env.do(httptest.NewRequest(http.MethodGet, "/static/video-hls/clip1/v1/prog_index.m3u8", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/static/video-hls/clip1/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeVideoHLS_RejectsDotIdentities(t *testing.T) {
	env := newHandlerEnv(t)
	env.blob.Put("images/private.jpg", "image/jpeg", []byte("PRIVATE"))
	env.blob.Put("videos-hls/images/private.jpg", "image/jpeg", []byte("PRIVATE"))

	for _, target := range []string{
		"/static/video-hls/../images/private.jpg",
		"/static/video-hls/./images/private.jpg",
	} {
		rec := env.do(httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.NotContains(t, rec.Body.String(), "PRIVATE", target)
	}
}
