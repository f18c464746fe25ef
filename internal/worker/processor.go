package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/amankumarsingh77/hls-transcode-queue/internal/config"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/models"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/videojobs"
	"github.com/amankumarsingh77/hls-transcode-queue/pkg/logger"
	"github.com/amankumarsingh77/hls-transcode-queue/pkg/utils"
)

type ffmpegTranscoder struct {
	cfg        config.TranscoderConfig
	outputRoot string
	logger     logger.Logger
	run        commandRunner
}

// NewFFmpegTranscoder builds the multi-rendition HLS engine. Output for job
// <name> is written under <Upload.OutputRoot>/<name>.
func NewFFmpegTranscoder(cfg *config.Config, log logger.Logger) videojobs.Transcoder {
	return &ffmpegTranscoder{
		cfg:        cfg.Transcoder,
		outputRoot: cfg.Upload.OutputRoot,
		logger:     log,
		run:        execCommand,
	}
}

func execCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

func (t *ffmpegTranscoder) Transcode(ctx context.Context, sourcePath, name string) (string, error) {
	info, err := t.GetVideoInfo(ctx, sourcePath)
	if err != nil {
		return "", err
	}
	renditions := utils.RenditionsForHeight(info.Height)

	outputDir := filepath.Join(t.outputRoot, name)
	if err := os.RemoveAll(outputDir); err != nil {
		return "", fmt.Errorf("failed to reset output dir: %w", err)
	}
	for i := range renditions {
		if err := os.MkdirAll(filepath.Join(outputDir, fmt.Sprintf(variantDirFmt, i)), 0o755); err != nil {
			return "", fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	args := buildHLSArgs(sourcePath, outputDir, renditions, info.HasAudio, t.cfg.SegmentSeconds, t.cfg.Preset)
	t.logger.Infof("Transcode - %s: %d renditions from %dx%d", name, len(renditions), info.Width, info.Height)
	if output, err := t.run(ctx, t.cfg.FFmpegPath, args...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("ffmpeg interrupted: %w", ctxErr)
		}
		return "", fmt.Errorf("ffmpeg failed: %v, output: %s", err, tail(output, 2048))
	}

	if err := verifyPackagedOutput(outputDir); err != nil {
		return "", err
	}
	return outputDir, nil
}

type probeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func (t *ffmpegTranscoder) GetVideoInfo(ctx context.Context, inputPath string) (*models.VideoInfo, error) {
	output, err := t.run(ctx, t.cfg.FFprobePath,
		"-v", "error",
		"-print_format", "json",
		"-show_entries", "stream=codec_type,width,height:format=duration",
		inputPath,
	)
	if err != nil {
		return nil, fmt.Errorf("ffprobe error: %v output: %s", err, tail(output, 1024))
	}
	return parseProbeOutput(output)
}

func parseProbeOutput(output []byte) (*models.VideoInfo, error) {
	var probe probeOutput
	if err := json.Unmarshal(output, &probe); err != nil {
		return nil, fmt.Errorf("unexpected ffprobe output: %w", err)
	}

	info := &models.VideoInfo{}
	foundVideo := false
	for _, s := range probe.Streams {
		switch s.CodecType {
		case "video":
			if !foundVideo {
				info.Width, info.Height = s.Width, s.Height
				foundVideo = true
			}
		case "audio":
			info.HasAudio = true
		}
	}
	if !foundVideo {
		return nil, fmt.Errorf("no video stream found")
	}
	if d := strings.TrimSpace(probe.Format.Duration); d != "" {
		duration, err := strconv.ParseFloat(d, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid duration: %v", err)
		}
		info.Duration = duration
	}
	return info, nil
}

// buildHLSArgs produces a single ffmpeg invocation that scales the source into
// every rendition and writes a master playlist plus one variant per rendition.
func buildHLSArgs(input, outputDir string, renditions []models.Rendition, withAudio bool, segmentSeconds int, preset string) []string {
	n := len(renditions)

	var filter strings.Builder
	fmt.Fprintf(&filter, "[0:v]split=%d", n)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&filter, "[v%d]", i)
	}
	for i, r := range renditions {
		fmt.Fprintf(&filter, ";[v%d]scale=w=-2:h=%d[v%dout]", i, r.Height, i)
	}

	args := []string{"-y", "-i", input, "-filter_complex", filter.String()}

	streamMap := make([]string, 0, n)
	for i, r := range renditions {
		idx := strconv.Itoa(i)
		args = append(args,
			"-map", "[v"+idx+"out]",
			"-c:v:"+idx, "libx264",
			"-b:v:"+idx, fmt.Sprintf("%dk", r.VideoBitrateK),
			"-maxrate:v:"+idx, fmt.Sprintf("%dk", r.MaxRateK),
			"-bufsize:v:"+idx, fmt.Sprintf("%dk", r.BufSizeK),
		)
		if withAudio {
			args = append(args,
				"-map", "a:0",
				"-c:a:"+idx, "aac",
				"-b:a:"+idx, fmt.Sprintf("%dk", r.AudioBitrateK),
				"-ac", "2",
			)
			streamMap = append(streamMap, fmt.Sprintf("v:%d,a:%d", i, i))
		} else {
			streamMap = append(streamMap, fmt.Sprintf("v:%d", i))
		}
	}

	args = append(args,
		"-preset", preset,
		"-g", "48",
		"-sc_threshold", "0",
		"-f", "hls",
		"-hls_time", strconv.Itoa(segmentSeconds),
		"-hls_playlist_type", "vod",
		"-hls_flags", "independent_segments",
		"-hls_segment_type", "mpegts",
		"-hls_segment_filename", filepath.Join(outputDir, "v%v", segmentPattern),
		"-master_pl_name", videojobs.ManifestName,
		"-var_stream_map", strings.Join(streamMap, " "),
		filepath.Join(outputDir, "v%v", variantPlaylist),
	)
	return args
}

func tail(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return string(b)
}
