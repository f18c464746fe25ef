package utils

import (
	"github.com/amankumarsingh77/hls-transcode-queue/internal/models"
)

func GetDefaultMinBitrate(resolution string) int {
	switch resolution {
	case "1080p":
		return 3000
	case "720p":
		return 1500
	case "480p":
		return 500
	case "360p":
		return 300
	default:
		return 500
	}
}

func GetDefaultMaxBitrate(resolution string) int {
	switch resolution {
	case "1080p":
		return 8000
	case "720p":
		return 4000
	case "480p":
		return 2000
	case "360p":
		return 1000
	default:
		return 2000
	}
}

func AdjustBitrateToRange(bitrate, minBitrate, maxBitrate int) int {
	if bitrate < minBitrate {
		return minBitrate
	}
	if bitrate > maxBitrate {
		return maxBitrate
	}
	return bitrate
}

// GetDefaultRenditions returns the full ladder, highest first.
func GetDefaultRenditions() []models.Rendition {
	ladder := []models.Rendition{
		{Name: "1080p", Height: 1080, VideoBitrateK: 5000, AudioBitrateK: 192},
		{Name: "720p", Height: 720, VideoBitrateK: 2800, AudioBitrateK: 128},
		{Name: "480p", Height: 480, VideoBitrateK: 1400, AudioBitrateK: 128},
		{Name: "360p", Height: 360, VideoBitrateK: 800, AudioBitrateK: 96},
	}
	for i := range ladder {
		r := &ladder[i]
		r.VideoBitrateK = AdjustBitrateToRange(r.VideoBitrateK, GetDefaultMinBitrate(r.Name), GetDefaultMaxBitrate(r.Name))
		r.MaxRateK = r.VideoBitrateK * 107 / 100
		r.BufSizeK = r.VideoBitrateK * 3 / 2
	}
	return ladder
}

// RenditionsForHeight keeps the renditions that do not upscale a source of the
// given height. The smallest rung is always kept.
func RenditionsForHeight(sourceHeight int) []models.Rendition {
	all := GetDefaultRenditions()
	out := make([]models.Rendition, 0, len(all))
	for _, r := range all {
		if sourceHeight <= 0 || r.Height <= sourceHeight {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		out = append(out, all[len(all)-1])
	}
	return out
}
