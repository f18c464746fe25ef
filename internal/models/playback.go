package models

// Rendition is one rung of the adaptive bitrate ladder.
type Rendition struct {
	Name          string `json:"name"`
	Height        int    `json:"height"`
	VideoBitrateK int    `json:"video_bitrate_k"`
	MaxRateK      int    `json:"max_rate_k"`
	BufSizeK      int    `json:"buf_size_k"`
	AudioBitrateK int    `json:"audio_bitrate_k"`
}

type VideoInfo struct {
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Duration float64 `json:"duration"`
	HasAudio bool    `json:"has_audio"`
}
