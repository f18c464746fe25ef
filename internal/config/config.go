package config

import (
	"context"
	"errors"
	"time"

	"github.com/amankumarsingh77/hls-transcode-queue/pkg/utils"
	"github.com/spf13/viper"
)

const (
	StatusDriverRedis    = "redis"
	StatusDriverMongo    = "mongo"
	StatusDriverPostgres = "postgres"

	BlobDriverS3    = "s3"
	BlobDriverMinIO = "minio"

	DefaultTranscodeTimeout = 30 * time.Minute
)

type Config struct {
	Server      ServerConfig
	Postgres    DBConfig
	Redis       RedisConfig
	Mongo       MongoConfig
	S3          S3Config
	MinIO       MinIOConfig
	StatusStore StatusStoreConfig
	Blob        BlobConfig
	Upload      UploadConfig
	Transcoder  TranscoderConfig
	Logger      Logger
	Worker      WorkerConfig
	Metrics     MetricsConfig
}

type ServerConfig struct {
	AppVersion        string
	Port              string `validate:"required"`
	Mode              string
	BaseURL           string `validate:"required"`
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	CtxDefaultTimeout time.Duration
}

type WorkerConfig struct {
	// MaxCPUUsage of 0 disables the admission gate.
	MaxCPUUsage      float64 `validate:"gte=0,lte=100"`
	CPUCheckInterval time.Duration
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	PgDriver string
	SSLMode  string
}

type RedisConfig struct {
	RedisAddr       string
	RedisPassword   string
	DB              int
	MinIdleConns    int
	PoolSize        int
	PoolTimeout     int
	UseTLS          bool
	StatusKeyPrefix string
}

type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

type S3Config struct {
	Endpoint    string
	Region      string
	AccessKey   string
	SecretKey   string
	Bucket      string
	PartSizeMB  int64
	Concurrency int
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type StatusStoreConfig struct {
	Driver string `validate:"oneof=redis mongo postgres"`
}

type BlobConfig struct {
	Driver    string `validate:"oneof=s3 minio"`
	KeyPrefix string `validate:"required"`
}

type UploadConfig struct {
	StagingDir  string `validate:"required"`
	OutputRoot  string `validate:"required"`
	MaxFileSize int64  `validate:"gt=0"`
	Concurrency int    `validate:"gte=1,lte=64"`
}

type TranscoderConfig struct {
	FFmpegPath  string
	FFprobePath string
	// Timeout bounds a single transcode. Zero means no deadline.
	Timeout        time.Duration `validate:"gte=0"`
	SegmentSeconds int           `validate:"gte=1"`
	Preset         string
}

type Logger struct {
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
	Encoding          string
	Level             string
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.AddConfigPath(".")
	v.AutomaticEnv()
	v.SetDefault("transcoder.timeout", DefaultTranscodeTimeout)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFound) {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	c.SetDefaults()
	if err := utils.ValidateStruct(context.Background(), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// SetDefaults fills zero values that have a fallback. Transcoder.Timeout is not
// touched here: its default comes from viper so an explicit 0 stays unbounded.
func (c *Config) SetDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = ":5000"
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost" + c.Server.Port
	}
	if c.Server.CtxDefaultTimeout == 0 {
		c.Server.CtxDefaultTimeout = 5 * time.Second
	}
	if c.StatusStore.Driver == "" {
		c.StatusStore.Driver = StatusDriverRedis
	}
	if c.Blob.Driver == "" {
		c.Blob.Driver = BlobDriverS3
	}
	if c.Blob.KeyPrefix == "" {
		c.Blob.KeyPrefix = "videos-hls"
	}
	if c.Redis.StatusKeyPrefix == "" {
		c.Redis.StatusKeyPrefix = "video:status:"
	}
	if c.Mongo.Collection == "" {
		c.Mongo.Collection = "videoStatus"
	}
	if c.S3.PartSizeMB == 0 {
		c.S3.PartSizeMB = 5
	}
	if c.S3.Concurrency == 0 {
		c.S3.Concurrency = 4
	}
	if c.Upload.StagingDir == "" {
		c.Upload.StagingDir = "uploads/videos/temp"
	}
	if c.Upload.OutputRoot == "" {
		c.Upload.OutputRoot = "uploads/videos"
	}
	if c.Upload.MaxFileSize == 0 {
		c.Upload.MaxFileSize = 50 * 1024 * 1024
	}
	if c.Upload.Concurrency == 0 {
		c.Upload.Concurrency = 4
	}
	if c.Transcoder.FFmpegPath == "" {
		c.Transcoder.FFmpegPath = "ffmpeg"
	}
	if c.Transcoder.FFprobePath == "" {
		c.Transcoder.FFprobePath = "ffprobe"
	}
	if c.Transcoder.SegmentSeconds == 0 {
		c.Transcoder.SegmentSeconds = 6
	}
	if c.Transcoder.Preset == "" {
		c.Transcoder.Preset = "veryfast"
	}
	if c.Worker.CPUCheckInterval == 0 {
		c.Worker.CPUCheckInterval = 10 * time.Second
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}
