package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/fx"
)

var config = viper.New()

type Config struct {
	AppEnv     string `mapstructure:"APP_ENV"`
	AppName    string `mapstructure:"APP_NAME"`
	AppVersion string `mapstructure:"APP_VERSION"`
	TLS        struct {
		Enable   bool   `mapstructure:"ENABLE"`
		CertPath string `mapstructure:"CERT_PATH"`
		KeyPath  string `mapstructure:"KEY_PATH"`
	} `mapstructure:"TLS"`
	Server struct {
		Addr         string        `mapstructure:"ADDR"`
		ReadTimeout  time.Duration `mapstructure:"READ_TIMEOUT"`
		WriteTimeout time.Duration `mapstructure:"WRITE_TIMEOUT"`
		IdleTimeout  time.Duration `mapstructure:"IDLE_TIMEOUT"`
	} `mapstructure:"HTTP_SERVER"`
	Redis struct {
		Addr        string        `mapstructure:"ADDR"`
		Password    string        `mapstructure:"PASSWORD"`
		DB          int           `mapstructure:"DB"`
		PoolSize    int           `mapstructure:"POOL_SIZE"`
		PoolTimeout time.Duration `mapstructure:"POOL_TIMEOUT"`
	} `mapstructure:"REDIS"`
	Minio struct {
		Endpoint   string `mapstructure:"ENDPOINT"`
		AccessKey  string `mapstructure:"ACCESS_KEY"`
		SecretKey  string `mapstructure:"SECRET_KEY"`
		Secure     bool   `mapstructure:"SECURE"`
		BucketName string `mapstructure:"BUCKET_NAME"`
	} `mapstructure:"MINIO"`
	Queue struct {
		Concurrency    int           `mapstructure:"CONCURRENCY"`
		MaxAttempts    int           `mapstructure:"MAX_ATTEMPTS"`
		BaseRetryDelay time.Duration `mapstructure:"BASE_RETRY_DELAY"`
		LeaseTimeout   time.Duration `mapstructure:"LEASE_TIMEOUT"`
		Retention      time.Duration `mapstructure:"RETENTION"`
	} `mapstructure:"QUEUE"`
	Pipeline struct {
		TempDir            string        `mapstructure:"TEMP_DIR"`
		SegmentDuration    int           `mapstructure:"SEGMENT_DURATION"`
		PlaylistWindow     int           `mapstructure:"PLAYLIST_WINDOW"`
		ThumbnailCount     int           `mapstructure:"THUMBNAIL_COUNT"`
		PreviewMaxDuration time.Duration `mapstructure:"PREVIEW_MAX_DURATION"`
		StatusTTL          time.Duration `mapstructure:"STATUS_TTL"`
	} `mapstructure:"PIPELINE"`
	FFmpeg struct {
		BinPath   string `mapstructure:"BIN_PATH"`
		ProbePath string `mapstructure:"PROBE_PATH"`
		Preset    string `mapstructure:"PRESET"`
	} `mapstructure:"FFMPEG"`
}

var Module = fx.Module("config", fx.Provide(LoadConfig))

func LoadConfig() *Config {
	config.SetConfigName("config")
	config.SetConfigType("yaml")
	config.AddConfigPath(".")

	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()

	setDefaults()

	if err := config.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "read config file: %v\n", err)
			os.Exit(1)
		}
	}

	var cfg Config
	if err := config.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal config: %v\n", err)
		os.Exit(1)
	}

	return &cfg
}

func setDefaults() {
	config.SetDefault("APP_ENV", "development")
	config.SetDefault("APP_NAME", "mediaplane")
	config.SetDefault("HTTP_SERVER.ADDR", "8080")
	config.SetDefault("HTTP_SERVER.READ_TIMEOUT", 15*time.Second)
	config.SetDefault("HTTP_SERVER.WRITE_TIMEOUT", 30*time.Second)
	config.SetDefault("HTTP_SERVER.IDLE_TIMEOUT", 60*time.Second)
	config.SetDefault("REDIS.ADDR", "localhost:6379")
	config.SetDefault("MINIO.ENDPOINT", "localhost:9000")
	config.SetDefault("MINIO.BUCKET_NAME", "mediaplane")
	config.SetDefault("QUEUE.CONCURRENCY", 4)
	config.SetDefault("QUEUE.MAX_ATTEMPTS", 3)
	config.SetDefault("QUEUE.BASE_RETRY_DELAY", 30*time.Second)
	config.SetDefault("QUEUE.LEASE_TIMEOUT", 30*time.Minute)
	config.SetDefault("QUEUE.RETENTION", 24*time.Hour)
	config.SetDefault("PIPELINE.TEMP_DIR", os.TempDir())
	config.SetDefault("PIPELINE.SEGMENT_DURATION", 10)
	config.SetDefault("PIPELINE.PLAYLIST_WINDOW", 10)
	config.SetDefault("PIPELINE.THUMBNAIL_COUNT", 5)
	config.SetDefault("PIPELINE.PREVIEW_MAX_DURATION", 30*time.Second)
	config.SetDefault("PIPELINE.STATUS_TTL", 24*time.Hour)
	config.SetDefault("FFMPEG.BIN_PATH", "ffmpeg")
	config.SetDefault("FFMPEG.PROBE_PATH", "ffprobe")
	config.SetDefault("FFMPEG.PRESET", "veryfast")
}
