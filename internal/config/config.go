// Package config loads server settings from LUXE_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "LUXE"

type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080" validate:"required"`

	Env      string `envconfig:"ENV" default:"dev" validate:"oneof=dev prod"`
	DBPath   string `envconfig:"DB_PATH" default:"./data/luxe.db" validate:"required"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	// Face matching
	SimilarityThreshold float64       `envconfig:"SIMILARITY_THRESHOLD" default:"0.20" validate:"gt=0,lt=2"`
	FaceModel           string        `envconfig:"FACE_MODEL" default:"ArcFace" validate:"required"`
	SignatureDim        int           `envconfig:"SIGNATURE_DIM" default:"512" validate:"gte=0"`
	FaceExtractor       string        `envconfig:"FACE_EXTRACTOR" default:"deepface" validate:"oneof=deepface grpc deterministic"`
	DeepFaceURL         string        `envconfig:"DEEPFACE_URL" default:"http://127.0.0.1:5005" validate:"required_if=FaceExtractor deepface"`
	DetectorBackend     string        `envconfig:"DETECTOR_BACKEND" default:"opencv"`
	EmbedderGRPCAddr    string        `envconfig:"EMBEDDER_GRPC_ADDR" validate:"required_if=FaceExtractor grpc"`
	ExtractTimeout      time.Duration `envconfig:"EXTRACT_TIMEOUT" default:"10s" validate:"gt=0"`
	MaxImageBytes       int64         `envconfig:"MAX_IMAGE_BYTES" default:"5242880" validate:"gt=0"`

	// Entry log retention
	EntryLogRetentionDays int `envconfig:"ENTRY_LOG_RETENTION_DAYS" default:"90" validate:"gte=0"` // 0 = keep forever
	PruneIntervalHours    int `envconfig:"PRUNE_INTERVAL_HOURS" default:"6" validate:"gt=0"`

	VerifyRatePerMinute int     `envconfig:"VERIFY_RATE_PER_MINUTE" default:"10" validate:"gte=0"` // 0 disables
	BookingFee          float64 `envconfig:"BOOKING_FEE" default:"50" validate:"gte=0"`

	SeedDev bool `envconfig:"SEED_DEV" default:"true"`
}

// Load reads the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	cfg.FaceExtractor = strings.ToLower(strings.TrimSpace(cfg.FaceExtractor))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.IsProduction() && c.FaceExtractor == "deterministic" {
		return fmt.Errorf("config: LUXE_FACE_EXTRACTOR=deterministic is not allowed when LUXE_ENV=prod")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "prod"
}
