package config

import (
	"os"
	"strconv"
	"time"
)

// Reference point defaults match the campus the service was first deployed
// for; override via GEOMARK_REF_LAT / GEOMARK_REF_LON.
const (
	defaultRefLat = 12.80147378887274
	defaultRefLon = 80.22372835171538
)

// Server captures service-level configuration. Empty backend URLs mean the
// in-memory implementation is used, which keeps local development dependency-free.
type Server struct {
	Addr string

	// Geofence reference point and allowed radius.
	RefLat       float64
	RefLon       float64
	RadiusMeters float64

	// Minimum recognition confidence required to accept an identity.
	ConfidenceThreshold float64

	// Minimum elapsed time between two accepted submissions from one client key.
	RateWindow time.Duration

	// Upload staging.
	TempDir        string
	MaxUploadBytes int64

	// Backends. Empty values select in-memory implementations.
	DatabaseURL   string
	RedisURL      string
	KafkaBrokers  string
	RecognizerURL string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("GEOMARK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	tempDir := os.Getenv("GEOMARK_TEMP_DIR")
	if tempDir == "" {
		tempDir = "temp"
	}

	return Server{
		Addr:                addr,
		RefLat:              envFloat("GEOMARK_REF_LAT", defaultRefLat),
		RefLon:              envFloat("GEOMARK_REF_LON", defaultRefLon),
		RadiusMeters:        envFloat("GEOMARK_RADIUS_METERS", 1000),
		ConfidenceThreshold: envFloat("GEOMARK_CONFIDENCE_THRESHOLD", 0.6),
		RateWindow:          envDuration("GEOMARK_RATE_WINDOW", 2*time.Second),
		TempDir:             tempDir,
		MaxUploadBytes:      envInt64("GEOMARK_MAX_UPLOAD_BYTES", 5<<20),
		DatabaseURL:         os.Getenv("GEOMARK_DATABASE_URL"),
		RedisURL:            os.Getenv("GEOMARK_REDIS_URL"),
		KafkaBrokers:        os.Getenv("GEOMARK_KAFKA_BROKERS"),
		RecognizerURL:       os.Getenv("GEOMARK_RECOGNIZER_URL"),
	}
}

func envFloat(key string, fallback float64) float64 {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return v
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if v, err := time.ParseDuration(raw); err == nil {
			return v
		}
	}
	return fallback
}
