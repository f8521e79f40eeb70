package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config agrupa la configuración del servicio (sólo env vars).
type Config struct {
	Server     ServerConfig
	DocIntel   DocIntelConfig
	Extraction ExtractionConfig
	Database   DatabaseConfig
}

type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64
}

type DocIntelConfig struct {
	Endpoint     string
	APIKey       string
	ModelID      string
	APIVersion   string
	Timeout      time.Duration
	PollInterval time.Duration
	MaxPolls     int
	Retries      int
}

// ExtractionConfig sobreescribe umbrales de las reglas por defecto.
type ExtractionConfig struct {
	MinGlobalConfidence float64
	MinINRConfidence    float64
	INRMin              float64
	INRMax              float64
}

type DatabaseConfig struct {
	DSN string
}

// Load lee la configuración desde el entorno.
func Load() Config {
	port := getEnv("PORT", "8080")
	return Config{
		Server: ServerConfig{
			Addr:            ":" + strings.TrimPrefix(port, ":"),
			ReadTimeout:     getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("HTTP_WRITE_TIMEOUT", 90*time.Second),
			ShutdownTimeout: getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
			MaxUploadBytes:  int64(getEnvAsInt("MAX_UPLOAD_MB", 20)) << 20,
		},
		DocIntel: DocIntelConfig{
			Endpoint:     getEnv("DOC_INTEL_ENDPOINT", ""),
			APIKey:       getEnv("DOC_INTEL_KEY", ""),
			ModelID:      getEnv("DOC_INTEL_MODEL_ID", "M2"),
			APIVersion:   getEnv("DOC_INTEL_API_VERSION", "2024-11-30"),
			Timeout:      getEnvAsDuration("DOC_INTEL_TIMEOUT", 30*time.Second),
			PollInterval: getEnvAsDuration("DOC_INTEL_POLL_INTERVAL", time.Second),
			MaxPolls:     getEnvAsInt("DOC_INTEL_MAX_POLLS", 60),
			Retries:      getEnvAsInt("DOC_INTEL_RETRIES", 0),
		},
		Extraction: ExtractionConfig{
			MinGlobalConfidence: getEnvAsFloat("MIN_GLOBAL_CONFIDENCE", 0.6),
			MinINRConfidence:    getEnvAsFloat("MIN_INR_CONFIDENCE", 0.8),
			INRMin:              getEnvAsFloat("INR_MIN", 0.5),
			INRMax:              getEnvAsFloat("INR_MAX", 10.0),
		},
		Database: DatabaseConfig{
			DSN: getEnv("DB_DSN", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
