package config

import (
	"os"
	"strconv"
	"time"

	"japanese-doc-reader/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort       string
	LogLevel         string
	LogFormat        string
	MaxUploadSize    int64
	PreviewScale     float64
	OCRScale         float64
	AIModel          string
	TTSVoice         string
	AIRequestTimeout time.Duration
	DataDir          string
	SettingsPath     string
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:    getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8000")),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:     getEnvOrDefault("LOG_FORMAT", "console"),
		MaxUploadSize: getEnvInt64OrDefault("MAX_UPLOAD_SIZE", 50*1024*1024), // 50MB default
		// Preview renders trade fidelity for speed; OCR renders need the
		// extra resolution for character recognition.
		PreviewScale:     getEnvFloatOrDefault("RENDER_PREVIEW_SCALE", 2.0),
		OCRScale:         getEnvFloatOrDefault("RENDER_OCR_SCALE", 3.0),
		AIModel:          getEnvOrDefault("AI_MODEL", "gpt-4o"),
		TTSVoice:         getEnvOrDefault("TTS_VOICE", "nova"),
		AIRequestTimeout: getEnvDurationOrDefault("AI_REQUEST_TIMEOUT", 120*time.Second),
		DataDir:          getEnvOrDefault("DATA_DIR", "./data"),
		SettingsPath:     getEnvOrDefault("SETTINGS_PATH", ""),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetLogFormat returns the logging output format
func (c *AppConfig) GetLogFormat() string {
	return c.LogFormat
}

// GetMaxUploadSize returns the maximum allowed upload size
func (c *AppConfig) GetMaxUploadSize() int64 {
	return c.MaxUploadSize
}

// GetPreviewScale returns the render scale for page previews
func (c *AppConfig) GetPreviewScale() float64 {
	return c.PreviewScale
}

// GetOCRScale returns the render scale for OCR page renders
func (c *AppConfig) GetOCRScale() float64 {
	return c.OCRScale
}

// GetAIModel returns the chat/vision model name
func (c *AppConfig) GetAIModel() string {
	return c.AIModel
}

// GetTTSVoice returns the default speech synthesis voice
func (c *AppConfig) GetTTSVoice() string {
	return c.TTSVoice
}

// GetAIRequestTimeout returns the per-call timeout for outbound AI requests
func (c *AppConfig) GetAIRequestTimeout() time.Duration {
	return c.AIRequestTimeout
}

// GetDataDir returns the root directory for generated artifacts
func (c *AppConfig) GetDataDir() string {
	return c.DataDir
}

// GetSettingsPath returns the user-settings file path override, if any
func (c *AppConfig) GetSettingsPath() string {
	return c.SettingsPath
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil && floatValue > 0 {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
