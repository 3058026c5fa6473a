package domain

import "time"

// PagedDocument is an opened multi-page document that can rasterize pages.
type PagedDocument interface {
	PageCount() int
	// RenderPNG rasterizes the page at the given zoom-equivalent scale
	// (1.0 = 72 DPI) and returns PNG bytes.
	RenderPNG(index int, scale float64) ([]byte, error)
	Close() error
}

// DocumentOpener opens a paged document from a file on disk.
type DocumentOpener interface {
	Open(path string) (PagedDocument, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetLogFormat() string
	GetMaxUploadSize() int64
	GetPreviewScale() float64
	GetOCRScale() float64
	GetAIModel() string
	GetTTSVoice() string
	GetAIRequestTimeout() time.Duration
	GetDataDir() string
	GetSettingsPath() string
}
