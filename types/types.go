package types

import (
	"os"
	"time"
)

// Config carries the service settings read from the environment.
type Config struct {
	ServerAddr string
	SourceDir  string
	ExportDir  string
}

func ConfigFromEnv() Config {
	return Config{
		ServerAddr: os.Getenv("SERVER_ADDR"),
		SourceDir:  getenv("SOURCE_DIR", "source"),
		ExportDir:  getenv("EXPORT_DIR", "export"),
	}
}

// EnsureDirs creates the source and export directories if missing.
func (c Config) EnsureDirs() error {
	for _, dir := range []string{c.SourceDir, c.ExportDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type PageTrimView struct {
	Page   int     `json:"page"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

type SessionResponse struct {
	ID        string         `json:"id"`
	Path      string         `json:"path"`
	PageCount int            `json:"page_count"`
	StartPage int            `json:"start_page"`
	EndPage   int            `json:"end_page"`
	Trims     []PageTrimView `json:"trims"`
}

type PageResponse struct {
	Page   int     `json:"page"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

type ExportResponse struct {
	SessionID  string    `json:"session_id"`
	OutputPath string    `json:"output_path"`
	Pages      int       `json:"pages"`
	Timestamp  time.Time `json:"timestamp"`
}

type UploadResponse struct {
	Path string `json:"path"`
}
