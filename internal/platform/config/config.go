package config

import (
	"os"
	"time"
)

// Server captures process-level configuration. Business constants (tracking
// threshold, id prefixes) live with the document package; only infrastructure
// wiring belongs here.
type Server struct {
	Addr string

	// Record store (Google Sheets). CredentialsFile empty means application
	// default credentials.
	SpreadsheetID    string
	DocsWorksheet    string
	ArchiveWorksheet string
	CredentialsFile  string

	// File store (Google Drive).
	DriveFolderID        string
	DriveDeletedFolderID string

	// Optional read cache for the recent-documents listing. Empty RedisURL
	// disables caching; every read then reflects a fresh scan.
	RedisURL string
	CacheTTL time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:                 getEnv("DOCTRACE_ADDR", ":8080"),
		SpreadsheetID:        os.Getenv("SHEETS_SPREADSHEET_ID"),
		DocsWorksheet:        getEnv("SHEETS_DOCS_WORKSHEET", "Documents"),
		ArchiveWorksheet:     getEnv("SHEETS_ARCHIVE_WORKSHEET", "Deleted"),
		CredentialsFile:      os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		DriveFolderID:        os.Getenv("DRIVE_FOLDER_ID"),
		DriveDeletedFolderID: os.Getenv("DRIVE_DELETED_FOLDER_ID"),
		RedisURL:             os.Getenv("REDIS_URL"),
		CacheTTL:             time.Hour,
	}
	if ttl := os.Getenv("CACHE_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			cfg.CacheTTL = d
		}
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
