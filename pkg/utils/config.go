package utils

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type APIConfig struct {
	WPBaseURL        string
	HTTPTimeout      time.Duration
	FetchConcurrency int
}

// LoadAPIConfig reads the WordPress API settings from the environment.
// WPBaseURL may be empty here; the fetch layer treats a missing base URL
// as a fatal configuration error the first time a fetch is attempted.
func LoadAPIConfig() APIConfig {
	cfg := APIConfig{
		WPBaseURL:        os.Getenv("TRAVELHUB_WP_API_URL"),
		HTTPTimeout:      12 * time.Second,
		FetchConcurrency: 8,
	}

	if s := os.Getenv("TRAVELHUB_HTTP_TIMEOUT_SECONDS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			cfg.HTTPTimeout = time.Duration(n) * time.Second
		}
	}

	if s := os.Getenv("TRAVELHUB_FETCH_CONCURRENCY"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			cfg.FetchConcurrency = n
		}
	}

	return cfg
}

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration

	EditorUser         string
	EditorPasswordHash string // bcrypt hash; empty disables the login endpoint
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("TRAVELHUB_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("TRAVELHUB_JWT_ISSUER")
	if issuer == "" {
		issuer = "travelhub"
	}

	duration := 24 * time.Hour
	if s := os.Getenv("TRAVELHUB_JWT_TTL_HOURS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			duration = time.Duration(n) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:          secret,
		JWTIssuer:          issuer,
		JWTDuration:        duration,
		EditorUser:         os.Getenv("TRAVELHUB_EDITOR_USER"),
		EditorPasswordHash: os.Getenv("TRAVELHUB_EDITOR_PASSWORD_HASH"),
	}
}

type SnapshotConfig struct {
	Path string
}

func LoadSnapshotConfig() SnapshotConfig {
	if p := os.Getenv("TRAVELHUB_DB_PATH"); p != "" {
		return SnapshotConfig{Path: p}
	}

	// local default: ~/.travelhub/snapshot.db
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return SnapshotConfig{
		Path: filepath.Join(home, ".travelhub", "snapshot.db"),
	}
}
