package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultAdminPassword is the development fallback for ADMIN_PASSWORD.
// Production refuses to start with it.
const DefaultAdminPassword = "admin123"

// Config collects everything the service reads from the environment.
type Config struct {
	Port          string
	Env           string
	DataDir       string
	RedisURL      string
	CloudinaryURL string
	UploadFolder  string
	UploadTempDir string

	// Admin credential pair checked on login and on every /admin request.
	AdminUsername string
	AdminPassword string

	// Rate limiting
	RateLimitWhitelist []string // IPs or CIDRs exempt from rate limiting
	AutoBlockEnabled   bool     // block IPs after repeated violations
}

// Load assembles the configuration, reading a .env file first when one
// exists. Development gets workable defaults; production panics on a
// missing image host or a default admin credential.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:               envOr("PORT", "8080"),
		Env:                envOr("ENV", "development"),
		DataDir:            envOr("DATA_DIR", "./data"),
		RedisURL:           os.Getenv("REDIS_URL"),
		CloudinaryURL:      os.Getenv("CLOUDINARY_URL"),
		UploadFolder:       envOr("UPLOAD_FOLDER", "knhaji/rooms"),
		UploadTempDir:      envOr("UPLOAD_TEMP_DIR", "./data/uploads"),
		AdminUsername:      envOr("ADMIN_USERNAME", "admin"),
		AdminPassword:      envOr("ADMIN_PASSWORD", DefaultAdminPassword),
		AutoBlockEnabled:   envOr("AUTO_BLOCK_ENABLED", "false") == "true",
		RateLimitWhitelist: splitList(os.Getenv("RATE_LIMIT_WHITELIST")),
	}

	if cfg.Env == "production" {
		cfg.mustBeDeployable()
	}
	return cfg
}

// mustBeDeployable enforces the two settings production cannot run without.
func (c *Config) mustBeDeployable() {
	if c.CloudinaryURL == "" {
		panic("CLOUDINARY_URL is required in production")
	}
	if c.AdminPassword == DefaultAdminPassword {
		panic("ADMIN_PASSWORD must be set to a non-default value in production")
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// splitList splits a comma-separated value, trimming whitespace and
// dropping empty entries.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, entry := range strings.Split(s, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
