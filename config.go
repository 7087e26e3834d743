package leadpress

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// SiteConfig holds all configuration for a leadpress site.
type SiteConfig struct {
	Name string // Site name (default "Nomadic")
	URL  string // Canonical URL (default "http://localhost:3000")

	Addr     string // Listen address (default ":3000")
	DataDir  string // Directory for leads.json and admin.json (default "data")
	PostsDir string // Directory for post MDX files (default "content/posts")

	SessionSecret string // Required: session cookie encryption secret
	CookieSecure  bool   // Set true for HTTPS

	// Used once at bootstrap to seed the default admin if none exists.
	AdminEmail    string
	AdminPassword string
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Nomadic"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.PostsDir == "" {
		c.PostsDir = "content/posts"
	}
}

// LoadConfig builds a SiteConfig from environment variables, reading a .env
// file first when one is present.
func LoadConfig() SiteConfig {
	_ = godotenv.Load()
	return SiteConfig{
		Name:          EnvOr("SITE_NAME", ""),
		URL:           EnvOr("SITE_URL", ""),
		Addr:          EnvOr("ADDR", ""),
		DataDir:       EnvOr("DATA_DIR", ""),
		PostsDir:      EnvOr("POSTS_DIR", ""),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		CookieSecure:  envBool("COOKIE_SECURE", false),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("leadpress: required environment variable %s is not set", key)
	}
	return v
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
