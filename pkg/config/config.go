// Package config handles application configuration from environment variables,
// an optional TOML file and command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Host         string
	Port         int
	Directory    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSEnabled  bool
	H2CEnabled   bool

	// Packaging
	AddonDirs []string
	RepoDir   string

	// Subtitle service
	SubsDir       string
	SubsRecursive bool
	SubsCacheDir  string
	AddonVersion  string

	// Kodi JSON-RPC
	KodiURL      string
	KodiUsername string
	KodiPassword string

	// Outbound HTTP
	GlobalProxies   []string
	TransportRoutes []TransportRoute
	BrowserTLS      bool
	HTTPTimeout     time.Duration

	// Logging
	LogLevel string
	LogJSON  bool
}

// TransportRoute defines URL-specific proxy routing.
type TransportRoute struct {
	URLPattern string
	Proxy      string
	DisableSSL bool
	Direct     bool // If true, bypass global proxy and connect directly
}

// Addr returns the host:port the server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads configuration from environment variables with sensible defaults.
// If CONFIG_FILE is set, the TOML file is applied first and the environment
// still wins over it.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return &Config{
		Host:          "0.0.0.0",
		Port:          8080,
		Directory:     ".",
		ReadTimeout:   30 * time.Second,
		WriteTimeout:  0,
		IdleTimeout:   60 * time.Second,
		AddonDirs:     []string{"service.subtitles.localfiles"},
		RepoDir:       "repo.localfiles",
		SubsDir:       filepath.Join(home, "subtitles"),
		SubsRecursive: true,
		SubsCacheDir:  filepath.Join(os.TempDir(), "localfiles_subtitles"),
		AddonVersion:  "dev",
		KodiURL:       "http://localhost:8080/jsonrpc",
		HTTPTimeout:   30 * time.Second,
		LogLevel:      "info",
	}
}

func (c *Config) applyEnv() {
	c.Host = getEnvString("HOST", c.Host)
	c.Port = getEnvInt("PORT", c.Port)
	c.Directory = getEnvString("DIRECTORY", c.Directory)
	c.ReadTimeout = getEnvDuration("READ_TIMEOUT", c.ReadTimeout)
	c.WriteTimeout = getEnvDuration("WRITE_TIMEOUT", c.WriteTimeout)
	c.IdleTimeout = getEnvDuration("IDLE_TIMEOUT", c.IdleTimeout)
	c.CORSEnabled = getEnvBool("CORS_ENABLED", c.CORSEnabled)
	c.H2CEnabled = getEnvBool("H2C_ENABLED", c.H2CEnabled)

	c.AddonDirs = getEnvStringSlice("ADDON_DIRS", c.AddonDirs)
	c.RepoDir = getEnvString("REPO_DIR", c.RepoDir)

	c.SubsDir = getEnvString("SUBS_DIR", c.SubsDir)
	c.SubsRecursive = getEnvBool("SUBS_RECURSIVE", c.SubsRecursive)
	c.SubsCacheDir = getEnvString("SUBS_CACHE_DIR", c.SubsCacheDir)
	c.AddonVersion = getEnvString("ADDON_VERSION", c.AddonVersion)

	c.KodiURL = getEnvString("KODI_URL", c.KodiURL)
	c.KodiUsername = getEnvString("KODI_USERNAME", c.KodiUsername)
	c.KodiPassword = getEnvString("KODI_PASSWORD", c.KodiPassword)

	c.GlobalProxies = getEnvStringSlice("GLOBAL_PROXIES", c.GlobalProxies)
	if routes := ParseTransportRoutes(os.Getenv("TRANSPORT_ROUTES")); routes != nil {
		c.TransportRoutes = routes
	}
	c.BrowserTLS = getEnvBool("BROWSER_TLS", c.BrowserTLS)
	c.HTTPTimeout = getEnvDuration("HTTP_TIMEOUT", c.HTTPTimeout)

	c.LogLevel = getEnvString("LOG_LEVEL", c.LogLevel)
	c.LogJSON = getEnvBool("LOG_JSON", c.LogJSON)

	// Legacy single proxy support
	if globalProxy := os.Getenv("GLOBAL_PROXY"); globalProxy != "" && len(c.GlobalProxies) == 0 {
		c.GlobalProxies = []string{globalProxy}
	}
}

// ParseTransportRoutes parses the TRANSPORT_ROUTES format.
// Format: {URL=pattern, PROXY=url, DISABLE_SSL=true}, {URL=pattern2}
func ParseTransportRoutes(s string) []TransportRoute {
	if s == "" {
		return nil
	}

	var routes []TransportRoute
	s = strings.TrimSpace(s)

	parts := strings.Split(s, "}, {")
	for _, part := range parts {
		part = strings.Trim(part, "{} ")
		if part == "" {
			continue
		}

		route := TransportRoute{}
		fields := strings.Split(part, ", ")
		for _, field := range fields {
			kv := strings.SplitN(field, "=", 2)
			if len(kv) != 2 {
				continue
			}
			key := strings.TrimSpace(kv[0])
			value := strings.TrimSpace(kv[1])

			switch strings.ToUpper(key) {
			case "URL":
				route.URLPattern = value
			case "PROXY":
				route.Proxy = value
			case "DISABLE_SSL":
				route.DisableSSL = strings.ToLower(value) == "true"
			case "DIRECT":
				route.Direct = strings.ToLower(value) == "true"
			}
		}
		if route.URLPattern != "" {
			routes = append(routes, route)
		}
	}

	return routes
}

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return strings.ToLower(val) == "true" || val == "1"
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		// Try parsing as seconds first
		if secs, err := strconv.Atoi(val); err == nil {
			return time.Duration(secs) * time.Second
		}
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvStringSlice(key string, defaultVal []string) []string {
	if val := os.Getenv(key); val != "" {
		return SplitList(val)
	}
	return defaultVal
}

// SplitList splits a comma-separated list, dropping empty items.
func SplitList(val string) []string {
	parts := strings.Split(val, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
