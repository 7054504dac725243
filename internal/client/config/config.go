package config

import "time"

// Config holds runtime settings for the gophblog client.
type Config struct {
	// ServerEndpointAddr is host:port of the document service.
	ServerEndpointAddr string

	// DatabasePath is the SQLite file holding local preferences.
	DatabasePath string

	// AccessToken is sent with every feed request when non-empty.
	AccessToken string

	// RequestTimeout bounds a single feed request.
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.DatabasePath = "profile.db"
	c.AccessToken = ""
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
