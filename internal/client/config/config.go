package config

import "time"

// Config holds runtime settings for the visitkeeper CLI.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	CallTimeout         time.Duration
	StatePath           string
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.CallTimeout = 10 * time.Second
	c.StatePath = ""
}

// LoadConfig applies defaults, then the JSON file (if any), then flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
