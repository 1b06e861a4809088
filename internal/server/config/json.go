package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/visitkeeper/internal/flagx"
	"github.com/dmitrijs2005/visitkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "24h" and integer nanoseconds are accepted. Fields
// absent from the file leave the current value untouched.
type JsonConfig struct {
	EndpointAddrGRPC        *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN             *string         `json:"database_dsn"`
	SecretKey               *string         `json:"secret_key"`
	SessionValidityDuration *timex.Duration `json:"session_validity_duration"`
	BcryptCost              *int            `json:"bcrypt_cost"`
	MinPasswordLength       *int            `json:"min_password_length"`
	MaxCommentLength        *int            `json:"max_comment_length"`
	RatingMin               *int            `json:"rating_min"`
	RatingMax               *int            `json:"rating_max"`
	SessionBackend          *string         `json:"session_backend"`
	RedisAddr               *string         `json:"redis_addr"`
	RedisPassword           *string         `json:"redis_password"`
	RedisDB                 *int            `json:"redis_db"`
	LogLevel                *string         `json:"log_level"`
}

// parseJson overlays the JSON file named by -c/-config onto config. Without
// the flag nothing is loaded. An unreadable or invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFile(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	set(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.SecretKey, c.SecretKey)
	if c.SessionValidityDuration != nil {
		config.SessionValidityDuration = c.SessionValidityDuration.Duration
	}
	set(&config.BcryptCost, c.BcryptCost)
	set(&config.MinPasswordLength, c.MinPasswordLength)
	set(&config.MaxCommentLength, c.MaxCommentLength)
	set(&config.RatingMin, c.RatingMin)
	set(&config.RatingMax, c.RatingMax)
	set(&config.SessionBackend, c.SessionBackend)
	set(&config.RedisAddr, c.RedisAddr)
	set(&config.RedisPassword, c.RedisPassword)
	set(&config.RedisDB, c.RedisDB)
	set(&config.LogLevel, c.LogLevel)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
