package config

import (
	"time"

	"github.com/rs/zerolog/log"
)

type RateLimitConfig struct {
	Enabled bool
	MaxHits int
	Window  time.Duration
}

// GetRateLimitConfig returns the limit registered under key, disabled when unknown
func (c *Config) GetRateLimitConfig(key string) RateLimitConfig {
	configs := map[string]RateLimitConfig{
		"global": {
			Enabled: c.RateLimit.Enabled,
			MaxHits: c.RateLimit.Global,
			Window:  time.Minute,
		},
		"chat": {
			Enabled: c.RateLimit.Enabled,
			MaxHits: c.RateLimit.Chat,
			Window:  time.Minute,
		},
	}

	if config, exists := configs[key]; exists {
		return config
	}

	log.Warn().Str("key", key).Msg("No rate limit config found")
	return RateLimitConfig{Enabled: false}
}
