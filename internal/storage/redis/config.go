package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is a redis:// or rediss:// connection URL
	URL string

	// KeyPrefix namespaces every key so several deployments can share a database
	KeyPrefix string

	PoolSize     int
	MinIdleConns int

	// ConnectTimeout bounds the startup PING
	ConnectTimeout time.Duration

	// RecordTTL expires leaderboard records; zero keeps them forever
	RecordTTL time.Duration
}

// DefaultConfig connects to a local Redis under the "tetris" prefix
func DefaultConfig() Config {
	return Config{
		URL:            "redis://localhost:6379",
		KeyPrefix:      "tetris",
		PoolSize:       10,
		MinIdleConns:   2,
		ConnectTimeout: 5 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.KeyPrefix == "" {
		c.KeyPrefix = defaults.KeyPrefix
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = defaults.ConnectTimeout
	}
	return c
}
