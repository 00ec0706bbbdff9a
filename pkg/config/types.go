package config

import (
	"fmt"
	"strconv"
	"time"
)

// Config represents the persistent kiosk configuration stored as config.toml
// in the .kiosk/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Storage     StorageConfig     `toml:"storage"`
	API         APIConfig         `toml:"api"`
	Assistant   AssistantConfig   `toml:"assistant"`
	Deck        DeckConfig        `toml:"deck"`
	EventStream EventStreamConfig `toml:"eventstream"`
	Client      ClientConfig      `toml:"client"`
}

// StorageConfig selects the chat-log store. PostgresDSN wins over SQLitePath;
// with neither set logs are kept in memory.
type StorageConfig struct {
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	PostgresDSN string `toml:"postgres_dsn,omitempty"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// AssistantConfig holds settings for the kiosk chat assistant.
type AssistantConfig struct {
	Model       string `toml:"model,omitempty"`
	APIKey      string `toml:"api_key,omitempty"`
	ProfilePath string `toml:"profile_path,omitempty"`
}

// DeckConfig holds dashboard settings.
type DeckConfig struct {
	LookbackDays uint   `toml:"lookback_days,omitempty"`
	CacheTTL     string `toml:"cache_ttl,omitempty"`
	RedisAddr    string `toml:"redis_addr,omitempty"`
}

// EventStreamConfig holds the Kafka settings for chat-log events.
// KafkaBrokers is a comma separated host:port list; empty disables publishing.
type EventStreamConfig struct {
	KafkaBrokers string `toml:"kafka_brokers,omitempty"`
	KafkaTopic   string `toml:"kafka_topic,omitempty"`
}

// ClientConfig holds settings for CLI commands that connect to a running
// kiosk API (e.g. kiosk chat --remote). Values are full URLs.
type ClientConfig struct {
	APITarget string `toml:"api_target,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"storage.sqlite_path": {
		get: func(c *Config) string { return c.Storage.SQLitePath },
		set: func(c *Config, v string) error { c.Storage.SQLitePath = v; return nil },
	},
	"storage.postgres_dsn": {
		get: func(c *Config) string { return c.Storage.PostgresDSN },
		set: func(c *Config, v string) error { c.Storage.PostgresDSN = v; return nil },
	},
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"assistant.model": {
		get: func(c *Config) string { return c.Assistant.Model },
		set: func(c *Config, v string) error { c.Assistant.Model = v; return nil },
	},
	"assistant.api_key": {
		get: func(c *Config) string { return c.Assistant.APIKey },
		set: func(c *Config, v string) error { c.Assistant.APIKey = v; return nil },
	},
	"assistant.profile_path": {
		get: func(c *Config) string { return c.Assistant.ProfilePath },
		set: func(c *Config, v string) error { c.Assistant.ProfilePath = v; return nil },
	},
	"deck.lookback_days": {
		get: func(c *Config) string {
			if c.Deck.LookbackDays == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Deck.LookbackDays), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for deck.lookback_days: %w", err)
			}
			c.Deck.LookbackDays = uint(n)
			return nil
		},
	},
	"deck.cache_ttl": {
		get: func(c *Config) string { return c.Deck.CacheTTL },
		set: func(c *Config, v string) error {
			if _, err := time.ParseDuration(v); err != nil {
				return fmt.Errorf("invalid value for deck.cache_ttl: %w", err)
			}
			c.Deck.CacheTTL = v
			return nil
		},
	},
	"deck.redis_addr": {
		get: func(c *Config) string { return c.Deck.RedisAddr },
		set: func(c *Config, v string) error { c.Deck.RedisAddr = v; return nil },
	},
	"eventstream.kafka_brokers": {
		get: func(c *Config) string { return c.EventStream.KafkaBrokers },
		set: func(c *Config, v string) error { c.EventStream.KafkaBrokers = v; return nil },
	},
	"eventstream.kafka_topic": {
		get: func(c *Config) string { return c.EventStream.KafkaTopic },
		set: func(c *Config, v string) error { c.EventStream.KafkaTopic = v; return nil },
	},
	"client.api_target": {
		get: func(c *Config) string { return c.Client.APITarget },
		set: func(c *Config, v string) error { c.Client.APITarget = v; return nil },
	},
}
