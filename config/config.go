package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envPrefix is stripped from environment variables before they are mapped
// onto config keys (SPARKD_REDIS_ADDR -> redis.addr).
const envPrefix = "SPARKD_"

// Config is the full service configuration. Defaults are loaded first, then
// overridden from the environment.
type Config struct {
	Port   string       `koanf:"port"`
	Region string       `koanf:"region"`
	Redis  RedisConfig  `koanf:"redis"`
	Tables TablesConfig `koanf:"tables"`
	Cache  CacheConfig  `koanf:"cache"`
	Quotas QuotasConfig `koanf:"quotas"`
}

type RedisConfig struct {
	Addr    string `koanf:"addr"`
	MaxIdle int    `koanf:"maxidle"`
}

type TablesConfig struct {
	Users   string `koanf:"users"`
	Swipes  string `koanf:"swipes"`
	Matches string `koanf:"matches"`
}

type CacheConfig struct {
	// RecommendationTTL and TopPicksTTL are in seconds.
	RecommendationTTL int `koanf:"recttl"`
	TopPicksTTL       int `koanf:"toppicksttl"`
}

// QuotasConfig holds the free-tier daily caps.
type QuotasConfig struct {
	Swipes     int64 `koanf:"swipes"`
	Likes      int64 `koanf:"likes"`
	Superlikes int64 `koanf:"superlikes"`
	Undos      int64 `koanf:"undos"`
}

func defaults() Config {
	return Config{
		Port:   "8080",
		Region: "us-east-1",
		Redis: RedisConfig{
			Addr:    "localhost:6379",
			MaxIdle: 10,
		},
		Tables: TablesConfig{
			Users:   "Users",
			Swipes:  "Swipes",
			Matches: "Matches",
		},
		Cache: CacheConfig{
			RecommendationTTL: 30 * 60,
			TopPicksTTL:       24 * 60 * 60,
		},
		Quotas: QuotasConfig{
			Swipes:     100,
			Likes:      100,
			Superlikes: 5,
			Undos:      1,
		},
	}
}

// Load builds the configuration from defaults overridden by SPARKD_*
// environment variables.
func Load() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("loading config defaults: %w", err)
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("loading config from env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}
