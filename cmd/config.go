package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ErrUsage is returned by GetConfig when the command line is not a single port
// number.
var ErrUsage = errors.New("usage: forager <port>")

// Config holds configuration values for commands.
type Config struct {
	Port          string
	AdminPort     string
	Workers       int
	QueueSize     int
	Cache         cacheConfig
	ProxyProtocol bool
	SOCKS5Address string
	CheckTimeout  time.Duration
}

type cacheConfig struct {
	MaxSize       int64
	MaxObjectSize int64
	RedisAddress  string
	RedisPassword string
	RedisExpiry   time.Duration
	RedisPrefix   string
}

// GetConfig creates a Config object from the command line arguments (without
// the program name) and the shell environment.
func GetConfig(args []string) (*Config, error) {
	if len(args) != 1 {
		return nil, ErrUsage
	}

	port, err := strconv.ParseUint(args[0], 10, 16)
	if err != nil || port == 0 {
		return nil, fmt.Errorf("invalid port %q: %w", args[0], ErrUsage)
	}

	config := GetConfigFromEnvironment()
	config.Port = strconv.FormatUint(port, 10)

	if config.Workers <= 0 {
		return nil, fmt.Errorf("WORKERS must be greater than zero, got %d", config.Workers)
	}

	if config.QueueSize <= 0 {
		return nil, fmt.Errorf("QUEUE_SIZE must be greater than zero, got %d", config.QueueSize)
	}

	if config.Cache.MaxSize < 0 || config.Cache.MaxObjectSize < 0 {
		return nil, errors.New("CACHE_MAX_SIZE and CACHE_MAX_OBJECT_SIZE must not be negative")
	}

	return config, nil
}

// GetConfigFromEnvironment creates Config object based on the shell environment.
// The listen port is left empty.
func GetConfigFromEnvironment() *Config {
	return &Config{
		AdminPort: env("ADMIN_PORT", ""),
		Workers:   int(envInt("WORKERS", 8)),
		QueueSize: int(envInt("QUEUE_SIZE", 1024)),
		Cache: cacheConfig{
			MaxSize:       envInt("CACHE_MAX_SIZE", 1049000),
			MaxObjectSize: envInt("CACHE_MAX_OBJECT_SIZE", 102400),
			RedisAddress:  env("REDIS_ADDR", ""),
			RedisPassword: env("REDIS_PASSWORD", ""),
			RedisExpiry:   envDuration("REDIS_CACHE_EXPIRY", 10*time.Minute),
			RedisPrefix:   env("REDIS_KEY_PREFIX", "forager:"),
		},
		ProxyProtocol: envBool("PROXY_PROTOCOL", false),
		SOCKS5Address: env("SOCKS5_ADDR", ""),
		CheckTimeout:  envDuration("CHECK_TIMEOUT", 500*time.Millisecond),
	}
}

func env(key string, def string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return def
}

func envInt(key string, def int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		i, _ := strconv.ParseInt(value, 10, 64)
		return i
	}

	return def
}

func envBool(key string, def bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		i, _ := strconv.ParseBool(value)
		return i
	}

	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(value)
		if err != nil {
			return def
		}
		return d
	}

	return def
}
