package redislist

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"

	"github.com/trickstertwo/xstatus"
)

// Config for the Redis list store.
type Config struct {
	// Connection
	Addr          string
	Username      string
	Password      string
	DB            int
	TLS           bool
	TLSServerName string

	// Prefix namespaces every queue key, so several environments can share
	// one Redis without collisions.
	Prefix string

	// Client tuning
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
}

// Defaults returns a Config for a local, plain-text Redis.
func Defaults() Config {
	return Config{
		Addr:         defaultAddr,
		Prefix:       defaultPrefix,
		DialTimeout:  defaultDialTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		PoolSize:     defaultPoolSize,
		MinIdleConns: defaultMinIdleConns,
	}
}

// Validate checks Config before any connection is attempted.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: redis addr required", xstatus.ErrConfiguration)
	}
	if c.Prefix == "" {
		return fmt.Errorf("%w: key prefix required", xstatus.ErrConfiguration)
	}
	if c.DB < 0 {
		return fmt.Errorf("%w: db must be >= 0, got %d", xstatus.ErrConfiguration, c.DB)
	}
	if c.PoolSize < 1 {
		return fmt.Errorf("%w: pool_size must be >= 1, got %d", xstatus.ErrConfiguration, c.PoolSize)
	}
	if c.DialTimeout < 0 || c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return fmt.Errorf("%w: timeouts must not be negative", xstatus.ErrConfiguration)
	}
	return nil
}

// ConfigFromURL parses a redis:// or rediss:// URL. A rediss scheme turns TLS
// on; anything else is rejected by the parser. Client tuning keeps defaults.
func ConfigFromURL(raw string) (Config, error) {
	opts, err := redis.ParseURL(raw)
	if err != nil {
		return Config{}, fmt.Errorf("%w: redis url: %v", xstatus.ErrConfiguration, err)
	}
	c := Defaults()
	c.Addr = opts.Addr
	c.Username = opts.Username
	c.Password = opts.Password
	c.DB = opts.DB
	if opts.TLSConfig != nil {
		c.TLS = true
		c.TLSServerName = opts.TLSConfig.ServerName
	}
	return c, nil
}

// envConfig is the environment shape read by LoadConfig.
type envConfig struct {
	URL          string        `env:"XSTATUS_REDIS_URL"            envDefault:"redis://127.0.0.1:6379/0"` // redis:// or rediss://
	Prefix       string        `env:"XSTATUS_KEY_PREFIX"           envDefault:"xstatus"`                  // Key namespace prefix
	DialTimeout  time.Duration `env:"XSTATUS_REDIS_DIAL_TIMEOUT"   envDefault:"5s"`
	ReadTimeout  time.Duration `env:"XSTATUS_REDIS_READ_TIMEOUT"   envDefault:"3s"`
	WriteTimeout time.Duration `env:"XSTATUS_REDIS_WRITE_TIMEOUT"  envDefault:"3s"`
	PoolSize     int           `env:"XSTATUS_REDIS_POOL_SIZE"      envDefault:"10"`
	MinIdleConns int           `env:"XSTATUS_REDIS_MIN_IDLE_CONNS" envDefault:"2"`
}

// LoadConfig builds a Config from XSTATUS_* environment variables.
func LoadConfig() (Config, error) {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return Config{}, fmt.Errorf("%w: %v", xstatus.ErrConfiguration, err)
	}
	c, err := ConfigFromURL(ec.URL)
	if err != nil {
		return Config{}, err
	}
	c.Prefix = ec.Prefix
	c.DialTimeout = ec.DialTimeout
	c.ReadTimeout = ec.ReadTimeout
	c.WriteTimeout = ec.WriteTimeout
	c.PoolSize = ec.PoolSize
	c.MinIdleConns = ec.MinIdleConns
	return c, c.Validate()
}

// options maps Config onto the go-redis client options. Command retries are
// disabled: a failed round-trip surfaces to the caller as-is.
func (c Config) options() *redis.Options {
	opts := &redis.Options{
		Addr:         c.Addr,
		Username:     c.Username,
		Password:     c.Password,
		DB:           c.DB,
		MaxRetries:   -1,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
	}
	if c.TLS {
		opts.TLSConfig = &tls.Config{
			MinVersion:    tls.VersionTLS12,
			ServerName:    c.TLSServerName,
			Renegotiation: tls.RenegotiateNever,
		}
	}
	return opts
}

// toMap converts typed Config into the generic map expected by the store factory.
func (c Config) toMap() map[string]any {
	return map[string]any{
		"addr":            c.Addr,
		"username":        c.Username,
		"password":        c.Password,
		"db":              c.DB,
		"tls":             c.TLS,
		"tls_server_name": c.TLSServerName,
		"prefix":          c.Prefix,
		"dial_timeout":    c.DialTimeout,
		"read_timeout":    c.ReadTimeout,
		"write_timeout":   c.WriteTimeout,
		"pool_size":       c.PoolSize,
		"min_idle_conns":  c.MinIdleConns,
	}
}

// ConfigFromMap safely converts cfg into Config with defaults. A "url" key, when
// present, is parsed first and the remaining keys override it.
func ConfigFromMap(cfg map[string]any) (Config, error) {
	getString := func(k, d string) string {
		if v, ok := cfg[k].(string); ok && v != "" {
			return v
		}
		return d
	}
	getInt := func(k string, d int) int {
		switch v := cfg[k].(type) {
		case int:
			return v
		case int32:
			return int(v)
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
		return d
	}
	getBool := func(k string, d bool) bool {
		if v, ok := cfg[k].(bool); ok {
			return v
		}
		return d
	}
	getDur := func(k string, d time.Duration) time.Duration {
		switch v := cfg[k].(type) {
		case time.Duration:
			return v
		case string:
			if p, err := time.ParseDuration(v); err == nil {
				return p
			}
		case float64:
			return time.Duration(v)
		}
		return d
	}

	base := Defaults()
	if u, ok := cfg["url"].(string); ok && u != "" {
		parsed, err := ConfigFromURL(u)
		if err != nil {
			return Config{}, err
		}
		base = parsed
	}

	return Config{
		Addr:          getString("addr", base.Addr),
		Username:      getString("username", base.Username),
		Password:      getString("password", base.Password),
		DB:            getInt("db", base.DB),
		TLS:           getBool("tls", base.TLS),
		TLSServerName: getString("tls_server_name", base.TLSServerName),
		Prefix:        getString("prefix", base.Prefix),
		DialTimeout:   getDur("dial_timeout", base.DialTimeout),
		ReadTimeout:   getDur("read_timeout", base.ReadTimeout),
		WriteTimeout:  getDur("write_timeout", base.WriteTimeout),
		PoolSize:      getInt("pool_size", base.PoolSize),
		MinIdleConns:  getInt("min_idle_conns", base.MinIdleConns),
	}, nil
}
