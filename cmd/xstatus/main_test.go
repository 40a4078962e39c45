package main

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/trickstertwo/xstatus"
)

// runWithConfig parses args against the real flag set and returns the config
// buildConfig produces for them.
func runWithConfig(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	var (
		got    *Config
		cfgErr error
	)
	app := &cli.App{
		Name:  "xstatus",
		Flags: globalFlags(),
		Commands: []*cli.Command{{
			Name:  "serve",
			Flags: serveFlags(),
			Action: func(c *cli.Context) error {
				got, cfgErr = buildConfig(c)
				return nil
			},
		}},
	}
	require.NoError(t, app.Run(append([]string{"xstatus"}, args...)))
	return got, cfgErr
}

// unsetEnv removes keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestBuildConfig_Defaults(t *testing.T) {
	unsetEnv(t, "XSTATUS_REDIS_URL", "XSTATUS_KEY_PREFIX", "XSTATUS_PATH_PREFIX", "XSTATUS_ADDR", "XSTATUS_METRICS_ADDR", "XSTATUS_PUSH_TIMEOUT")

	cfg, err := runWithConfig(t, "serve")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
	assert.Equal(t, "xstatus", cfg.Redis.Prefix)
	assert.False(t, cfg.Redis.TLS)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, "/status/", cfg.PathPrefix)
	assert.Equal(t, 5*time.Second, cfg.PushTimeout)
}

func TestBuildConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("XSTATUS_REDIS_URL", "redis://10.0.0.1:6379/2")
	t.Setenv("XSTATUS_KEY_PREFIX", "from-env")
	t.Setenv("XSTATUS_REDIS_POOL_SIZE", "32")

	cfg, err := runWithConfig(t,
		"--redis-url", "rediss://cache.internal:6380/1",
		"--key-prefix", "app",
		"serve", "--path-prefix", "jobs",
	)
	require.NoError(t, err)

	assert.Equal(t, "cache.internal:6380", cfg.Redis.Addr)
	assert.Equal(t, 1, cfg.Redis.DB)
	assert.True(t, cfg.Redis.TLS)
	assert.Equal(t, "app", cfg.Redis.Prefix)
	assert.Equal(t, 32, cfg.Redis.PoolSize, "env tuning survives a flag URL")
	assert.Equal(t, "/jobs/", cfg.PathPrefix)
}

func TestBuildConfig_InvalidURL(t *testing.T) {
	unsetEnv(t, "XSTATUS_REDIS_URL", "XSTATUS_KEY_PREFIX")

	_, err := runWithConfig(t, "--redis-url", "http://nope", "serve")
	require.Error(t, err)
	assert.ErrorIs(t, err, xstatus.ErrConfiguration)
}

func TestNormalizePrefix(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":         "/",
		"/":        "/",
		"status":   "/status/",
		"/status":  "/status/",
		"/a/b/":    "/a/b/",
		"//jobs//": "/jobs/",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizePrefix(in), "input %q", in)
	}
}

func TestWriteRecords(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := writeRecords(&buf, []xstatus.Record{
		{"status": "info", "msg": "a"},
		{"status": "success", "msg": "b"},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"{\"msg\":\"a\",\"status\":\"info\"}\n{\"msg\":\"b\",\"status\":\"success\"}\n",
		buf.String())
}
