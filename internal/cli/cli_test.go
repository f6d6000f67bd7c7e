package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/ownergraph/pkg/cache"
	ogerrors "github.com/matzehuels/ownergraph/pkg/errors"
	"github.com/matzehuels/ownergraph/pkg/layout"
)

func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv("COMPANIES_HOUSE_API_KEY", "")
	return New(io.Discard, LogInfo)
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newTestCLI(t).RootCommand()
	want := []string{"investigate", "search", "highlight", "render", "serve", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	c := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_key   = "secret"
direction = "LR"
log_level = "warn"

[cache]
backend = "none"
`), 0o600))

	c.configPath = path
	require.NoError(t, c.loadConfig())
	assert.Equal(t, "secret", c.cfg.APIKey)
	assert.Equal(t, log.WarnLevel, c.Logger.GetLevel(), "log_level from config should apply")

	dir, err := c.direction("")
	require.NoError(t, err)
	assert.Equal(t, layout.LeftRight, dir)

	dir, err = c.direction("tb")
	require.NoError(t, err)
	assert.Equal(t, layout.TopBottom, dir)
}

func TestLoadConfigVerboseWins(t *testing.T) {
	c := newTestCLI(t)
	c.SetLogLevel(LogDebug)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`log_level = "error"`), 0o600))

	c.configPath = path
	require.NoError(t, c.loadConfig())
	assert.Equal(t, LogDebug, c.Logger.GetLevel())
}

func TestLoadConfigMissingFile(t *testing.T) {
	c := newTestCLI(t)
	c.configPath = filepath.Join(t.TempDir(), "nope.toml")
	err := c.loadConfig()
	assert.True(t, ogerrors.Is(err, ogerrors.ErrCodeInvalidConfig), "got %v", err)
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	c := newTestCLI(t)
	_, _, err := c.newClient(context.Background(), registryOpts{})
	assert.True(t, ogerrors.Is(err, ogerrors.ErrCodeUnauthorized), "got %v", err)
}

func TestOpenCache(t *testing.T) {
	c := newTestCLI(t)
	ctx := withLogger(context.Background(), c.Logger)

	backend, err := c.openCache(ctx, true)
	require.NoError(t, err)
	assert.IsType(t, &cache.NullCache{}, backend)

	c.cfg.Cache.Backend = cache.BackendFile
	c.cfg.Cache.Dir = t.TempDir()
	backend, err = c.openCache(ctx, false)
	require.NoError(t, err)
	assert.IsType(t, &cache.FileCache{}, backend)

	c.cfg.Cache.Backend = cache.BackendRedis
	c.cfg.Cache.RedisURL = "not a url"
	_, err = c.openCache(ctx, false)
	assert.True(t, ogerrors.Is(err, ogerrors.ErrCodeInvalidConfig), "got %v", err)
}

func TestCacheClearCommand(t *testing.T) {
	c := newTestCLI(t)
	dir := t.TempDir()
	c.cfg.Cache.Backend = cache.BackendFile
	c.cfg.Cache.Dir = dir

	ctx := context.Background()
	fc, err := cache.NewFileCache(dir)
	require.NoError(t, err)
	require.NoError(t, fc.Set(ctx, "a", []byte("1"), time.Hour))
	require.NoError(t, fc.Set(ctx, "b", []byte("2"), time.Hour))

	cmd := c.cacheClearCommand()
	cmd.SetContext(withLogger(ctx, c.Logger))
	require.NoError(t, cmd.RunE(cmd, nil))

	_, ok, err := fc.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok, "entry should be cleared")
}

func TestCacheLocation(t *testing.T) {
	assert.Equal(t, "/tmp/og", cacheLocation(cache.BackendFile, "/tmp/og"))
	assert.Equal(t, "/tmp/og", cacheLocation("", "/tmp/og"))
	assert.Equal(t, "redis", cacheLocation(cache.BackendRedis, "/tmp/og"))
}
