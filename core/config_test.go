package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaultsWithoutConfig(t *testing.T) {
	ResetConfig()
	assert.Equal(t, 7, GetConfigIntDefault("fw.threads", 7))
	assert.True(t, GetConfigBoolDefault("tables.content_store.admit", true))
	assert.Equal(t, "lru", GetConfigStringDefault("tables.content_store.replacement_policy", "lru"))
	assert.False(t, HasConfig("fw.threads"))
}

func TestLoadConfigString(t *testing.T) {
	t.Cleanup(ResetConfig)
	require.NoError(t, LoadConfigString(`
[core]
log_level = "DEBUG"

[tables.content_store]
capacity = -1
admit = false
replacement_policy = "lfu"
`))

	assert.Equal(t, "DEBUG", GetConfigStringDefault("core.log_level", "INFO"))
	assert.Equal(t, -1, GetConfigIntDefault("tables.content_store.capacity", 1024))
	assert.False(t, GetConfigBoolDefault("tables.content_store.admit", true))
	assert.Equal(t, "lfu", GetConfigStringDefault("tables.content_store.replacement_policy", "lru"))
	assert.True(t, HasConfig("tables.content_store.capacity"))

	// Wrong types fall back to the default
	assert.Equal(t, 5, GetConfigIntDefault("tables.content_store.replacement_policy", 5))
	assert.True(t, GetConfigBoolDefault("tables.content_store.capacity", true))
	assert.Equal(t, "x", GetConfigStringDefault("tables.content_store.admit", "x"))
}

func TestLoadConfigStringInvalid(t *testing.T) {
	t.Cleanup(ResetConfig)
	require.NoError(t, LoadConfigString(`[fw]
threads = 2`))
	assert.Error(t, LoadConfigString("[fw\nthreads = "))

	// A failed load keeps the previous configuration
	assert.Equal(t, 2, GetConfigIntDefault("fw.threads", 8))
}

func TestLoadConfigFile(t *testing.T) {
	t.Cleanup(ResetConfig)
	file := filepath.Join(t.TempDir(), "csbench.toml")
	require.NoError(t, os.WriteFile(file, []byte("[fw]\nqueue_size = 64\n"), 0o600))

	LoadConfig(file)
	assert.Equal(t, 64, GetConfigIntDefault("fw.queue_size", 1024))
}
