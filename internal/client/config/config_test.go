package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.ServerURL)
	assert.Equal(t, "blogctl.db", cfg.DBPath)
	assert.False(t, cfg.Verbose)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("BLOGCTL_SERVER_URL", "https://blog.example.com")
	t.Setenv("BLOGCTL_DB_PATH", "/tmp/session.db")
	t.Setenv("BLOGCTL_VERBOSE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://blog.example.com", cfg.ServerURL)
	assert.Equal(t, "/tmp/session.db", cfg.DBPath)
	assert.True(t, cfg.Verbose)
}
