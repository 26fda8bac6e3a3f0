package app

import (
	"context"
	"path/filepath"
	"testing"

	"hushhly/config"
	"hushhly/reminder"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Backends(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantRDB bool
	}{
		{"Memory", func(c *config.Config) { c.Storage.Backend = "memory" }, false},
		{"SQLite", func(c *config.Config) {
			c.Storage.Backend = "SQLite"
			c.Storage.SQLitePath = filepath.Join(t.TempDir(), "hushhly.db")
		}, false},
		{"Redis", func(c *config.Config) {
			c.Storage.Backend = "redis"
			c.Redis.Address = mr.Addr()
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Defaults()
			tt.mutate(&cfg)

			a, err := New(cfg, nil)
			require.NoError(t, err)
			defer a.Close()

			assert.Equal(t, tt.wantRDB, a.Redis != nil)
			assert.NotNil(t, a.Cache)

			added, err := a.Services.Promos.Seed(context.Background())
			require.NoError(t, err)
			assert.Positive(t, added)
		})
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	cfg := config.Defaults()
	cfg.Storage.Backend = "etcd"
	_, err := New(cfg, nil)
	assert.Error(t, err)
}

func TestNotifier(t *testing.T) {
	cfg := config.Defaults()
	cfg.Storage.Backend = "memory"

	a, err := New(cfg, nil)
	require.NoError(t, err)
	defer a.Close()
	assert.IsType(t, reminder.LogNotifier{}, a.Notifier())

	a.Config.Email.Enabled = true
	assert.IsType(t, &reminder.EmailNotifier{}, a.Notifier())
}
