package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, "crmd", cfg.System.Appid)
	require.Equal(t, 4000, cfg.Web.Port)
	require.Equal(t, "postgres", cfg.Database.Type)
	require.False(t, cfg.Policy.RestockOnCancel)
	require.Equal(t, ClientDeleteForbid, cfg.Policy.DeleteClientWithOrders)
}

func TestLoadConfigFromFile(t *testing.T) {
	cfile := filepath.Join(t.TempDir(), "crmd.yml")
	content := `
web:
  port: 8088
  secret: filesecret
database:
  type: sqlite
  name: crmtest
policy:
  restock_on_cancel: true
  delete_client_with_orders: cascade
`
	require.NoError(t, os.WriteFile(cfile, []byte(content), 0o644))

	cfg, err := LoadConfig(cfile)
	require.NoError(t, err)
	require.Equal(t, 8088, cfg.Web.Port)
	require.Equal(t, "filesecret", cfg.Web.Secret)
	require.Equal(t, "sqlite", cfg.Database.Type)
	require.True(t, cfg.Policy.RestockOnCancel)
	require.Equal(t, ClientDeleteCascade, cfg.Policy.DeleteClientWithOrders)
	// untouched sections keep their defaults
	require.Equal(t, "0.0.0.0", cfg.Web.Host)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("CRMD_WEB_PORT", "9000")
	t.Setenv("CRMD_WEB_SECRET", "envsecret")
	t.Setenv("CRMD_DB_TYPE", "sqlite")
	t.Setenv("CRMD_RESTOCK_ON_CANCEL", "true")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Web.Port)
	require.Equal(t, "envsecret", cfg.Web.Secret)
	require.Equal(t, "sqlite", cfg.Database.Type)
	require.True(t, cfg.Policy.RestockOnCancel)
}

func TestLoadConfigRejectsBadPolicy(t *testing.T) {
	t.Setenv("CRMD_DELETE_CLIENT_WITH_ORDERS", "maybe")

	_, err := LoadConfig("")
	require.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, err)
}
