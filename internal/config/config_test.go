// internal/config/config_test.go
//
// 設定載入測試：預設值、YAML 檔、環境變數覆寫與驗證錯誤。
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ACME_CUSTOMERS_FILE", "ACME_ACCOUNTS_FILE", "ACME_HTTP_ADDR", "ACME_LOG_LEVEL", "ACME_LOG_DEV"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "users.csv", cfg.CustomersFile)
	assert.Equal(t, "accounts.csv", cfg.AccountsFile)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "acmebank.yaml")
	require.NoError(t, os.WriteFile(path, []byte("customers_file: data/c.csv\naccounts_file: data/a.csv\nlog_level: info\n"), 0o644))
	t.Setenv("ACME_ACCOUNTS_FILE", "env/a.csv")
	t.Setenv("ACME_LOG_DEV", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "data/c.csv", cfg.CustomersFile)
	assert.Equal(t, "env/a.csv", cfg.AccountsFile)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.True(t, cfg.LogDev)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("customers_file: [oops"), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("bad bool", func(t *testing.T) {
		t.Setenv("ACME_LOG_DEV", "maybe")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("same file for both tables", func(t *testing.T) {
		t.Setenv("ACME_CUSTOMERS_FILE", "x.csv")
		t.Setenv("ACME_ACCOUNTS_FILE", "x.csv")
		_, err := Load("")
		assert.ErrorContains(t, err, "must differ")
	})
}
