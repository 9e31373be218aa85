package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{EnvState, EnvStore, EnvLogLevel, EnvFiscalProfile, EnvModel, EnvGeminiAPIKey} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultState, c.State)
	assert.Equal(t, "file", c.Store)
	assert.Equal(t, DefaultModel, c.Model)
	assert.Empty(t, c.FiscalProfile)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	for _, k := range []string{EnvState, EnvStore, EnvGeminiAPIKey} {
		require.NoError(t, os.Unsetenv(k))
	}
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env, []byte("CASHBOOK_STATE=books.db\nCASHBOOK_STORE=Bolt\nGEMINI_API_KEY=secret\n"), 0o600))

	c, err := Load(env)
	require.NoError(t, err)
	assert.Equal(t, "books.db", c.State)
	assert.Equal(t, "bolt", c.Store)
	assert.Equal(t, "secret", c.GeminiAPIKey)
}

func TestLoadMissingEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	c := &Config{State: "x.json", Store: "sqlite"}
	assert.Error(t, c.Validate())
	c.Store = "bolt"
	assert.NoError(t, c.Validate())
	c.State = " "
	assert.Error(t, c.Validate())
}

func TestLoadFiscalProfile(t *testing.T) {
	p, err := LoadFiscalProfile("")
	require.NoError(t, err)
	assert.Empty(t, p.FiscalAccounts)

	path := filepath.Join(t.TempDir(), "fiscal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fiscalAccounts:\n  - Banco\n  - Caja\n"), 0o600))
	p, err = LoadFiscalProfile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Banco", "Caja"}, p.FiscalAccounts)

	require.NoError(t, os.WriteFile(path, []byte("fiscalAccounts: [unclosed\n"), 0o600))
	_, err = LoadFiscalProfile(path)
	assert.Error(t, err)
}
