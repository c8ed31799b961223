package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "docuquery", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "char", cfg.Embedding.Backend)
	assert.Equal(t, 128, cfg.Embedding.Dimension)
	assert.Equal(t, 300, cfg.Redis.AnswerServeTTLSeconds)
	assert.Equal(t, 600, cfg.Redis.AnswerRetainTTLSeconds)
	assert.Equal(t, "qa.answer.persist", cfg.RabbitMQ.AnswerLogQueue)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxSizeBytes)
}

func TestLoad_FileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[app]
port = 9090

[embedding]
backend = "remote"
dimension = 256
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("EMBEDDING_DIM", "64")
	t.Setenv("LLM_TEMPERATURE", "0.7")

	cfg, err := Load()
	require.NoError(t, err)

	// File overrides defaults, env overrides the file.
	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "remote", cfg.Embedding.Backend)
	assert.Equal(t, 64, cfg.Embedding.Dimension)
	assert.Equal(t, 0.7, cfg.LLM.Temperature)
}

func TestMySQLDSN(t *testing.T) {
	cfg := defaultConfig()
	cfg.MySQL.User = "svc"
	cfg.MySQL.Password = "secret"
	cfg.MySQL.Host = "db.internal"
	cfg.MySQL.Port = 3307
	cfg.MySQL.DB = "qa"
	cfg.MySQL.Params = "parseTime=true"

	assert.Equal(t, "svc:secret@tcp(db.internal:3307)/qa?parseTime=true", cfg.MySQLDSN())
}

func TestHTTPAddr(t *testing.T) {
	cfg := defaultConfig()
	cfg.App.Host = "127.0.0.1"
	cfg.App.Port = 8188
	assert.Equal(t, "127.0.0.1:8188", cfg.HTTPAddr())
}

func TestGetEnvAsInt_BadValueFallsBack(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")
	assert.Equal(t, 42, getEnvAsInt("SOME_INT", 42))
}
