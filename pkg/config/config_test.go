package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SIGNATORIES_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL())
	assert.Equal(t, 15*time.Second, cfg.RemoteTimeoutDuration())
	assert.Equal(t, "default", cfg.Source("port"))
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SIGNATORIES_CONFIG_PATH", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(`
certificate_base_url: https://studio.example.com/certificates
language: fr
port: 9000
editing_all_collections: true
`), 0o600))
	t.Setenv("PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, ConfigFileName), cfg.ConfigFilePath())
	assert.Equal(t, "https://studio.example.com/certificates", cfg.CertificateBaseURL)
	assert.Equal(t, "file", cfg.Source("certificate_base_url"))
	assert.Equal(t, "fr", cfg.Language)
	assert.True(t, cfg.EditingAllCollections)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "environment", cfg.Source("port"))
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SIGNATORIES_CONFIG_PATH", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("port: [\n"), 0o600))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"relative base url", func(c *Config) { c.CertificateBaseURL = "/certificates" }, "invalid certificate_base_url value"},
		{"bad port", func(c *Config) { c.Port = 70000 }, "invalid port value"},
		{"bad language", func(c *Config) { c.Language = "!!" }, "invalid language value"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "invalid log_level value"},
		{"bad session ttl", func(c *Config) { c.EditorSessionTTL = 0 }, "invalid editor_session_ttl value"},
		{"trusted proxies", func(c *Config) { c.TrustedProxies = "10.0.0.0/8, 192.0.2.1" }, ""},
		{"bad trusted proxy", func(c *Config) { c.TrustedProxies = "10.0.0.0/8,proxy.local" }, "invalid trusted_proxies entry: proxy.local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newDefault()
			cfg.CertificateBaseURL = "https://studio.example.com/certificates"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestFormat(t *testing.T) {
	cfg := newDefault()
	cfg.DatabaseURL = "postgres://signatories:secret@db:5432/signatories"

	text := cfg.FormatText()
	assert.Contains(t, text, "certificate_base_url")
	assert.Contains(t, text, "(not set)")
	assert.Contains(t, text, "xxxxx")
	assert.NotContains(t, text, "secret")

	out, err := cfg.FormatJSON()
	require.NoError(t, err)
	assert.Contains(t, out, `"attributes"`)
	assert.NotContains(t, out, "secret")
}

func TestReload(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SIGNATORIES_CONFIG_PATH", dir)
	t.Setenv("PORT", "")
	path := filepath.Join(dir, ConfigFileName)

	require.NoError(t, os.WriteFile(path, []byte("port: 9100\n"), 0o600))
	require.NoError(t, Reload())
	assert.Equal(t, 9100, Get().Port)

	require.NoError(t, os.WriteFile(path, []byte("port: 70000\n"), 0o600))
	assert.Error(t, Reload())
	assert.Equal(t, 9100, Get().Port)
}

func TestChanged(t *testing.T) {
	t.Setenv("SIGNATORIES_CONFIG_PATH", t.TempDir())

	a, err := Load()
	require.NoError(t, err)
	b, err := Load()
	require.NoError(t, err)
	assert.Empty(t, a.Changed(b))

	b.Language = "fr"
	b.RemoteTimeout = 30
	assert.Equal(t, []string{"language", "remote_timeout"}, a.Changed(b))
}
