package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/bankdash/internal/common"
	"github.com/Veraticus/bankdash/internal/i18n"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearLocale(t *testing.T) {
	t.Helper()
	t.Setenv("LC_ALL", "C")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "")
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestInitAndLoad_FromFile(t *testing.T) {
	clearLocale(t)
	path := writeConfig(t, `
server:
  url: https://bank.example.com
  session_cookie: "42"
  timeout: 5s
state:
  path: /tmp/bankdash/state.db
ui:
  language: de
  page_size: 20
logging:
  level: debug
  format: json
`)
	v := viper.New()
	require.NoError(t, Init(v, path))

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "https://bank.example.com", cfg.Server.URL)
	assert.Equal(t, "42", cfg.Server.SessionCookie)
	assert.Equal(t, "user_id", cfg.Server.SessionName)
	assert.Equal(t, 5*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "/tmp/bankdash/state.db", cfg.StatePath)
	assert.Equal(t, i18n.German, cfg.UI.Language)
	assert.Equal(t, 20, cfg.UI.PageSize)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Len(t, cfg.ClientOptions(), 2)
}

func TestInit_EnvOverridesFile(t *testing.T) {
	clearLocale(t)
	path := writeConfig(t, "server:\n  url: https://file.example.com\nui:\n  page_size: 20\n")
	t.Setenv("BANKDASH_SERVER_URL", "https://env.example.com")
	t.Setenv("BANKDASH_UI_PAGE_SIZE", "75")

	v := viper.New()
	require.NoError(t, Init(v, path))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.Server.URL)
	assert.Equal(t, 75, cfg.UI.PageSize)
}

func TestInit_MissingExplicitFile(t *testing.T) {
	err := Init(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	clearLocale(t)
	v := viper.New()
	SetDefaults(v)
	v.Set(KeyServerURL, "http://localhost:8000")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, DefaultPageSize, cfg.UI.PageSize)
	assert.Equal(t, DefaultTimeout, cfg.Server.Timeout)
	assert.Equal(t, i18n.English, cfg.UI.Language)
	assert.Equal(t, ExpandPath(DefaultStatePath), cfg.StatePath)
	assert.NotContains(t, cfg.StatePath, "~")
	assert.Len(t, cfg.ClientOptions(), 1)
}

func TestLoad_LanguageFromLocale(t *testing.T) {
	clearLocale(t)
	t.Setenv("LC_ALL", "de_DE.UTF-8")
	v := viper.New()
	SetDefaults(v)
	v.Set(KeyServerURL, "http://localhost:8000")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, i18n.German, cfg.UI.Language)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		want error
		set  map[string]any
		name string
	}{
		{name: "missing url", set: map[string]any{}, want: common.ErrMissingConfig},
		{name: "relative url", set: map[string]any{KeyServerURL: "localhost"}, want: common.ErrInvalidConfig},
		{name: "page size", set: map[string]any{KeyServerURL: "http://x", KeyPageSize: 0}, want: common.ErrInvalidConfig},
		{name: "timeout", set: map[string]any{KeyServerURL: "http://x", KeyServerTimeout: "-1s"}, want: common.ErrInvalidConfig},
		{name: "log level", set: map[string]any{KeyServerURL: "http://x", KeyLogLevel: "loud"}, want: common.ErrInvalidConfig},
		{name: "language", set: map[string]any{KeyServerURL: "http://x", KeyLanguage: "klingon"}, want: common.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearLocale(t)
			v := viper.New()
			SetDefaults(v)
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := Load(v)
			require.ErrorIs(t, err, tt.want)
		})
	}
}
