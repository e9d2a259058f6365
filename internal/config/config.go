package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/bankdash/internal/api"
	"github.com/Veraticus/bankdash/internal/common"
	"github.com/Veraticus/bankdash/internal/i18n"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override config keys,
// e.g. BANKDASH_SERVER_URL for server.url.
const EnvPrefix = "BANKDASH"

// Config keys.
const (
	KeyServerURL      = "server.url"
	KeySessionCookie  = "server.session_cookie"
	KeySessionName    = "server.session_name"
	KeyServerTimeout  = "server.timeout"
	KeyStatePath      = "state.path"
	KeyLanguage       = "ui.language"
	KeyPageSize       = "ui.page_size"
	KeyAlertCountdown = "ui.alert_countdown"
	KeyLogLevel       = "logging.level"
	KeyLogFormat      = "logging.format"
)

// Default values.
const (
	DefaultConfigDir = "$XDG_CONFIG_HOME/bankdash"
	DefaultStatePath = "$XDG_DATA_HOME/bankdash/state.db"
	DefaultPageSize  = 50
	DefaultTimeout   = 30 * time.Second
)

// Server is where the backend lives and how the client authenticates.
type Server struct {
	URL           string
	SessionName   string
	SessionCookie string
	Timeout       time.Duration
}

// UI holds presentation settings.
type UI struct {
	Language       i18n.Language
	PageSize       int
	AlertCountdown time.Duration
}

// Logging selects the slog handler.
type Logging struct {
	Level  string
	Format string
}

// Config is the resolved client configuration.
type Config struct {
	Logging   Logging
	Server    Server
	StatePath string
	UI        UI
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeySessionName, api.DefaultSessionCookie)
	v.SetDefault(KeyServerTimeout, DefaultTimeout)
	v.SetDefault(KeyStatePath, DefaultStatePath)
	v.SetDefault(KeyLanguage, "")
	v.SetDefault(KeyPageSize, DefaultPageSize)
	v.SetDefault(KeyAlertCountdown, time.Duration(0))
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// Init loads a .env file from the working directory, then the config file and
// the environment into v. An explicit cfgFile must exist; the default file is
// optional.
func Init(v *viper.Viper, cfgFile string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(ExpandPath(cfgFile))
	} else {
		v.AddConfigPath(ExpandPath(DefaultConfigDir))
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}
	return nil
}

// Load resolves and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: Server{
			URL:           strings.TrimSpace(v.GetString(KeyServerURL)),
			SessionName:   v.GetString(KeySessionName),
			SessionCookie: v.GetString(KeySessionCookie),
			Timeout:       v.GetDuration(KeyServerTimeout),
		},
		StatePath: ExpandPath(v.GetString(KeyStatePath)),
		UI: UI{
			PageSize:       v.GetInt(KeyPageSize),
			AlertCountdown: v.GetDuration(KeyAlertCountdown),
		},
		Logging: Logging{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
	}

	if cfg.Server.URL == "" {
		return nil, fmt.Errorf("%w: %s (or %s_SERVER_URL)", common.ErrMissingConfig, KeyServerURL, EnvPrefix)
	}
	if u, err := url.Parse(cfg.Server.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %s %q is not an absolute URL", common.ErrInvalidConfig, KeyServerURL, cfg.Server.URL)
	}
	if cfg.Server.Timeout < 0 {
		return nil, fmt.Errorf("%w: %s must not be negative", common.ErrInvalidConfig, KeyServerTimeout)
	}
	if cfg.UI.PageSize <= 0 {
		return nil, fmt.Errorf("%w: %s must be positive, got %d", common.ErrInvalidConfig, KeyPageSize, cfg.UI.PageSize)
	}
	if cfg.UI.AlertCountdown < 0 {
		return nil, fmt.Errorf("%w: %s must not be negative", common.ErrInvalidConfig, KeyAlertCountdown)
	}
	if _, err := common.ParseLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}

	lang, err := resolveLanguage(v.GetString(KeyLanguage))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrInvalidConfig, KeyLanguage, err)
	}
	cfg.UI.Language = lang

	return cfg, nil
}

// resolveLanguage uses the configured language, then the locale of the
// environment, then the default.
func resolveLanguage(configured string) (i18n.Language, error) {
	if configured != "" {
		return i18n.ParseLanguage(configured)
	}
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(env); v != "" && v != "C" && v != "POSIX" {
			if lang, err := i18n.ParseLanguage(v); err == nil {
				return lang, nil
			}
		}
	}
	return i18n.Default, nil
}

// ClientOptions are the api options for the configured server.
func (c *Config) ClientOptions() []api.Option {
	opts := []api.Option{api.WithTimeout(c.Server.Timeout)}
	if c.Server.SessionCookie != "" {
		opts = append(opts, api.WithSession(c.Server.SessionName, c.Server.SessionCookie))
	}
	return opts
}
