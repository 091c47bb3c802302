package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	General  GeneralConfig  `mapstructure:"general"`
	UI       UIConfig       `mapstructure:"ui"`
	Provider ProviderConfig `mapstructure:"provider"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	History  HistoryConfig  `mapstructure:"history"`
	Server   ServerConfig   `mapstructure:"server"`
}

type GeneralConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

type UIConfig struct {
	Theme        string `mapstructure:"theme"`
	MouseEnabled bool   `mapstructure:"mouse_enabled"`
	ShowHelpBar  bool   `mapstructure:"show_help_bar"`
}

// ProviderConfig describes the data provider browsed by the terminal UI
type ProviderConfig struct {
	ID                    string                 `mapstructure:"id"`
	DataURL               string                 `mapstructure:"data_url"`
	CountURL              string                 `mapstructure:"count_url"`
	SaveURL               string                 `mapstructure:"save_url"`
	PerPage               int                    `mapstructure:"per_page"`
	PerPageOptions        []int                  `mapstructure:"per_page_options"`
	PaginationSize        int                    `mapstructure:"pagination_size"`
	EmptyBody             string                 `mapstructure:"empty_body"`
	HideBodyDuringLoading bool                   `mapstructure:"hide_body_during_loading"`
	History               bool                   `mapstructure:"history"`
	DynamicURL            bool                   `mapstructure:"dynamic_url"`
	Readonly              bool                   `mapstructure:"readonly"`
	Columns               []ColumnConfig         `mapstructure:"columns"`
	CheckboxFilters       []CheckboxFilterConfig `mapstructure:"checkbox_filters"`
}

// ColumnConfig describes one table column. Without columns every field of the
// first record is shown.
type ColumnConfig struct {
	Name     string `mapstructure:"name"`
	Title    string `mapstructure:"title"`
	Width    int    `mapstructure:"width"`
	Sortable bool   `mapstructure:"sortable"`
	Editable bool   `mapstructure:"editable"`
	Type     string `mapstructure:"type"`
	// DataType is the server-side column type, used to offer filter operators
	DataType string `mapstructure:"data_type"`
}

// CheckboxFilterConfig describes a filter toggled by a checkbox
type CheckboxFilterConfig struct {
	Name              string  `mapstructure:"name"`
	Label             string  `mapstructure:"label"`
	Checked           bool    `mapstructure:"checked"`
	CheckedOperator   string  `mapstructure:"checked_operator"`
	CheckedValue      *string `mapstructure:"checked_value"`
	UncheckedOperator string  `mapstructure:"unchecked_operator"`
	UncheckedValue    *string `mapstructure:"unchecked_value"`
}

type FetchConfig struct {
	TimeoutMs      int    `mapstructure:"timeout_ms"`
	RetryMax       int    `mapstructure:"retry_max"`
	RetryWaitMinMs int    `mapstructure:"retry_wait_min_ms"`
	RetryWaitMaxMs int    `mapstructure:"retry_wait_max_ms"`
	TokenService   string `mapstructure:"token_service"`
	TokenUser      string `mapstructure:"token_user"`
}

type HistoryConfig struct {
	Persist    bool   `mapstructure:"persist"`
	Path       string `mapstructure:"path"`
	MaxEntries int    `mapstructure:"max_entries"`
}

type ServerConfig struct {
	Listen        string   `mapstructure:"listen"`
	DSN           string   `mapstructure:"dsn"`
	Schema        string   `mapstructure:"schema"`
	MaxPerPage    int      `mapstructure:"max_per_page"`
	SearchColumns []string `mapstructure:"search_columns"`
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel:  "info",
			LogFormat: "console",
		},
		UI: UIConfig{
			Theme:        "default",
			MouseEnabled: true,
			ShowHelpBar:  true,
		},
		Provider: ProviderConfig{
			ID:             "datalist",
			PerPage:        10,
			PerPageOptions: []int{10, 25, 50, 100},
			PaginationSize: 3,
			EmptyBody:      "No results",
			History:        true,
		},
		Fetch: FetchConfig{
			TimeoutMs:      30000,
			RetryMax:       3,
			RetryWaitMinMs: 500,
			RetryWaitMaxMs: 5000,
			TokenService:   "datalist",
		},
		History: HistoryConfig{
			Persist:    true,
			MaxEntries: 1000,
		},
		Server: ServerConfig{
			Listen:     ":8080",
			Schema:     "public",
			MaxPerPage: 500,
		},
	}
}

// Load loads configuration from path, or from the default locations when path is empty
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Add config paths in priority order
		// 1. User config directory
		if configDir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(configDir, "datalist"))
		}

		// 2. Current directory
		v.AddConfigPath(".")

		// 3. Default config directory
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("DATALIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := GetDefaults()
	v.SetDefault("general.log_level", d.General.LogLevel)
	v.SetDefault("general.log_format", d.General.LogFormat)
	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("ui.mouse_enabled", d.UI.MouseEnabled)
	v.SetDefault("ui.show_help_bar", d.UI.ShowHelpBar)
	v.SetDefault("provider.id", d.Provider.ID)
	v.SetDefault("provider.data_url", "")
	v.SetDefault("provider.count_url", "")
	v.SetDefault("provider.save_url", "")
	v.SetDefault("provider.per_page", d.Provider.PerPage)
	v.SetDefault("provider.per_page_options", d.Provider.PerPageOptions)
	v.SetDefault("provider.pagination_size", d.Provider.PaginationSize)
	v.SetDefault("provider.empty_body", d.Provider.EmptyBody)
	v.SetDefault("provider.hide_body_during_loading", false)
	v.SetDefault("provider.history", d.Provider.History)
	v.SetDefault("provider.dynamic_url", false)
	v.SetDefault("provider.readonly", false)
	v.SetDefault("fetch.timeout_ms", d.Fetch.TimeoutMs)
	v.SetDefault("fetch.retry_max", d.Fetch.RetryMax)
	v.SetDefault("fetch.retry_wait_min_ms", d.Fetch.RetryWaitMinMs)
	v.SetDefault("fetch.retry_wait_max_ms", d.Fetch.RetryWaitMaxMs)
	v.SetDefault("fetch.token_service", d.Fetch.TokenService)
	v.SetDefault("fetch.token_user", "")
	v.SetDefault("history.persist", d.History.Persist)
	v.SetDefault("history.path", "")
	v.SetDefault("history.max_entries", d.History.MaxEntries)
	v.SetDefault("server.listen", d.Server.Listen)
	v.SetDefault("server.dsn", "")
	v.SetDefault("server.schema", d.Server.Schema)
	v.SetDefault("server.max_per_page", d.Server.MaxPerPage)

	// Read config (it's okay if file doesn't exist, we have defaults)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the widget cannot work with
func (c *Config) Validate() error {
	if c.Provider.PerPage < 1 {
		return fmt.Errorf("invalid config: provider.per_page must be at least 1, got %d", c.Provider.PerPage)
	}
	if c.Provider.PaginationSize < 0 {
		return fmt.Errorf("invalid config: provider.pagination_size must not be negative, got %d", c.Provider.PaginationSize)
	}
	for _, n := range c.Provider.PerPageOptions {
		if n < 1 {
			return fmt.Errorf("invalid config: provider.per_page_options contains %d", n)
		}
	}
	for i, cb := range c.Provider.CheckboxFilters {
		if cb.Name == "" {
			return fmt.Errorf("invalid config: provider.checkbox_filters[%d] has no name", i)
		}
		if cb.CheckedOperator == "" && cb.UncheckedOperator == "" {
			return fmt.Errorf("invalid config: checkbox filter %s has no operator", cb.Name)
		}
	}
	if c.Server.MaxPerPage < 1 {
		return fmt.Errorf("invalid config: server.max_per_page must be at least 1, got %d", c.Server.MaxPerPage)
	}
	return nil
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "datalist"), nil
}

// GetCachePath returns the user cache directory path, used for logs and the
// history database
func GetCachePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "datalist"), nil
}
