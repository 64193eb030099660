package am

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("completion.max_results", DefaultMaxResults)
	v.SetDefault("completion.match_case", "off")
	v.SetDefault("completion.ignored_kinds", []string{})
	v.SetDefault("completion.type_filters", DefaultTypeFilters)
	v.SetDefault("completion.cache_size", DefaultCacheSize)
	v.SetDefault("completion.item_defaults", false)

	v.SetDefault("ranking.history.enabled", true)
	v.SetDefault("ranking.history.points_per_selection", 10)
	v.SetDefault("ranking.history.decorator", "★")
	v.SetDefault("ranking.history.decorate_threshold", 3)
	v.SetDefault("ranking.fuzzy.enabled", true)
	v.SetDefault("ranking.fuzzy.max_score", 20)

	v.SetDefault("server.address", DefaultAddress)
	v.SetDefault("server.metrics_path", DefaultMetricsPath)
	v.SetDefault("server.allowed_origins", []string{
		"http://localhost",
		"https://localhost",
		"http://127.0.0.1",
		"vscode-webview://*",
	})
	v.SetDefault("server.watch", false)

	v.SetDefault("database.path", DefaultDatabasePath)
}

// BindEnvVars binds keys whose environment names do not follow the
// RANKD_SECTION_KEY pattern.
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("database.path", "RANKD_DATABASE_PATH", "RANKD_DB")
	v.BindEnv("completion.max_results", "RANKD_COMPLETION_MAX_RESULTS", "RANKD_MAX_RESULTS")
}

// GetDatabasePath returns the configured database path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return DefaultDatabasePath
	}
	return c.Database.Path
}
