// Package am loads rankd configuration from defaults, TOML files and
// RANKD_* environment variables.
package am

// Config represents the rankd configuration
type Config struct {
	Completion CompletionConfig `mapstructure:"completion"`
	Ranking    RankingConfig    `mapstructure:"ranking"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
}

// CompletionConfig configures filtering, truncation and response caching
type CompletionConfig struct {
	MaxResults   int      `mapstructure:"max_results"`   // <= 0 disables truncation
	MatchCase    string   `mapstructure:"match_case"`    // off | firstletter
	IgnoredKinds []string `mapstructure:"ignored_kinds"` // snake_case candidate kinds, e.g. "javadoc_block_tag"
	TypeFilters  []string `mapstructure:"type_filters"`  // glob patterns over qualified type names
	CacheSize    int      `mapstructure:"cache_size"`    // responses kept for completionItem/resolve

	// ItemDefaults assumes list-level item defaults support for clients
	// that do not declare it.
	ItemDefaults bool `mapstructure:"item_defaults"`
}

// RankingConfig configures the built-in ranking providers
type RankingConfig struct {
	History HistoryConfig `mapstructure:"history"`
	Fuzzy   FuzzyConfig   `mapstructure:"fuzzy"`
}

// HistoryConfig configures the selection-history provider
type HistoryConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	PointsPerSelection int    `mapstructure:"points_per_selection"`
	Decorator          string `mapstructure:"decorator"`          // empty disables decoration
	DecorateThreshold  int    `mapstructure:"decorate_threshold"` // selections before the decorator shows
}

// FuzzyConfig configures the fuzzy-match provider
type FuzzyConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	MaxScore int  `mapstructure:"max_score"`
}

// ServerConfig configures the language server transports
type ServerConfig struct {
	Address        string   `mapstructure:"address"`      // WebSocket listen address
	MetricsPath    string   `mapstructure:"metrics_path"` // empty disables the metrics endpoint
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	Watch          bool     `mapstructure:"watch"` // reload completion settings when the config file changes
}

// DatabaseConfig configures the SQLite database
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// Defaults
const (
	DefaultMaxResults   = 50
	DefaultCacheSize    = 100
	DefaultAddress      = "127.0.0.1:7357"
	DefaultMetricsPath  = "/metrics"
	DefaultDatabasePath = "rankd.db"
)

// DefaultTypeFilters excludes internal and AWT packages from type completion.
var DefaultTypeFilters = []string{
	"java.awt.*",
	"com.sun.*",
	"sun.*",
	"jdk.*",
	"org.graalvm.*",
	"io.micrometer.shaded.*",
}
