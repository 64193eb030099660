package am

import (
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/teranos/rankd/errors"
	"github.com/teranos/rankd/proposal"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch strings.ToLower(c.Completion.MatchCase) {
	case "", "off", "firstletter":
	default:
		return errors.Newf("completion.match_case must be off or firstletter, got %q", c.Completion.MatchCase)
	}

	for _, k := range c.Completion.IgnoredKinds {
		if _, err := proposal.ParseKind(k); err != nil {
			return errors.Wrapf(err, "completion.ignored_kinds")
		}
	}

	for _, p := range c.Completion.TypeFilters {
		if !doublestar.ValidatePattern(p) {
			return errors.Newf("completion.type_filters: invalid pattern %q", p)
		}
	}

	// Cache size: 0 = use default, negative = invalid
	if c.Completion.CacheSize < 0 {
		return errors.Newf("completion.cache_size must be >= 0, got %d", c.Completion.CacheSize)
	}

	if c.Ranking.History.PointsPerSelection < 0 {
		return errors.Newf("ranking.history.points_per_selection must be >= 0, got %d", c.Ranking.History.PointsPerSelection)
	}
	if c.Ranking.Fuzzy.MaxScore < 0 || c.Ranking.Fuzzy.MaxScore > 100 {
		return errors.Newf("ranking.fuzzy.max_score must be within 0..100, got %d", c.Ranking.Fuzzy.MaxScore)
	}

	if c.Server.MetricsPath != "" && !strings.HasPrefix(c.Server.MetricsPath, "/") {
		return errors.Newf("server.metrics_path must start with /, got %q", c.Server.MetricsPath)
	}
	if slices.Contains(c.Server.AllowedOrigins, "") {
		return errors.New("server.allowed_origins cannot contain an empty origin")
	}

	return nil
}
