package server

import (
	"go.uber.org/zap"

	"github.com/teranos/rankd/am"
	"github.com/teranos/rankd/complete"
	"github.com/teranos/rankd/errors"
	"github.com/teranos/rankd/proposal"
	"github.com/teranos/rankd/ranking"
	"github.com/teranos/rankd/ranking/fuzzy"
	"github.com/teranos/rankd/ranking/history"
	"github.com/teranos/rankd/typefilter"
)

// EngineSettings converts the completion section of the configuration.
func EngineSettings(cfg am.CompletionConfig) (complete.Settings, error) {
	mode, err := complete.ParseMatchCaseMode(cfg.MatchCase)
	if err != nil {
		return complete.Settings{}, err
	}
	ignored := make([]proposal.Kind, 0, len(cfg.IgnoredKinds))
	for _, name := range cfg.IgnoredKinds {
		k, err := proposal.ParseKind(name)
		if err != nil {
			return complete.Settings{}, errors.Wrap(err, "completion.ignored_kinds")
		}
		ignored = append(ignored, k)
	}
	return complete.Settings{
		MaxResults:   cfg.MaxResults,
		MatchCase:    mode,
		IgnoredKinds: ignored,
	}, nil
}

// collaborators builds the shared type filter and import detector.
func collaborators(cfg am.CompletionConfig) (complete.Collaborators, error) {
	filter, err := typefilter.New(cfg.TypeFilters)
	if err != nil {
		return complete.Collaborators{}, errors.Wrap(err, "completion.type_filters")
	}
	return complete.Collaborators{
		TypeFilter: filter,
		Imports:    typefilter.ImportCompletion{},
	}, nil
}

// configureProviders replaces the built-in providers in registry according
// to cfg. Providers registered by other callers are left alone.
func configureProviders(registry *ranking.Registry, cfg am.RankingConfig, store *history.Store, log *zap.SugaredLogger) *history.Provider {
	registry.Unregister(history.Name)
	registry.Unregister(fuzzy.Name)

	var hist *history.Provider
	if cfg.History.Enabled && store != nil {
		hist = history.NewProvider(store,
			history.WithPointsPerSelection(cfg.History.PointsPerSelection),
			history.WithDecorator(cfg.History.Decorator, cfg.History.DecorateThreshold),
			history.WithLogger(log.Named(history.Name)),
		)
		registry.Register(hist)
	}
	if cfg.Fuzzy.Enabled {
		registry.Register(fuzzy.NewProvider(cfg.Fuzzy.MaxScore))
	}
	return hist
}
