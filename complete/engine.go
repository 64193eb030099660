package complete

import (
	"go.uber.org/zap"

	"github.com/teranos/rankd/proposal"
	"github.com/teranos/rankd/ranking"
	"github.com/teranos/rankd/typefilter"
)

// Collaborators are the policy objects shared by every request.
type Collaborators struct {
	// TypeFilter excludes declaring types; nil disables type filtering.
	TypeFilter *typefilter.Filter
	// Imports recognizes import completions; nil treats none as imports.
	Imports ImportDetector
}

// Engine is the long-lived completion pipeline. It is safe for concurrent
// use; each request gets its own Requestor.
type Engine struct {
	settings   Settings
	collab     Collaborators
	aggregator *ranking.Aggregator
	synth      *AccessorSynthesizer
	cache      *ResponseCache
	metrics    *Metrics
	logger     *zap.SugaredLogger
}

// NewEngine wires an engine. metrics may be nil; a nil cache gets a
// default-sized one.
func NewEngine(settings Settings, collab Collaborators, registry *ranking.Registry, cache *ResponseCache, metrics *Metrics, log *zap.SugaredLogger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if cache == nil {
		var err error
		if cache, err = NewResponseCache(DefaultCacheSize); err != nil {
			return nil, err
		}
	}
	if settings.MatchCase == "" {
		settings.MatchCase = MatchCaseOff
	}
	var observer ranking.FailureObserver
	if metrics != nil {
		observer = metrics
	}
	return &Engine{
		settings:   settings,
		collab:     collab,
		aggregator: ranking.NewAggregator(registry, observer, log.Named("ranking")),
		synth:      NewAccessorSynthesizer(log.Named("accessor")),
		cache:      cache,
		metrics:    metrics,
		logger:     log,
	}, nil
}

func (e *Engine) Settings() Settings { return e.settings }

func (e *Engine) Cache() *ResponseCache { return e.cache }

// Request carries the per-request inputs of a completion.
type Request struct {
	Context      proposal.Context
	Capabilities ClientCapabilities
	// Replacements computes item edits; nil inserts the completion text at the cursor.
	Replacements ReplacementComputer
	// Locator resolves enclosing types for accessor synthesis when the
	// context is not extended. May be nil.
	Locator TypeLocator
	// MatchChar is the trigger character, or zero.
	MatchChar rune
}

// NewRequestor starts a completion request.
func (e *Engine) NewRequestor(req Request) *Requestor {
	var types TypeMatcher
	if e.collab.TypeFilter != nil {
		types = e.collab.TypeFilter.WithoutImported(req.Context.Imports)
	}
	return &Requestor{
		engine: e,
		req:    req,
		filter: NewFilter(e.settings, types, e.collab.Imports),
		logger: e.logger,
	}
}
