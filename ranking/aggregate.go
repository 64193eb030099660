package ranking

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/rankd/errors"
	"github.com/teranos/rankd/logger"
	"github.com/teranos/rankd/proposal"
)

// Aggregation is the combined opinion of every provider about one candidate.
type Aggregation struct {
	Score      int
	Decorators string
	Data       map[string]string
}

func (a *Aggregation) add(r *Result) {
	a.Score += clampScore(r.Score)
	if r.Decorator != "" {
		a.Decorators += r.Decorator
	}
	if len(r.Data) > 0 {
		if a.Data == nil {
			a.Data = make(map[string]string, len(r.Data))
		}
		for k, v := range r.Data {
			a.Data[k] = v
		}
	}
}

func clampScore(score int) int {
	switch {
	case score < 0:
		return 0
	case score > MaxScore:
		return MaxScore
	default:
		return score
	}
}

// FailureObserver is notified when a provider's contribution is discarded.
type FailureObserver interface {
	ProviderFailed(provider, reason string)
}

// Failure reasons reported to FailureObserver
const (
	ReasonError          = "error"
	ReasonPanic          = "panic"
	ReasonLengthMismatch = "length_mismatch"
)

// Aggregator runs every registered provider against a candidate batch.
type Aggregator struct {
	registry *Registry
	observer FailureObserver
	logger   *zap.SugaredLogger
}

// NewAggregator creates an aggregator over registry. observer may be nil.
func NewAggregator(registry *Registry, observer FailureObserver, log *zap.SugaredLogger) *Aggregator {
	if log == nil {
		log = logger.Logger
	}
	return &Aggregator{
		registry: registry,
		observer: observer,
		logger:   log,
	}
}

// Aggregate returns one entry per candidate, index-aligned; an entry is nil
// when no provider had an opinion. Providers run sequentially in registration
// order. A provider that fails, panics or returns a result of the wrong length
// contributes nothing, and the others still run. When ctx is already done,
// ranking is skipped entirely.
func (a *Aggregator) Aggregate(ctx context.Context, candidates []proposal.Candidate, pctx proposal.Context) []*Aggregation {
	combined := make([]*Aggregation, len(candidates))
	providers := a.registry.Providers()
	if len(providers) == 0 || len(candidates) == 0 {
		return combined
	}
	if ctx.Err() != nil {
		a.logger.Debugw("Skipping ranking, request already canceled",
			logger.FieldCount, len(candidates))
		return combined
	}

	for _, p := range providers {
		start := time.Now()
		results, err := a.rankOne(ctx, p, candidates, pctx)
		if err != nil {
			a.logger.Warnw("Discarding ranking provider result",
				logger.FieldProvider, p.Name(),
				logger.FieldError, err,
			)
			continue
		}

		for i, r := range results {
			if r == nil {
				continue
			}
			if combined[i] == nil {
				combined[i] = &Aggregation{}
			}
			combined[i].add(r)
		}

		a.logger.Debugw("Ranking provider applied",
			logger.FieldProvider, p.Name(),
			logger.FieldCount, len(candidates),
			logger.FieldDurationMS, time.Since(start).Milliseconds(),
		)
	}
	return combined
}

// rankOne invokes one provider and validates its result against the batch.
func (a *Aggregator) rankOne(ctx context.Context, p Provider, candidates []proposal.Candidate, pctx proposal.Context) (results []*Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.fail(p, ReasonPanic)
			results = nil
			err = errors.Wrapf(errors.ErrProviderContract, "panic: %v", r)
		}
	}()

	results, err = p.Rank(ctx, candidates, pctx)
	if err != nil {
		a.fail(p, ReasonError)
		return nil, errors.Wrap(err, "rank")
	}
	if len(results) != len(candidates) {
		a.fail(p, ReasonLengthMismatch)
		return nil, errors.Wrap(errors.ErrProviderContract,
			fmt.Sprintf("result length %d, want %d", len(results), len(candidates)))
	}
	return results, nil
}

func (a *Aggregator) fail(p Provider, reason string) {
	if a.observer != nil {
		a.observer.ProviderFailed(p.Name(), reason)
	}
}
