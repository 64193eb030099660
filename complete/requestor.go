package complete

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/rankd/errors"
	"github.com/teranos/rankd/logger"
	"github.com/teranos/rankd/proposal"
	"github.com/teranos/rankd/ranking"
)

// PackageRelevanceBoost is added to a package reference naming the package
// of the edited compilation unit.
const PackageRelevanceBoost = 1

// Requestor collects the candidates of one completion request and turns them
// into a response. It is not safe for concurrent use.
type Requestor struct {
	engine     *Engine
	req        Request
	filter     *Filter
	candidates []proposal.Candidate
	response   *Response
	logger     *zap.SugaredLogger
}

// Accept offers one candidate. Rejected candidates are dropped silently;
// potential method declarations are replaced by synthesized accessors.
func (r *Requestor) Accept(c proposal.Candidate) {
	if r.response != nil {
		return
	}
	if !r.filter.Accept(c, r.req.Context.Token) {
		return
	}
	if c.Kind == proposal.PotentialMethodDeclaration {
		for _, acc := range r.engine.synth.Synthesize(c, r.req.Context, r.req.Locator) {
			r.add(acc)
		}
		return
	}
	if c.Kind == proposal.PackageRef && r.req.Context.Package != "" && c.Completion == r.req.Context.Package {
		c.Relevance += PackageRelevanceBoost
	}
	r.add(c)
}

func (r *Requestor) add(c proposal.Candidate) {
	c.Index = len(r.candidates)
	r.candidates = append(r.candidates, c)
}

// AcceptAll offers a batch, checking for cancellation between candidates.
func (r *Requestor) AcceptAll(ctx context.Context, batch []proposal.Candidate) error {
	for _, c := range batch {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(errors.ErrCanceled, err.Error())
		}
		r.Accept(c)
	}
	return nil
}

// Candidates returns a copy of the accepted candidates in acceptance order.
func (r *Requestor) Candidates() []proposal.Candidate {
	return append([]proposal.Candidate(nil), r.candidates...)
}

// Complete ranks, sorts, truncates and assembles the accepted candidates.
// A context canceled before ranking aborts with ErrCanceled. Calling Complete
// again returns the same list.
func (r *Requestor) Complete(ctx context.Context) (*List, error) {
	if r.response != nil {
		return r.response.List(), nil
	}
	log := logger.FromContext(ctx, r.logger)
	start := time.Now()
	total := len(r.candidates)

	if err := ctx.Err(); err != nil {
		r.engine.metrics.observeRequest(StatusCanceled, total, time.Since(start))
		return nil, errors.Wrap(errors.ErrCanceled, err.Error())
	}

	aggregations := r.rank(ctx)

	ranked := append([]proposal.Candidate(nil), r.candidates...)
	Sort(ranked)
	limit, complete := Truncate(len(ranked), r.engine.settings.MaxResults)
	retained := ranked[:limit:limit]

	id := r.engine.cache.NextID()
	asm := newAssembler(id, r.req.Capabilities, r.req.Replacements, log)
	asm.matchChar = r.req.MatchChar
	var defaults *ItemDefaults
	if len(retained) > 0 {
		defaults = asm.computeDefaults(retained[0])
	}
	items, failed := asm.assembleAll(retained, aggregations)

	resp := &Response{
		ID:           id,
		Context:      r.req.Context,
		Proposals:    retained,
		Items:        items,
		ItemDefaults: defaults,
		IsIncomplete: !complete,
		CommonData:   commonData(r.req.Context),
	}
	r.engine.cache.Store(resp)
	r.response = resp

	status := StatusComplete
	if !complete {
		status = StatusIncomplete
	}
	r.engine.metrics.observeRequest(status, total, time.Since(start))
	r.engine.metrics.itemFailed(failed)
	log.Debugw("Completion assembled",
		logger.FieldCount, len(items),
		logger.FieldTotalCount, total,
		logger.FieldLimit, r.engine.settings.MaxResults,
		logger.FieldComplete, complete,
		logger.FieldDurationMS, time.Since(start).Milliseconds())

	return resp.List(), nil
}

// rank folds provider scores into relevance and returns the aggregations
// keyed by candidate index.
func (r *Requestor) rank(ctx context.Context) map[int]*ranking.Aggregation {
	aggs := r.engine.aggregator.Aggregate(ctx, r.candidates, r.req.Context)
	byIndex := make(map[int]*ranking.Aggregation, len(aggs))
	for i, agg := range aggs {
		if agg == nil {
			continue
		}
		r.candidates[i].Relevance += agg.Score
		byIndex[r.candidates[i].Index] = agg
	}
	return byIndex
}

func commonData(pctx proposal.Context) map[string]string {
	if pctx.URI == "" {
		return nil
	}
	return map[string]string{DataURI: pctx.URI}
}
