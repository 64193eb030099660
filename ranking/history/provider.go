package history

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/teranos/rankd/logger"
	"github.com/teranos/rankd/proposal"
	"github.com/teranos/rankd/ranking"
)

const (
	// Name is the provider name used in logs and metrics.
	Name = "history"
	// DataCount is the item data key carrying the selection count.
	DataCount = "history.count"

	DefaultPointsPerSelection = 10
	DefaultDecorator          = "★"
	// DefaultDecorateThreshold is the selection count from which items are decorated.
	DefaultDecorateThreshold = 3
)

// Provider scores candidates by past selections.
type Provider struct {
	store     *Store
	points    int
	decorator string
	threshold int
	logger    *zap.SugaredLogger
}

// Option configures a Provider.
type Option func(*Provider)

func WithPointsPerSelection(points int) Option {
	return func(p *Provider) { p.points = points }
}

// WithDecorator sets the label decorator and the count from which it applies.
// An empty decorator disables decoration.
func WithDecorator(decorator string, threshold int) Option {
	return func(p *Provider) {
		p.decorator = decorator
		p.threshold = threshold
	}
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(p *Provider) { p.logger = log }
}

func NewProvider(store *Store, opts ...Option) *Provider {
	p := &Provider{
		store:     store,
		points:    DefaultPointsPerSelection,
		decorator: DefaultDecorator,
		threshold: DefaultDecorateThreshold,
		logger:    logger.Logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Name() string { return Name }

// Rank scores min(MaxScore, count*points) for every candidate selected before.
func (p *Provider) Rank(ctx context.Context, candidates []proposal.Candidate, _ proposal.Context) ([]*ranking.Result, error) {
	keys := make([]Key, len(candidates))
	for i, c := range candidates {
		keys[i] = KeyOf(c)
	}
	counts, err := p.store.Counts(ctx, keys)
	if err != nil {
		return nil, err
	}

	results := make([]*ranking.Result, len(candidates))
	for i, k := range keys {
		n, ok := counts[k]
		if !ok || n <= 0 {
			continue
		}
		r := &ranking.Result{
			Score: min(ranking.MaxScore, n*p.points),
			Data:  map[string]string{DataCount: strconv.Itoa(n)},
		}
		if p.decorator != "" && n >= p.threshold {
			r.Decorator = p.decorator
		}
		results[i] = r
	}
	p.logger.Debugw("History ranked",
		logger.FieldCount, len(candidates),
		"matched", len(counts))
	return results, nil
}

// Record stores a selection. It lets the provider serve as the selection
// sink of the server.
func (p *Provider) Record(ctx context.Context, c proposal.Candidate) error {
	return p.store.Record(ctx, c)
}
