// Package fuzzy ranks candidates by how closely their identifier matches the
// typed token as a subsequence.
package fuzzy

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/teranos/rankd/proposal"
	"github.com/teranos/rankd/ranking"
)

const (
	Name = "fuzzy"
	// DefaultMaxScore keeps fuzzy matching a tie-breaker rather than an override.
	DefaultMaxScore = 20
)

// Provider scores maxScore * len(token) / (len(token) + distance), where
// distance counts the identifier characters the token skips.
type Provider struct {
	maxScore int
}

func NewProvider(maxScore int) *Provider {
	if maxScore <= 0 || maxScore > ranking.MaxScore {
		maxScore = DefaultMaxScore
	}
	return &Provider{maxScore: maxScore}
}

func (p *Provider) Name() string { return Name }

func (p *Provider) Rank(ctx context.Context, candidates []proposal.Candidate, pctx proposal.Context) ([]*ranking.Result, error) {
	results := make([]*ranking.Result, len(candidates))
	token := pctx.Token
	if token == "" {
		return results, nil
	}
	tokenLen := utf8.RuneCountInString(token)

	for i, c := range candidates {
		if i%256 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		distance := fuzzy.RankMatchFold(token, identifier(c))
		if distance < 0 {
			continue
		}
		score := p.maxScore * tokenLen / (tokenLen + distance)
		if score > 0 {
			results[i] = &ranking.Result{Score: score}
		}
	}
	return results, nil
}

// identifier is the part of a candidate the user types: its name, or the
// completion text up to any argument list or qualifier.
func identifier(c proposal.Candidate) string {
	if c.Name != "" {
		return c.Name
	}
	text := c.Completion
	if i := strings.IndexAny(text, "( <;"); i >= 0 {
		text = text[:i]
	}
	return text
}
