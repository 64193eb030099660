package fuzzy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/rankd/proposal"
)

func TestProvider_Rank(t *testing.T) {
	p := NewProvider(0)
	batch := []proposal.Candidate{
		{Kind: proposal.MethodRef, Completion: "toString()", Name: "toString"},
		{Kind: proposal.MethodRef, Completion: "notify()"},
		{Kind: proposal.LocalVariableRef, Completion: "tsCount"},
		{Kind: proposal.Keyword, Completion: "ts"},
	}

	results, err := p.Rank(context.Background(), batch, proposal.Context{Token: "ts"})
	require.NoError(t, err)
	require.Len(t, results, len(batch))

	require.NotNil(t, results[0])
	assert.Equal(t, DefaultMaxScore*2/8, results[0].Score, "toString skips six characters")
	assert.Nil(t, results[1], "notify has no s after its t")
	assert.Equal(t, DefaultMaxScore*2/7, results[2].Score)
	assert.Equal(t, DefaultMaxScore, results[3].Score, "exact match")
}

func TestProvider_EmptyToken(t *testing.T) {
	results, err := NewProvider(50).Rank(context.Background(), []proposal.Candidate{{Completion: "a"}}, proposal.Context{})
	require.NoError(t, err)
	assert.Nil(t, results[0])
}

func TestProvider_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewProvider(0).Rank(ctx, []proposal.Candidate{{Completion: "a"}}, proposal.Context{Token: "a"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIdentifier(t *testing.T) {
	tests := map[string]proposal.Candidate{
		"size":      {Completion: "size()"},
		"List":      {Completion: "List<E>"},
		"java.util": {Completion: "java.util;"},
		"named":     {Completion: "other()", Name: "named"},
	}
	for want, c := range tests {
		assert.Equal(t, want, identifier(c))
	}
}
