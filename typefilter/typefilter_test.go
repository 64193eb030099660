package typefilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/rankd/proposal"
)

func TestIsTypeFiltered(t *testing.T) {
	f, err := New(DefaultPatterns)
	require.NoError(t, err)

	tests := []struct {
		name string
		sig  string
		want bool
	}{
		{"awt list", "java.awt.List", true},
		{"awt nested package", "java.awt.event.ActionEvent", true},
		{"awt signature", "Ljava.awt.List;", true},
		{"util list", "java.util.List", false},
		{"sun internal", "sun.misc.Unsafe", true},
		{"jdk internal", "jdk.internal.misc.VM", true},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.IsTypeFiltered(tt.sig))
		})
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New([]string{"java.[awt"})
	assert.Error(t, err)
}

func TestNew_SkipsBlankPatterns(t *testing.T) {
	f, err := New([]string{" ", "com.sun.*", ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"com.sun.*"}, f.Patterns())
}

func TestWithoutImported(t *testing.T) {
	f, err := New([]string{"java.awt.*", "com.sun.*"})
	require.NoError(t, err)

	relaxed := f.WithoutImported([]string{"java.awt.List", "java.util.Map"})
	assert.Equal(t, []string{"com.sun.*"}, relaxed.Patterns())
	assert.False(t, relaxed.IsTypeFiltered("java.awt.List"))

	// The original filter is untouched.
	assert.True(t, f.IsTypeFiltered("java.awt.List"))
	assert.Same(t, f, f.WithoutImported(nil))
}

func TestNilFilter(t *testing.T) {
	var f *Filter
	assert.False(t, f.IsTypeFiltered("java.awt.List"))
}

func TestImportCompletion(t *testing.T) {
	d := ImportCompletion{}
	assert.True(t, d.IsImportCompletion(proposal.Candidate{Completion: "java.awt.List;"}))
	assert.True(t, d.IsImportCompletion(proposal.Candidate{Completion: "java.awt."}))
	assert.False(t, d.IsImportCompletion(proposal.Candidate{Completion: "List"}))
	assert.False(t, d.IsImportCompletion(proposal.Candidate{}))
}
