package complete

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/rankd/proposal"
	"github.com/teranos/rankd/typefilter"
)

func TestFilter_Accept(t *testing.T) {
	types, err := typefilter.New([]string{"java.awt.*", "com.sun.*"})
	require.NoError(t, err)

	awtList := proposal.Candidate{Kind: proposal.TypeRef, Completion: "List", Signature: "Ljava.awt.List;"}
	utilList := proposal.Candidate{Kind: proposal.TypeRef, Completion: "List", Signature: "Ljava.util.List;"}
	awtCtor := proposal.Candidate{Kind: proposal.ConstructorInvocation, Completion: "List()", DeclarationSignature: "Ljava.awt.List;"}
	awtImport := proposal.Candidate{Kind: proposal.TypeRef, Completion: "java.awt.List;", Signature: "Ljava.awt.List;"}
	awtMethod := proposal.Candidate{Kind: proposal.MethodRef, Completion: "add()", DeclarationSignature: "Ljava.awt.List;"}
	awtMethodImport := awtMethod
	awtMethodImport.RequiresImport = true
	awtField := proposal.Candidate{Kind: proposal.FieldRef, Completion: "HORIZONTAL", DeclarationSignature: "Ljava.awt.Scrollbar;"}

	tests := []struct {
		name     string
		settings Settings
		token    string
		c        proposal.Candidate
		want     bool
	}{
		{"unfiltered type", Settings{}, "", utilList, true},
		{"filtered type", Settings{}, "", awtList, false},
		{"filtered constructor", Settings{}, "", awtCtor, false},
		{"import completion is kept", Settings{}, "", awtImport, true},
		{"method ref without import marker", Settings{}, "", awtMethod, true},
		{"method ref requiring import", Settings{}, "", awtMethodImport, false},
		{"field refs are not type filtered", Settings{}, "", awtField, true},
		{"ignored kind", Settings{IgnoredKinds: []proposal.Kind{proposal.TypeRef}}, "", utilList, false},
		{"case off", Settings{MatchCase: MatchCaseOff}, "l", utilList, true},
		{"first letter mismatch", Settings{MatchCase: MatchCaseFirstLetter}, "l", utilList, false},
		{"first letter match", Settings{MatchCase: MatchCaseFirstLetter}, "Li", utilList, true},
		{"first letter empty token", Settings{MatchCase: MatchCaseFirstLetter}, "", utilList, true},
		{"first letter empty completion", Settings{MatchCase: MatchCaseFirstLetter}, "x", proposal.Candidate{Kind: proposal.Keyword}, true},
		{
			"first letter uses simple type name",
			Settings{MatchCase: MatchCaseFirstLetter}, "M",
			proposal.Candidate{Kind: proposal.TypeRef, Completion: "java.util.Map", Signature: "Ljava.util.Map;"},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFilter(tt.settings, types, typefilter.ImportCompletion{})
			assert.Equal(t, tt.want, f.Accept(tt.c, tt.token))
		})
	}
}

func TestFilter_NilCollaborators(t *testing.T) {
	f := NewFilter(Settings{}, nil, nil)
	assert.True(t, f.Accept(proposal.Candidate{Kind: proposal.TypeRef, Signature: "Ljava.awt.List;"}, ""))
}

func TestParseMatchCaseMode(t *testing.T) {
	for in, want := range map[string]MatchCaseMode{
		"":            MatchCaseOff,
		"off":         MatchCaseOff,
		"FirstLetter": MatchCaseFirstLetter,
	} {
		got, err := ParseMatchCaseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMatchCaseMode("always")
	assert.Error(t, err)
}
