package complete

import (
	"testing"

	"github.com/stretchr/testify/assert"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/teranos/rankd/proposal"
)

func TestItemKinds_Exhaustive(t *testing.T) {
	for _, k := range proposal.Kinds() {
		mapped, ok := itemKinds[k]
		if assert.True(t, ok, "kind %s has no item kind", k) {
			assert.True(t, SupportedItemKinds[mapped], "kind %s maps to unsupported %d", k, mapped)
		}
	}
	assert.Len(t, itemKinds, len(proposal.Kinds()))
}

func TestItemKind_Refinement(t *testing.T) {
	tests := []struct {
		name  string
		kind  proposal.Kind
		flags proposal.Flags
		want  protocol.CompletionItemKind
	}{
		{"class", proposal.TypeRef, proposal.FlagPublic, protocol.CompletionItemKindClass},
		{"interface", proposal.TypeRef, proposal.FlagInterface, protocol.CompletionItemKindInterface},
		{"enum", proposal.TypeRef, proposal.FlagEnum, protocol.CompletionItemKindEnum},
		{"anonymous interface", proposal.AnonymousClassDeclaration, proposal.FlagInterface, protocol.CompletionItemKindInterface},
		{"field", proposal.FieldRef, proposal.FlagPrivate, protocol.CompletionItemKindField},
		{"static field", proposal.FieldRef, proposal.FlagStatic, protocol.CompletionItemKindField},
		{"constant", proposal.FieldRef, proposal.FlagStatic | proposal.FlagFinal, protocol.CompletionItemKindConstant},
		{"enum member", proposal.FieldRef, proposal.FlagEnum | proposal.FlagStatic | proposal.FlagFinal, protocol.CompletionItemKindEnumMember},
		{"method", proposal.MethodRef, 0, protocol.CompletionItemKindMethod},
		{"keyword", proposal.Keyword, 0, protocol.CompletionItemKindKeyword},
		{"unknown kind", proposal.Kind(99), 0, protocol.CompletionItemKindText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := itemKind(proposal.Candidate{Kind: tt.kind, Flags: tt.flags})
			assert.Equal(t, tt.want, got)
			assert.True(t, SupportedItemKinds[got])
		})
	}
}
