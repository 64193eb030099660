package complete

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/teranos/rankd/proposal"
)

// itemKinds maps every candidate kind to its protocol item kind. Type and
// field references are refined by flags in itemKind.
var itemKinds = map[proposal.Kind]protocol.CompletionItemKind{
	proposal.AnonymousClassConstructorInvocation: protocol.CompletionItemKindConstructor,
	proposal.ConstructorInvocation:               protocol.CompletionItemKindConstructor,

	proposal.AnonymousClassDeclaration: protocol.CompletionItemKindClass,
	proposal.TypeRef:                   protocol.CompletionItemKindClass,

	proposal.FieldImport:       protocol.CompletionItemKindModule,
	proposal.MethodImport:      protocol.CompletionItemKindModule,
	proposal.PackageRef:        protocol.CompletionItemKindModule,
	proposal.TypeImport:        protocol.CompletionItemKindModule,
	proposal.ModuleDeclaration: protocol.CompletionItemKindModule,
	proposal.ModuleRef:         protocol.CompletionItemKindModule,

	proposal.FieldRef:                   protocol.CompletionItemKindField,
	proposal.FieldRefWithCastedReceiver: protocol.CompletionItemKindField,

	proposal.Keyword:  protocol.CompletionItemKindKeyword,
	proposal.LabelRef: protocol.CompletionItemKindReference,

	proposal.LocalVariableRef:    protocol.CompletionItemKindVariable,
	proposal.VariableDeclaration: protocol.CompletionItemKindVariable,

	proposal.MethodDeclaration:           protocol.CompletionItemKindMethod,
	proposal.MethodRef:                   protocol.CompletionItemKindMethod,
	proposal.MethodRefWithCastedReceiver: protocol.CompletionItemKindMethod,
	proposal.MethodNameReference:         protocol.CompletionItemKindMethod,
	proposal.PotentialMethodDeclaration:  protocol.CompletionItemKindMethod,
	proposal.LambdaExpression:            protocol.CompletionItemKindMethod,

	proposal.AnnotationAttributeRef: protocol.CompletionItemKindText,
	proposal.JavadocBlockTag:        protocol.CompletionItemKindText,
	proposal.JavadocFieldRef:        protocol.CompletionItemKindText,
	proposal.JavadocInlineTag:       protocol.CompletionItemKindText,
	proposal.JavadocMethodRef:       protocol.CompletionItemKindText,
	proposal.JavadocParamRef:        protocol.CompletionItemKindText,
	proposal.JavadocTypeRef:         protocol.CompletionItemKindText,
	proposal.JavadocValueRef:        protocol.CompletionItemKindText,
}

// SupportedItemKinds lists every protocol kind itemKind can produce.
// Keep in sync with itemKinds and the refinements below.
var SupportedItemKinds = map[protocol.CompletionItemKind]bool{
	protocol.CompletionItemKindConstructor: true,
	protocol.CompletionItemKindClass:       true,
	protocol.CompletionItemKindConstant:    true,
	protocol.CompletionItemKindInterface:   true,
	protocol.CompletionItemKindEnum:        true,
	protocol.CompletionItemKindEnumMember:  true,
	protocol.CompletionItemKindModule:      true,
	protocol.CompletionItemKindField:       true,
	protocol.CompletionItemKindKeyword:     true,
	protocol.CompletionItemKindReference:   true,
	protocol.CompletionItemKindVariable:    true,
	protocol.CompletionItemKindMethod:      true,
	protocol.CompletionItemKindText:        true,
}

func itemKind(c proposal.Candidate) protocol.CompletionItemKind {
	switch c.Kind {
	case proposal.AnonymousClassDeclaration, proposal.TypeRef:
		if c.Flags.IsInterface() {
			return protocol.CompletionItemKindInterface
		}
		if c.Flags.IsEnum() {
			return protocol.CompletionItemKindEnum
		}
	case proposal.FieldRef:
		if c.Flags.IsEnum() {
			return protocol.CompletionItemKindEnumMember
		}
		if c.Flags.IsStatic() && c.Flags.IsFinal() {
			return protocol.CompletionItemKindConstant
		}
	}
	if k, ok := itemKinds[c.Kind]; ok {
		return k
	}
	return protocol.CompletionItemKindText
}
