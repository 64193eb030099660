package proposal

import (
	"strings"

	"github.com/teranos/rankd/errors"
)

// Kind identifies what a candidate completes. Tag values are small positive
// integers; lower tags rank first when relevance ties.
type Kind int

const (
	AnonymousClassDeclaration Kind = iota + 1
	FieldRef
	Keyword
	LabelRef
	LocalVariableRef
	MethodRef
	MethodDeclaration
	PackageRef
	TypeRef
	VariableDeclaration
	PotentialMethodDeclaration
	MethodNameReference
	AnnotationAttributeRef
	JavadocFieldRef
	JavadocMethodRef
	JavadocTypeRef
	JavadocValueRef
	JavadocParamRef
	JavadocBlockTag
	JavadocInlineTag
	FieldImport
	MethodImport
	TypeImport
	MethodRefWithCastedReceiver
	FieldRefWithCastedReceiver
	ConstructorInvocation
	AnonymousClassConstructorInvocation
	ModuleDeclaration
	ModuleRef
	LambdaExpression
)

// FirstKind and LastKind bound the closed enumeration.
const (
	FirstKind = AnonymousClassDeclaration
	LastKind  = LambdaExpression
)

var kindNames = map[Kind]string{
	AnonymousClassDeclaration:           "anonymous_class_declaration",
	FieldRef:                            "field_ref",
	Keyword:                             "keyword",
	LabelRef:                            "label_ref",
	LocalVariableRef:                    "local_variable_ref",
	MethodRef:                           "method_ref",
	MethodDeclaration:                   "method_declaration",
	PackageRef:                          "package_ref",
	TypeRef:                             "type_ref",
	VariableDeclaration:                 "variable_declaration",
	PotentialMethodDeclaration:          "potential_method_declaration",
	MethodNameReference:                 "method_name_reference",
	AnnotationAttributeRef:              "annotation_attribute_ref",
	JavadocFieldRef:                     "javadoc_field_ref",
	JavadocMethodRef:                    "javadoc_method_ref",
	JavadocTypeRef:                      "javadoc_type_ref",
	JavadocValueRef:                     "javadoc_value_ref",
	JavadocParamRef:                     "javadoc_param_ref",
	JavadocBlockTag:                     "javadoc_block_tag",
	JavadocInlineTag:                    "javadoc_inline_tag",
	FieldImport:                         "field_import",
	MethodImport:                        "method_import",
	TypeImport:                          "type_import",
	MethodRefWithCastedReceiver:         "method_ref_with_casted_receiver",
	FieldRefWithCastedReceiver:          "field_ref_with_casted_receiver",
	ConstructorInvocation:               "constructor_invocation",
	AnonymousClassConstructorInvocation: "anonymous_class_constructor_invocation",
	ModuleDeclaration:                   "module_declaration",
	ModuleRef:                           "module_ref",
	LambdaExpression:                    "lambda_expression",
}

// Kinds returns every kind in tag order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, int(LastKind))
	for k := FirstKind; k <= LastKind; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Valid reports whether k belongs to the enumeration.
func (k Kind) Valid() bool {
	return k >= FirstKind && k <= LastKind
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind accepts the snake_case name of a kind, case-insensitively.
func ParseKind(name string) (Kind, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == needle {
			return k, nil
		}
	}
	return 0, errors.NewInvalidRequestError("unknown candidate kind %q", name)
}

// MarshalText encodes the kind by name so fixtures and config stay readable.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, errors.NewInvalidRequestError("unknown candidate kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
