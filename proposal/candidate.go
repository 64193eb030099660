// Package proposal defines the raw completion candidates produced by a
// semantic analyzer and the request context they were produced in.
package proposal

// Candidate is one raw completion suggestion, pre-ranking.
//
// Candidates are plain values. Index is assigned when a candidate is accepted
// into a request and serves as its identity: aggregation results, caches and
// resolve lookups key on it instead of on value equality.
type Candidate struct {
	Index int `json:"index"`

	Kind      Kind  `json:"kind"`
	Relevance int   `json:"relevance"`
	Flags     Flags `json:"flags"`

	// Completion is the raw text the analyzer proposes to insert.
	Completion string `json:"completion"`
	// Name is the bare identifier (method, field or type name).
	Name string `json:"name,omitempty"`
	// Label overrides the display label; Completion is used when empty.
	Label         string `json:"label,omitempty"`
	Detail        string `json:"detail,omitempty"`
	Documentation string `json:"documentation,omitempty"`

	// Signature is the candidate's own type signature (type refs).
	Signature string `json:"signature,omitempty"`
	// DeclarationSignature is the signature of the declaring type (members).
	DeclarationSignature string `json:"declarationSignature,omitempty"`

	ReplaceStart       int `json:"replaceStart"`
	ReplaceEnd         int `json:"replaceEnd"`
	CompletionLocation int `json:"completionLocation"`

	// RequiresImport marks member references that need a type import to resolve.
	RequiresImport bool `json:"requiresImport,omitempty"`
}

// DisplayLabel returns the label shown to the user.
func (c Candidate) DisplayLabel() string {
	if c.Label != "" {
		return c.Label
	}
	if c.Completion != "" {
		return c.Completion
	}
	return c.Name
}

// DeclaringType returns the fully qualified name of the type a candidate
// belongs to, or false for kinds that have no declaring type.
func (c Candidate) DeclaringType() (string, bool) {
	switch c.Kind {
	case MethodDeclaration, MethodNameReference, JavadocMethodRef, MethodRef,
		ConstructorInvocation, AnonymousClassConstructorInvocation,
		MethodRefWithCastedReceiver, AnnotationAttributeRef,
		PotentialMethodDeclaration, AnonymousClassDeclaration, FieldRef,
		FieldRefWithCastedReceiver, JavadocFieldRef, JavadocValueRef:
		// Members without a declaring type (array methods, class literals) belong to Object.
		if c.DeclarationSignature == "" {
			return "java.lang.Object", true
		}
		return QualifiedName(c.DeclarationSignature), true
	case PackageRef, ModuleRef, ModuleDeclaration:
		if c.DeclarationSignature == "" {
			return "", false
		}
		return c.DeclarationSignature, true
	case JavadocTypeRef, TypeRef:
		if c.Signature == "" {
			return "", false
		}
		return QualifiedName(c.Signature), true
	default:
		return "", false
	}
}

// EffectiveFirstChar is the character compared against the typed token when
// first-letter case matching is on. Type references use their simple name.
func (c Candidate) EffectiveFirstChar() (rune, bool) {
	text := c.Completion
	if c.Kind == TypeRef {
		if simple := SimpleTypeName(c.Signature); simple != "" {
			text = simple
		}
	}
	for _, r := range text {
		return r, true
	}
	return 0, false
}
