package proposal

// Context describes the completion request the candidates were produced for.
type Context struct {
	URI    string `json:"uri,omitempty"`
	Offset int    `json:"offset"`
	// Token is the partial identifier being completed.
	Token string `json:"token"`
	// TokenStart is the offset where Token begins.
	TokenStart int `json:"tokenStart"`
	// Extended is set when the analyzer supplied extended context, such as
	// the enclosing element.
	Extended      bool      `json:"extended,omitempty"`
	EnclosingType *TypeInfo `json:"enclosingType,omitempty"`
	// Package is the package of the compilation unit being edited.
	Package string   `json:"package,omitempty"`
	Imports []string `json:"imports,omitempty"`
}

// TypeInfo describes a type enclosing the completion location.
type TypeInfo struct {
	Name    string   `json:"name"`
	Fields  []Field  `json:"fields,omitempty"`
	Methods []string `json:"methods,omitempty"`
}

// Field is a field declared by a TypeInfo.
type Field struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Flags Flags  `json:"flags,omitempty"`
}

// HasMethod reports whether the type already declares a method by that name.
func (t *TypeInfo) HasMethod(name string) bool {
	for _, m := range t.Methods {
		if m == name {
			return true
		}
	}
	return false
}
