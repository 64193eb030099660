package complete

import (
	"github.com/teranos/rankd/proposal"
)

// TypeMatcher decides whether a declaring type is excluded from completion.
type TypeMatcher interface {
	IsTypeFiltered(signature string) bool
}

// ImportDetector recognizes candidates proposed inside an import declaration.
type ImportDetector interface {
	IsImportCompletion(c proposal.Candidate) bool
}

// Filter is the per-candidate accept/reject policy. It is pure: the verdict
// depends only on the candidate, the token and the configuration.
type Filter struct {
	ignored   map[proposal.Kind]bool
	types     TypeMatcher
	imports   ImportDetector
	matchCase MatchCaseMode
}

// NewFilter builds a filter. types and imports may be nil.
func NewFilter(settings Settings, types TypeMatcher, imports ImportDetector) *Filter {
	ignored := make(map[proposal.Kind]bool, len(settings.IgnoredKinds))
	for _, k := range settings.IgnoredKinds {
		ignored[k] = true
	}
	return &Filter{
		ignored:   ignored,
		types:     types,
		imports:   imports,
		matchCase: settings.MatchCase,
	}
}

// Accept reports whether the candidate should be kept.
func (f *Filter) Accept(c proposal.Candidate, token string) bool {
	if f.IsIgnored(c.Kind) {
		return false
	}
	if f.isTypeFilteredKind(c) {
		return false
	}
	return f.matchesCase(c, token)
}

// IsIgnored reports whether the kind is switched off entirely.
func (f *Filter) IsIgnored(kind proposal.Kind) bool {
	return f.ignored[kind]
}

// Only types, constructors and import-needing method references are subject
// to the type filter.
func (f *Filter) isTypeFilteredKind(c proposal.Candidate) bool {
	switch c.Kind {
	case proposal.ConstructorInvocation, proposal.AnonymousClassConstructorInvocation,
		proposal.JavadocTypeRef, proposal.TypeRef:
		return f.isTypeFiltered(c)
	case proposal.MethodRef:
		if c.RequiresImport {
			return f.isTypeFiltered(c)
		}
	}
	return false
}

func (f *Filter) isTypeFiltered(c proposal.Candidate) bool {
	if f.imports != nil && f.imports.IsImportCompletion(c) {
		return false
	}
	if f.types == nil {
		return false
	}
	declaring, ok := c.DeclaringType()
	return ok && declaring != "" && f.types.IsTypeFiltered(declaring)
}

func (f *Filter) matchesCase(c proposal.Candidate, token string) bool {
	if f.matchCase != MatchCaseFirstLetter {
		return true
	}
	if token == "" || c.Completion == "" {
		return true
	}
	want, ok := c.EffectiveFirstChar()
	if !ok {
		return true
	}
	for _, got := range token {
		return got == want
	}
	return true
}
