// Package typefilter excludes types from completion by qualified-name pattern.
//
// Patterns use glob syntax over dotted names: "java.awt.*" hides every type
// under java.awt, "com.sun.**" reads the same way. Matching goes through
// doublestar, and since qualified names never contain '/', a single '*' spans
// nested packages.
package typefilter

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/teranos/rankd/errors"
	"github.com/teranos/rankd/proposal"
)

// DefaultPatterns are excluded unless configured otherwise.
var DefaultPatterns = []string{
	"java.awt.*",
	"com.sun.*",
	"sun.*",
	"jdk.*",
	"org.graalvm.*",
	"io.micrometer.shaded.*",
}

// Filter is an immutable set of exclusion patterns.
type Filter struct {
	patterns []string
}

// New validates patterns and builds a Filter.
func New(patterns []string) (*Filter, error) {
	clean := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, errors.NewInvalidRequestError("invalid type filter pattern %q", p)
		}
		clean = append(clean, p)
	}
	return &Filter{patterns: clean}, nil
}

// Patterns returns a copy of the active patterns.
func (f *Filter) Patterns() []string {
	return append([]string(nil), f.patterns...)
}

// IsTypeFiltered reports whether a qualified type name or type signature is excluded.
func (f *Filter) IsTypeFiltered(signature string) bool {
	if f == nil || signature == "" {
		return false
	}
	name := proposal.QualifiedName(signature)
	for _, p := range f.patterns {
		if match(p, name) {
			return true
		}
	}
	return false
}

// WithoutImported returns a filter with every pattern that matches one of
// the imported names removed. A type the user imported explicitly must stay
// completable even when its package is filtered.
func (f *Filter) WithoutImported(imports []string) *Filter {
	if f == nil || len(imports) == 0 {
		return f
	}
	kept := make([]string, 0, len(f.patterns))
	for _, p := range f.patterns {
		matched := false
		for _, imp := range imports {
			if match(p, strings.TrimSuffix(imp, ".*")) {
				matched = true
				break
			}
		}
		if !matched {
			kept = append(kept, p)
		}
	}
	return &Filter{patterns: kept}
}

func match(pattern, name string) bool {
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}
