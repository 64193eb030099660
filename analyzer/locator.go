package analyzer

import (
	"regexp"
	"strings"

	"github.com/teranos/rankd/errors"
	"github.com/teranos/rankd/proposal"
	"github.com/teranos/rankd/replace"
)

var (
	typeDecl   = regexp.MustCompile(`\b(?:class|enum|record)\s+(\w+)[^{;]*\{`)
	methodHead = regexp.MustCompile(`(\w+)\s*\([^()]*\)\s*(?:throws\s+[\w.,\s]+)?$`)
)

var modifiers = map[string]proposal.Flags{
	"public":    proposal.FlagPublic,
	"private":   proposal.FlagPrivate,
	"protected": proposal.FlagProtected,
	"static":    proposal.FlagStatic,
	"final":     proposal.FlagFinal,
	"transient": 0,
	"volatile":  0,
}

// Locator finds the type declaration enclosing an offset of a document.
type Locator struct {
	doc *replace.Document
}

func NewLocator(doc *replace.Document) *Locator {
	return &Locator{doc: doc}
}

// TypeAt returns the innermost type whose body contains offset.
func (l *Locator) TypeAt(offset int) (*proposal.TypeInfo, error) {
	body, ok := enclosingBody(l.doc.Text, offset)
	if !ok {
		return nil, errors.NewNotFoundError("no type declaration encloses offset %d", offset)
	}
	name := body.name
	if pkg := packageOf(l.doc.Text); pkg != "" {
		name = pkg + "." + name
	}
	fields, methods := members(l.doc.Text[body.open+1 : body.close])
	return &proposal.TypeInfo{Name: name, Fields: fields, Methods: methods}, nil
}

type typeBody struct {
	name        string
	open, close int
}

// enclosingBody finds the innermost type body around offset. Braces in
// comments and string literals are not special-cased.
func enclosingBody(text string, offset int) (typeBody, bool) {
	var best typeBody
	found := false
	for _, m := range typeDecl.FindAllStringSubmatchIndex(text, -1) {
		open := m[1] - 1
		if open >= offset {
			break
		}
		end := matchingBrace(text, open)
		if offset > end {
			continue
		}
		best = typeBody{name: text[m[2]:m[3]], open: open, close: end}
		found = true
	}
	return best, found
}

// matchingBrace returns the index of the brace closing the one at open, or
// len(text) when the document ends first.
func matchingBrace(text string, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(text)
}

// inClassBody reports whether offset sits directly in a type body, outside
// any method or initializer.
func inClassBody(text string, offset int) bool {
	body, ok := enclosingBody(text, offset)
	if !ok {
		return false
	}
	depth := 0
	for i := body.open + 1; i < offset; i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	return depth == 0
}

// members scans the top level of a type body for field and method declarations.
func members(body string) (fields []proposal.Field, methods []string) {
	depth := 0
	segStart := 0
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '{':
			if depth == 0 {
				if m := methodHead.FindStringSubmatch(strings.TrimSpace(body[segStart:i])); m != nil {
					methods = append(methods, m[1])
				}
			}
			depth++
		case '}':
			depth--
			if depth == 0 {
				segStart = i + 1
			}
		case ';':
			if depth == 0 {
				if f, ok := parseField(body[segStart:i]); ok {
					fields = append(fields, f)
				}
				segStart = i + 1
			}
		}
	}
	return fields, methods
}

// parseField reads "[modifiers] Type name [= init]" from the end of a
// statement, ignoring anything before the modifiers.
func parseField(stmt string) (proposal.Field, bool) {
	if i := strings.IndexByte(stmt, '='); i >= 0 {
		stmt = stmt[:i]
	}
	if strings.ContainsAny(stmt, "()") {
		return proposal.Field{}, false
	}
	words := strings.Fields(joinTypeArguments(stmt))
	if len(words) < 2 {
		return proposal.Field{}, false
	}
	f := proposal.Field{Name: words[len(words)-1], Type: words[len(words)-2]}
	if !identWord.MatchString(f.Name) || keywordSet[f.Type] && !isPrimitive(f.Type) {
		return proposal.Field{}, false
	}
	for i := len(words) - 3; i >= 0; i-- {
		flag, ok := modifiers[words[i]]
		if !ok {
			break
		}
		f.Flags |= flag
	}
	return f, true
}

// joinTypeArguments removes whitespace inside angle brackets so a generic
// type reads as one word.
func joinTypeArguments(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '<':
			depth++
		case r == '>':
			depth--
		case depth > 0 && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isPrimitive(t string) bool {
	switch t {
	case "boolean", "byte", "char", "double", "float", "int", "long", "short":
		return true
	}
	return false
}
