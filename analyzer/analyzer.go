// Package analyzer is a lexical stand-in for a semantic analyzer. It proposes
// keywords, identifiers already present in the document, imported types, the
// current package, and accessor declarations inside class bodies.
package analyzer

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/teranos/rankd/proposal"
	"github.com/teranos/rankd/replace"
)

// Base relevances; locals outrank types, which outrank keywords.
const (
	RelevanceLocal   = 30
	RelevanceType    = 20
	RelevancePackage = 15
	RelevanceKeyword = 10
	RelevanceMember  = 25
)

var keywords = []string{
	"abstract", "assert", "boolean", "break", "byte", "case", "catch", "char",
	"class", "continue", "default", "do", "double", "else", "enum", "extends",
	"final", "finally", "float", "for", "if", "implements", "import",
	"instanceof", "int", "interface", "long", "native", "new", "package",
	"private", "protected", "public", "return", "short", "static", "super",
	"switch", "synchronized", "this", "throw", "throws", "transient", "try",
	"void", "volatile", "while",
}

var (
	keywordSet = func() map[string]bool {
		m := make(map[string]bool, len(keywords))
		for _, k := range keywords {
			m[k] = true
		}
		return m
	}()

	packageDecl = regexp.MustCompile(`(?m)^\s*package\s+([\w.]+)\s*;`)
	importDecl  = regexp.MustCompile(`(?m)^\s*import\s+(?:static\s+)?([\w.]+(?:\.\*)?)\s*;`)
	identWord   = regexp.MustCompile(`[A-Za-z_$][\w$]*`)
)

// Analysis is the result of analyzing one completion position.
type Analysis struct {
	Context    proposal.Context
	Candidates []proposal.Candidate
}

// Analyze proposes candidates for the identifier at offset.
func Analyze(doc *replace.Document, offset int) Analysis {
	text := doc.Text
	offset = min(max(offset, 0), len(text))

	declaration := strings.HasPrefix(lineBefore(text, offset), "import ") ||
		strings.HasPrefix(lineBefore(text, offset), "package ")
	inToken := isIdentRune
	if declaration {
		inToken = func(r rune) bool { return r == '.' || isIdentRune(r) }
	}

	start := offset
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if !inToken(r) {
			break
		}
		start -= size
	}
	end := offset
	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if !inToken(r) {
			break
		}
		end += size
	}
	token := text[start:offset]

	pctx := proposal.Context{
		URI:        doc.URI,
		Offset:     offset,
		Token:      token,
		TokenStart: start,
		Package:    packageOf(text),
		Imports:    importsOf(text),
	}

	a := &collector{start: start, end: end, token: token}
	if declaration {
		a.qualified(pctx)
		return Analysis{Context: pctx, Candidates: a.out}
	}

	a.keywords()
	a.words(text, start, end, pctx.Imports)
	if inClassBody(text, start) && strings.TrimSpace(lineBefore(text, start)) == "" && token != "" {
		a.add(proposal.Candidate{
			Kind:               proposal.PotentialMethodDeclaration,
			Name:               token,
			Completion:         token,
			Relevance:          RelevanceMember,
			CompletionLocation: max(offset-1, 0),
		})
	}
	return Analysis{Context: pctx, Candidates: a.out}
}

type collector struct {
	start, end int
	token      string
	out        []proposal.Candidate
}

func (a *collector) add(c proposal.Candidate) {
	c.ReplaceStart = a.start
	c.ReplaceEnd = a.end
	a.out = append(a.out, c)
}

func (a *collector) matches(word string) bool {
	return len(word) >= len(a.token) && strings.EqualFold(word[:len(a.token)], a.token)
}

func (a *collector) keywords() {
	for _, k := range keywords {
		if a.matches(k) {
			a.add(proposal.Candidate{Kind: proposal.Keyword, Completion: k, Relevance: RelevanceKeyword})
		}
	}
}

// words proposes every distinct identifier of the document except the one
// under the cursor. Capitalized words are proposed as types, resolved through
// the imports when possible.
func (a *collector) words(text string, start, end int, imports []string) {
	qualified := make(map[string]string, len(imports))
	for _, imp := range imports {
		if !strings.HasSuffix(imp, ".*") {
			qualified[imp[strings.LastIndexByte(imp, '.')+1:]] = imp
		}
	}

	seen := map[string]bool{a.token: true}
	var words []string
	for _, loc := range identWord.FindAllStringIndex(text, -1) {
		if loc[0] == start && loc[1] == end {
			continue
		}
		w := text[loc[0]:loc[1]]
		if seen[w] || keywordSet[w] || !a.matches(w) {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}
	sort.Strings(words)

	for _, w := range words {
		first, _ := utf8.DecodeRuneInString(w)
		if !unicode.IsUpper(first) {
			a.add(proposal.Candidate{Kind: proposal.LocalVariableRef, Completion: w, Name: w, Relevance: RelevanceLocal})
			continue
		}
		name := w
		if q, ok := qualified[w]; ok {
			name = q
		}
		a.add(proposal.Candidate{
			Kind:       proposal.TypeRef,
			Completion: w,
			Name:       w,
			Signature:  "L" + name + ";",
			Relevance:  RelevanceType,
			Detail:     name,
		})
	}
}

// qualified proposes the current package and imported names inside import
// and package declarations.
func (a *collector) qualified(pctx proposal.Context) {
	if pctx.Package != "" && a.matches(pctx.Package) {
		a.add(proposal.Candidate{Kind: proposal.PackageRef, Completion: pctx.Package, Relevance: RelevancePackage})
	}
	seen := map[string]bool{pctx.Package: true}
	for _, imp := range pctx.Imports {
		pkg, wildcard := strings.CutSuffix(imp, ".*")
		if !wildcard {
			pkg = proposal.PackageName(imp)
		}
		if pkg != "" && !seen[pkg] && a.matches(pkg) {
			seen[pkg] = true
			a.add(proposal.Candidate{Kind: proposal.PackageRef, Completion: pkg, Relevance: RelevancePackage})
		}
	}
}

func packageOf(text string) string {
	if m := packageDecl.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

func importsOf(text string) []string {
	var out []string
	for _, m := range importDecl.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	return out
}

func lineBefore(text string, offset int) string {
	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1
	return strings.TrimLeft(text[lineStart:offset], " \t")
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
