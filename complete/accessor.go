package complete

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/teranos/rankd/errors"
	"github.com/teranos/rankd/logger"
	"github.com/teranos/rankd/proposal"
)

// AccessorRelevanceBoost is added to the relevance of the potential method
// declaration a synthesized accessor replaces.
const AccessorRelevanceBoost = 6

// TypeLocator resolves the type enclosing a document offset.
type TypeLocator interface {
	TypeAt(offset int) (*proposal.TypeInfo, error)
}

// AccessorSynthesizer expands a potential method declaration into getter and
// setter declarations for the fields of the enclosing type.
type AccessorSynthesizer struct {
	logger *zap.SugaredLogger
}

func NewAccessorSynthesizer(log *zap.SugaredLogger) *AccessorSynthesizer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &AccessorSynthesizer{logger: log}
}

// Synthesize returns the accessor candidates for c. Failures to resolve the
// enclosing type are logged and yield no candidates.
func (s *AccessorSynthesizer) Synthesize(c proposal.Candidate, pctx proposal.Context, locator TypeLocator) []proposal.Candidate {
	if c.Kind != proposal.PotentialMethodDeclaration {
		return nil
	}
	typ, err := s.enclosingType(c, pctx, locator)
	if err != nil {
		s.logger.Debugw("Skipping accessor synthesis",
			logger.FieldCompletion, c.Completion,
			logger.FieldError, err)
		return nil
	}
	if typ == nil {
		return nil
	}

	var out []proposal.Candidate
	for _, f := range typ.Fields {
		getter := getterName(f)
		if hasPrefixFold(getter, c.Name) && !typ.HasMethod(getter) {
			out = append(out, accessor(c, getter, getterText(f, getter), fmt.Sprintf("%s() : %s", getter, f.Type)))
		}
		if f.Flags.IsFinal() {
			continue
		}
		setter := "set" + capitalize(f.Name)
		if hasPrefixFold(setter, c.Name) && !typ.HasMethod(setter) {
			out = append(out, accessor(c, setter, setterText(typ, f, setter), fmt.Sprintf("%s(%s %s) : void", setter, f.Type, f.Name)))
		}
	}
	return out
}

func (s *AccessorSynthesizer) enclosingType(c proposal.Candidate, pctx proposal.Context, locator TypeLocator) (*proposal.TypeInfo, error) {
	if pctx.Extended {
		return pctx.EnclosingType, nil
	}
	if locator == nil {
		return nil, errors.New("no type locator for non-extended context")
	}
	typ, err := locator.TypeAt(c.CompletionLocation + 1)
	if err != nil {
		return nil, errors.Wrapf(err, "locate type at offset %d", c.CompletionLocation+1)
	}
	return typ, nil
}

func accessor(origin proposal.Candidate, name, text, label string) proposal.Candidate {
	return proposal.Candidate{
		Kind:               proposal.MethodDeclaration,
		Relevance:          origin.Relevance + AccessorRelevanceBoost,
		Flags:              proposal.FlagPublic,
		Completion:         text,
		Name:               name,
		Label:              label,
		ReplaceStart:       origin.ReplaceStart,
		ReplaceEnd:         origin.ReplaceEnd,
		CompletionLocation: origin.CompletionLocation,
	}
}

func getterName(f proposal.Field) string {
	if f.Type == "boolean" {
		return "is" + capitalize(f.Name)
	}
	return "get" + capitalize(f.Name)
}

func getterText(f proposal.Field, name string) string {
	return fmt.Sprintf("public %s%s %s() {\n\treturn %s;\n}", staticModifier(f), f.Type, name, f.Name)
}

func setterText(typ *proposal.TypeInfo, f proposal.Field, name string) string {
	receiver := "this"
	if f.Flags.IsStatic() {
		receiver = proposal.SimpleTypeName(typ.Name)
	}
	return fmt.Sprintf("public %svoid %s(%s %s) {\n\t%s.%s = %s;\n}",
		staticModifier(f), name, f.Type, f.Name, receiver, f.Name, f.Name)
}

func staticModifier(f proposal.Field) string {
	if f.Flags.IsStatic() {
		return "static "
	}
	return ""
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
