package proposal

import "strings"

// Flags is the visibility/modifier bitset attached to a candidate.
type Flags int

const (
	FlagPublic     Flags = 0x0001
	FlagPrivate    Flags = 0x0002
	FlagProtected  Flags = 0x0004
	FlagStatic     Flags = 0x0008
	FlagFinal      Flags = 0x0010
	FlagInterface  Flags = 0x0200
	FlagAbstract   Flags = 0x0400
	FlagAnnotation Flags = 0x2000
	FlagEnum       Flags = 0x4000
	FlagDeprecated Flags = 0x100000
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagPublic, "public"},
	{FlagPrivate, "private"},
	{FlagProtected, "protected"},
	{FlagStatic, "static"},
	{FlagFinal, "final"},
	{FlagInterface, "interface"},
	{FlagAbstract, "abstract"},
	{FlagAnnotation, "annotation"},
	{FlagEnum, "enum"},
	{FlagDeprecated, "deprecated"},
}

// Has reports whether every bit of mask is set.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}

func (f Flags) IsStatic() bool     { return f.Has(FlagStatic) }
func (f Flags) IsFinal() bool      { return f.Has(FlagFinal) }
func (f Flags) IsInterface() bool  { return f.Has(FlagInterface) }
func (f Flags) IsEnum() bool       { return f.Has(FlagEnum) }
func (f Flags) IsDeprecated() bool { return f.Has(FlagDeprecated) }

func (f Flags) String() string {
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, "|")
}

// ParseFlags builds a bitset from modifier names; unknown names are ignored.
func ParseFlags(names []string) Flags {
	var f Flags
	for _, name := range names {
		needle := strings.ToLower(strings.TrimSpace(name))
		for _, fn := range flagNames {
			if fn.name == needle {
				f |= fn.flag
			}
		}
	}
	return f
}
