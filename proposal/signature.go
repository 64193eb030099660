package proposal

import "strings"

// QualifiedName converts a type signature such as "Ljava.util.List<Ljava.lang.String;>;"
// to its dotted form "java.util.List". Array dimensions and type arguments are
// dropped. Plain dotted names pass through unchanged.
func QualifiedName(sig string) string {
	s := strings.TrimLeft(sig, "[")
	if len(s) >= 2 && (s[0] == 'L' || s[0] == 'Q') && strings.HasSuffix(s, ";") {
		s = s[1 : len(s)-1]
	}
	if i := strings.IndexByte(s, '<'); i >= 0 {
		s = s[:i]
	}
	return strings.ReplaceAll(s, "$", ".")
}

// SimpleTypeName returns the last segment of a signature's qualified name.
func SimpleTypeName(sig string) string {
	q := QualifiedName(sig)
	if i := strings.LastIndexByte(q, '.'); i >= 0 {
		return q[i+1:]
	}
	return q
}

// PackageName returns everything before the last dot of a qualified name.
func PackageName(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[:i]
	}
	return ""
}
