package namespace

import "strings"

// SplitIRI splits iri into a namespace ending in '#' or '/' and a local part
// that is a valid XML NCName. ok is false when no such split exists.
func SplitIRI(iri string) (ns, local string, ok bool) {
	idx := strings.LastIndexAny(iri, "#/")
	if idx <= 0 || idx+1 >= len(iri) {
		return "", "", false
	}
	ns = iri[:idx+1]
	local = iri[idx+1:]
	if !IsNCName(local) {
		return "", "", false
	}
	return ns, local, true
}

// IsNCName reports whether value is usable as an XML local name or prefix.
// Only the ASCII subset of the NCName production is accepted.
func IsNCName(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if i == 0 {
			if !isNameStartChar(ch) {
				return false
			}
		} else if !isNameChar(ch) {
			return false
		}
	}
	return true
}

func isNameStartChar(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || ch == '_'
}

func isNameChar(ch byte) bool {
	return isNameStartChar(ch) || (ch >= '0' && ch <= '9') || ch == '-' || ch == '.'
}
