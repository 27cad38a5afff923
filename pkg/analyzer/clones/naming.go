package clones

import (
	"strings"
	"unicode"
)

// keywordPairs maps near-synonym verb prefixes to a suggested shared
// name when prefix/suffix extraction finds nothing usable.
var keywordPairs = map[[2]string]string{
	{"validate", "check"}: "validateCommon",
	{"get", "fetch"}:      "getCommon",
	{"create", "make"}:    "createCommon",
	{"update", "modify"}:  "updateCommon",
	{"handle", "process"}: "handleCommon",
	{"parse", "read"}:     "parseCommon",
}

// suggestExtractionName proposes a name for the shared helper two
// intra-file twins could be collapsed into: common prefix + "Core",
// else "do" + common suffix, else a keyword-pair lookup, else the
// literal fallback "sharedLogic".
func suggestExtractionName(nameA, nameB string) string {
	trimmedA := trimTrailingDigits(nameA)
	trimmedB := trimTrailingDigits(nameB)

	if prefix := commonPrefix(trimmedA, trimmedB); len(prefix) >= 3 {
		return prefix + "Core"
	}
	if suffix := commonSuffix(nameA, nameB); len(suffix) >= 3 {
		return "do" + capitalize(suffix)
	}
	if name := keywordLookup(nameA, nameB); name != "" {
		return name
	}
	return "sharedLogic"
}

func trimTrailingDigits(name string) string {
	return strings.TrimRightFunc(name, func(r rune) bool {
		return unicode.IsDigit(r) || r == '_'
	})
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

func commonSuffix(a, b string) string {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[len(a)-1-i] == b[len(b)-1-i] {
		i++
	}
	return a[len(a)-i:]
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func keywordLookup(a, b string) string {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	for pair, name := range keywordPairs {
		if (strings.HasPrefix(la, pair[0]) && strings.HasPrefix(lb, pair[1])) ||
			(strings.HasPrefix(la, pair[1]) && strings.HasPrefix(lb, pair[0])) {
			return name
		}
	}
	return ""
}
