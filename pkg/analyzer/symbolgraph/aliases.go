package symbolgraph

import "strings"

// ResolveAlias maps a module specifier through the ordered alias table.
// Each entry is tried as an exact match, then as a "{pattern}/" prefix,
// then as a trailing-wildcard pattern; the first entry that matches in
// any form wins. Unmatched specifiers pass through unchanged.
func ResolveAlias(aliases []PathAlias, spec string) string {
	for _, a := range aliases {
		if spec == a.Pattern {
			return a.Target
		}
		if bare, ok := strings.CutSuffix(a.Pattern, "/*"); ok {
			if spec == bare {
				return strings.TrimSuffix(a.Target, "/*")
			}
			if rest, ok := strings.CutPrefix(spec, bare+"/"); ok {
				target := strings.TrimSuffix(a.Target, "/*")
				return strings.TrimSuffix(target, "/") + "/" + rest
			}
			continue
		}
		if rest, ok := strings.CutPrefix(spec, a.Pattern+"/"); ok {
			return strings.TrimSuffix(a.Target, "/") + "/" + rest
		}
	}
	return spec
}
