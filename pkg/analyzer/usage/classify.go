package usage

import "strings"

// declarationPatterns are the line-start prefixes that mark a
// definition, in match order. The symbol is substituted for the # rune.
// A declaration that is not at line start, e.g. inside a one-line
// conditional, is never recognized as a definition.
var declarationPatterns = []string{
	// TypeScript / JavaScript
	"export default function #",
	"export async function #",
	"export function #",
	"async function #",
	"function #",
	"export const # =",
	"export let # =",
	"const # =",
	"let # =",
	"var # =",
	"export abstract class #",
	"export class #",
	"export interface #",
	"export type # =",
	"export enum #",
	"abstract class #",
	"interface #",
	"type # =",
	"enum #",
	// Rust
	"pub fn #",
	"pub async fn #",
	"pub struct #",
	"pub enum #",
	"pub trait #",
	"pub const #",
	"fn #",
	"struct #",
	"trait #",
	// Python
	"async def #(",
	"def #(",
	"class #:",
	"class #(",
	// Go
	"func #(",
	"type # struct",
	"type # interface",
	// Shared keyword, last so the language-specific forms win first.
	"class #",
}

// Classify labels one occurrence of symbol at byte offset col in line.
// Rules apply in priority order: definition, then type-only, then
// plain usage.
func Classify(line, symbol string, col int) Type {
	if isDefinitionLine(line, symbol) {
		return TypeDefinition
	}
	if isTypeOnly(line, symbol, col) {
		return TypeTypeOnly
	}
	return TypeUsage
}

func isDefinitionLine(line, symbol string) bool {
	trimmed := strings.TrimSpace(line)
	for _, pattern := range declarationPatterns {
		candidate := strings.ReplaceAll(pattern, "#", symbol)
		if strings.HasPrefix(trimmed, candidate) {
			return true
		}
	}
	return false
}

// isTypeOnly applies TypeScript and Rust type-position heuristics to
// the text immediately around the occurrence.
func isTypeOnly(line, symbol string, col int) bool {
	before := strings.TrimRight(line[:col], " \t")
	afterIdx := col + len(symbol)
	after := ""
	if afterIdx < len(line) {
		after = strings.TrimLeft(line[afterIdx:], " \t")
	}

	// Generic argument position: <X ... or ... X>
	if strings.HasSuffix(before, "<") || strings.HasPrefix(after, ">") {
		return true
	}

	// TypeScript annotation and assertion positions.
	if strings.HasSuffix(before, ":") {
		return true
	}
	for _, kw := range []string{"as", "satisfies"} {
		if hasTrailingWord(before, kw) {
			return true
		}
	}
	for _, kw := range []string{"implements", "extends"} {
		if hasTrailingWord(before, kw) && !strings.HasPrefix(after, "(") {
			return true
		}
	}

	// Rust type positions.
	if strings.HasSuffix(before, "->") {
		return true
	}
	for _, kw := range []string{"impl", "where"} {
		if hasTrailingWord(before, kw) {
			return true
		}
	}
	return false
}

// hasTrailingWord reports whether s ends with the word kw, bounded on
// its left.
func hasTrailingWord(s, kw string) bool {
	if !strings.HasSuffix(s, kw) {
		return false
	}
	rest := s[:len(s)-len(kw)]
	return rest == "" || !isWordByte(rest[len(rest)-1])
}
