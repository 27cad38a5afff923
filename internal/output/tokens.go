package output

import (
	"fmt"
	"unicode/utf8"
)

// TokenBudgetInfo describes how much of an LLM context window a piece
// of rendered output would consume.
type TokenBudgetInfo struct {
	Tokens       int
	Budget       int
	BudgetLabel  string
	UsagePercent float64
	Remaining    int
}

// Common context window sizes.
const (
	Budget8K   = 8000
	Budget16K  = 16000
	Budget32K  = 32000
	Budget64K  = 64000
	Budget128K = 128000
	Budget200K = 200000
)

// DefaultBudget is the assumed context window when none is given.
const DefaultBudget = Budget128K

// CharsPerToken approximates the character-to-token ratio for
// code-heavy text.
const CharsPerToken = 4.0

// EstimateTokens returns an approximate token count for the text. A
// character heuristic is close enough for sizing tool responses.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	runeCount := utf8.RuneCountInString(text)
	return int(float64(runeCount)/CharsPerToken + 0.5)
}

// FormatTokenCount formats a token count for display. Counts of 1000
// or more render as "X.Xk".
func FormatTokenCount(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("%d", tokens)
	}
	return fmt.Sprintf("%.1fk", float64(tokens)/1000)
}

// GetTokenBudgetInfo sizes text against a context window budget.
func GetTokenBudgetInfo(text string, budget int) TokenBudgetInfo {
	if budget <= 0 {
		budget = DefaultBudget
	}

	tokens := EstimateTokens(text)
	remaining := budget - tokens
	if remaining < 0 {
		remaining = 0
	}

	return TokenBudgetInfo{
		Tokens:       tokens,
		Budget:       budget,
		BudgetLabel:  formatBudgetLabel(budget),
		UsagePercent: float64(tokens) / float64(budget) * 100,
		Remaining:    remaining,
	}
}

func formatBudgetLabel(budget int) string {
	if budget >= 1000 {
		return fmt.Sprintf("%dk", budget/1000)
	}
	return fmt.Sprintf("%d", budget)
}
