// Package categorize assigns ledger categories to transactions by matching
// payee text against ordered regular-expression rules.
package categorize

import (
	"fmt"
	"regexp"

	"github.com/bankqif/bankqif/internal/config"
	"github.com/bankqif/bankqif/internal/model"
)

// DefaultCategory is used when no rule and no configured default apply.
const DefaultCategory = "Expenses:Miscellaneous"

// Rule is a compiled category rule.
type Rule struct {
	Name     string
	Patterns []*regexp.Regexp
}

// Categorizer decides categories. It is immutable after construction.
type Categorizer struct {
	rules           []Rule
	defaultCategory string
}

// New compiles rules case-insensitively. An empty defaultCategory means
// DefaultCategory.
func New(rules []config.CategoryRule, defaultCategory string) (*Categorizer, error) {
	compiled := make([]Rule, 0, len(rules))
	for _, r := range rules {
		patterns, err := CompilePatterns(r.Patterns)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", r.Name, err)
		}
		compiled = append(compiled, Rule{Name: r.Name, Patterns: patterns})
	}

	if defaultCategory == "" {
		defaultCategory = DefaultCategory
	}
	return &Categorizer{rules: compiled, defaultCategory: defaultCategory}, nil
}

// CompilePatterns compiles each expression with case folding.
func CompilePatterns(exprs []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		re, err := regexp.Compile("(?i)" + expr)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern %q: %w", expr, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// MatchAny reports whether any pattern matches s.
func MatchAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// Decide returns the name of the first rule matching the payee, or the
// default category. Earlier rules win over later ones.
func (c *Categorizer) Decide(t model.Transaction) string {
	for _, r := range c.rules {
		if MatchAny(r.Patterns, t.Payee) {
			return r.Name
		}
	}
	return c.defaultCategory
}

// Default returns the fallback category.
func (c *Categorizer) Default() string {
	return c.defaultCategory
}

// Apply categorizes every transaction of every error-free account in place
// and returns the number of transactions categorized.
func (c *Categorizer) Apply(accounts []*model.Account) int {
	n := 0
	for _, a := range model.Usable(accounts) {
		for i := range a.Transactions {
			a.Transactions[i].Category = c.Decide(a.Transactions[i])
			n++
		}
	}
	return n
}
