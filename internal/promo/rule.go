package promo

import (
	"regexp"
	"strings"
)

// Tag markers substituted into clause patterns.
const (
	tagAmount  = "<AMT>" // currency amount ($12.5)
	tagPercent = "<PCT>" // percentage (30%)
	tagCount   = "<CNT>" // bare integer (2, 2nd)
)

// Rule is the closed set of promotion classifications. The order of the
// declarations is the order rules are checked in; a clause matches at
// most one.
type Rule int

const (
	// RuleNone marks clauses outside the grammar; they price at the
	// original price.
	RuleNone Rule = iota

	// RuleUnhandledAmtAmt: two amounts ("$30 was $40"). No formula.
	RuleUnhandledAmtAmt

	// RulePayForCount: pay an amount for a count of units ("$10 for 2").
	RulePayForCount

	// RuleUnhandledAmtPct: amount then percent. No formula.
	RuleUnhandledAmtPct

	// RuleBuyAtOrSave: buy a count at, or saving, an amount
	// ("buy 2 save $4", "2 at $15").
	RuleBuyAtOrSave

	// RuleBuyGetFree: buy a count, get a count free ("buy 2 get 1 free").
	RuleBuyGetFree

	// RuleBuyAtPercent: a count at a percentage off
	// ("2nd item 50%", "buy 3 at 10% off").
	RuleBuyAtPercent

	// RuleUnhandledPctAmt: percent then amount. No formula.
	RuleUnhandledPctAmt

	// RulePercentForCount: percentage off for a count of units
	// ("20% off for 2nd item").
	RulePercentForCount

	// RuleUnhandledPctPct: two percentages. No formula.
	RuleUnhandledPctPct
)

// String returns the rule name for logs.
func (r Rule) String() string {
	switch r {
	case RuleNone:
		return "none"
	case RuleUnhandledAmtAmt:
		return "unhandled-amt-amt"
	case RulePayForCount:
		return "pay-for-count"
	case RuleUnhandledAmtPct:
		return "unhandled-amt-pct"
	case RuleBuyAtOrSave:
		return "buy-at-or-save"
	case RuleBuyGetFree:
		return "buy-get-free"
	case RuleBuyAtPercent:
		return "buy-at-percent"
	case RuleUnhandledPctAmt:
		return "unhandled-pct-amt"
	case RulePercentForCount:
		return "percent-for-count"
	case RuleUnhandledPctPct:
		return "unhandled-pct-pct"
	}
	return "unknown"
}

// Handled reports whether the rule carries discount arithmetic.
func (r Rule) Handled() bool {
	switch r {
	case RulePayForCount, RuleBuyAtOrSave, RuleBuyGetFree, RuleBuyAtPercent, RulePercentForCount:
		return true
	}
	return false
}

// ruleSpec pins a rule to its left-to-right tag order and exact tag
// counts (amt, cnt, pct).
type ruleSpec struct {
	rule  Rule
	order *regexp.Regexp
	amt   int
	cnt   int
	pct   int
}

var ruleTable = []ruleSpec{
	{RuleUnhandledAmtAmt, regexp.MustCompile(`<AMT>.*<AMT>`), 2, 0, 0},
	{RulePayForCount, regexp.MustCompile(`<AMT>.*<CNT>`), 1, 1, 0},
	{RuleUnhandledAmtPct, regexp.MustCompile(`<AMT>.*<PCT>`), 1, 0, 1},
	{RuleBuyAtOrSave, regexp.MustCompile(`<CNT>.*<AMT>`), 1, 1, 0},
	{RuleBuyGetFree, regexp.MustCompile(`<CNT>.*<CNT>`), 0, 2, 0},
	{RuleBuyAtPercent, regexp.MustCompile(`<CNT>.*<PCT>`), 0, 1, 1},
	{RuleUnhandledPctAmt, regexp.MustCompile(`<PCT>.*<AMT>`), 1, 0, 1},
	{RulePercentForCount, regexp.MustCompile(`<PCT>.*<CNT>`), 0, 1, 1},
	{RuleUnhandledPctPct, regexp.MustCompile(`<PCT>.*<PCT>`), 0, 0, 2},
}

// Classify maps a tag pattern to its rule by exact tag counts and tag
// order, checked top-down. Patterns matching no row are RuleNone.
func Classify(pattern string) Rule {
	amt := strings.Count(pattern, tagAmount)
	cnt := strings.Count(pattern, tagCount)
	pct := strings.Count(pattern, tagPercent)

	for _, spec := range ruleTable {
		if amt == spec.amt && cnt == spec.cnt && pct == spec.pct && spec.order.MatchString(pattern) {
			return spec.rule
		}
	}
	return RuleNone
}
