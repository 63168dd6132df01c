package promo

import (
	"regexp"
	"strings"
)

// sepToken marks clause boundaries during splitting.
const sepToken = "<sep>"

var (
	weekTagRe   = regexp.MustCompile(`\s?wk\d+\s?`)
	separatorRe = regexp.MustCompile(`; |/|[a-z]\.[a-z]`)

	amountRe  = regexp.MustCompile(`\$\d+(\.\d+)?`)
	percentRe = regexp.MustCompile(`\d+(\.\d+)?%`)
	countRe   = regexp.MustCompile(`\d+`)
)

// SplitClauses decomposes a promotion description into atomic clauses.
// Week tags ("wk12") are stripped, "half price" becomes "50%" and
// "second" becomes "2nd" so the numeric grammar can see them, and the
// text splits on "; ", "/" and two-letter abbreviation boundaries
// ("a.m" style), since one field may encode several independent offers.
func SplitClauses(text string) []string {
	txt := strings.TrimSpace(strings.ToLower(text))
	txt = weekTagRe.ReplaceAllString(txt, "")
	txt = separatorRe.ReplaceAllString(txt, sepToken)
	txt = strings.ReplaceAll(txt, "half price", "50%")
	txt = strings.ReplaceAll(txt, "second", "2nd")

	parts := strings.Split(txt, sepToken)
	clauses := make([]string, len(parts))
	for i, p := range parts {
		clauses[i] = strings.TrimSpace(p)
	}
	return clauses
}

// TagPattern replaces a clause's numeric tokens with tags. Substitution
// order is significant: currency amounts and percentages contain digit
// runs that must not be re-tagged as bare counts.
func TagPattern(clause string) string {
	txt := strings.TrimSpace(strings.ToLower(clause))
	txt = amountRe.ReplaceAllString(txt, tagAmount)
	txt = percentRe.ReplaceAllString(txt, tagPercent)
	txt = countRe.ReplaceAllString(txt, tagCount)
	return txt
}
