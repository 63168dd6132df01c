package promo

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	anyTagRe = regexp.MustCompile(`<AMT>|<CNT>|<PCT>`)
	numberRe = regexp.MustCompile(`\d+\.?\d{0,2}`)

	countSaveRe  = regexp.MustCompile(`<CNT>\s.*save`)
	countSpaceRe = regexp.MustCompile(`<CNT>\s`)
	ordinalRe    = regexp.MustCompile(`<CNT>\w`)
)

// ExtractValues collects the numeric literals of a clause, aligned with
// its tag sequence: the clause and its pattern are zipped word by word,
// and every word whose pattern carries a tag contributes its numbers in
// order. Unclassified clauses yield no values.
func ExtractValues(clause, pattern string, rule Rule) []float64 {
	if rule == RuleNone {
		return nil
	}

	words := strings.Fields(clause)
	tags := strings.Fields(pattern)
	n := len(words)
	if len(tags) < n {
		n = len(tags)
	}

	var values []float64
	for i := 0; i < n; i++ {
		if !anyTagRe.MatchString(tags[i]) {
			continue
		}
		for _, num := range numberRe.FindAllString(words[i], -1) {
			v, err := strconv.ParseFloat(num, 64)
			if err != nil {
				continue
			}
			values = append(values, v)
		}
	}
	return values
}

// Discount computes the discounted unit price for a classified clause.
// Unhandled rules, sub-patterns outside the formulas, missing values and
// zero divisors all fall back to the original price.
func Discount(price float64, pattern string, rule Rule, values []float64) float64 {
	v := func(i int) (float64, bool) {
		if i >= len(values) {
			return 0, false
		}
		return values[i], true
	}

	switch rule {
	case RulePayForCount:
		v0, ok0 := v(0)
		v1, ok1 := v(1)
		if !ok0 || !ok1 || v1 == 0 {
			break
		}
		switch pattern {
		case "+<AMT> for <CNT>nd item":
			// Second unit costs the amount: average the pair.
			return (price + v0) / v1
		case "<AMT> for <CNT>":
			return v0 / v1
		}

	case RuleBuyAtOrSave:
		v0, ok0 := v(0)
		v1, ok1 := v(1)
		if !ok0 || !ok1 || v0 == 0 {
			break
		}
		switch {
		case countSaveRe.MatchString(pattern):
			// "buy N save $X": spread the saving over N units.
			return (price*v0 - v1) / v0
		case countSpaceRe.MatchString(pattern):
			// "N at $X": the amount buys N units.
			return v1 / v0
		}

	case RuleBuyGetFree:
		switch {
		case strings.Contains(pattern, "free the most expensive one"):
			v0, ok := v(0)
			if !ok || v0 == 0 {
				break
			}
			return price * (v0 - 1) / v0
		case strings.Contains(pattern, "get "+tagCount+" free"):
			v0, ok0 := v(0)
			v1, ok1 := v(1)
			if !ok0 || !ok1 || v0+v1 == 0 {
				break
			}
			return price * v0 / (v0 + v1)
		}

	case RuleBuyAtPercent:
		v0, ok0 := v(0)
		v1, ok1 := v(1)
		if !ok0 || !ok1 {
			break
		}
		if ordinalRe.MatchString(pattern) {
			// Ordinal form ("2nd item 30%"): full price for the first
			// N-1 units, discounted Nth, averaged over N.
			if v0 == 0 {
				break
			}
			return (price*(v0-1) + price*(1-v1/100)) / v0
		}
		return price * (1 - v1/100)

	case RulePercentForCount:
		v0, ok0 := v(0)
		if !ok0 {
			break
		}
		if ordinalRe.MatchString(pattern) {
			// Mirror of the ordinal form with operands swapped.
			v1, ok1 := v(1)
			if !ok1 || v1 == 0 {
				break
			}
			return (price*(1-v0/100) + price*(v1-1)) / v1
		}
		return price * (1 - v0/100)
	}

	return price
}

// Floor applies the plausibility floor: the computed discount stands
// only when it exceeds the threshold fraction of the original price.
// Anything lower is treated as a parsing artifact.
func Floor(price, discount, threshold float64) float64 {
	if price*threshold < discount {
		return discount
	}
	return price
}
