// Package promo turns free-text promotion descriptions into computed
// discounted unit prices.
//
// The grammar is deliberately fixed: a description is split into
// clauses, each clause's numeric tokens are replaced by <AMT>/<PCT>/<CNT>
// tags, and the resulting tag pattern selects one of nine rules that
// determines the discount arithmetic. Clauses outside the grammar, and
// any arithmetic failure, degrade to the original price; a row is never
// dropped for being unparseable.
//
// Only the English promotion text is parsed. The translated text rides
// along for display.
package promo
