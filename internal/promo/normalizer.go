package promo

import (
	"log/slog"

	"github.com/klcheung/opw-data/internal/model"
)

// Normalizer prices shredded rows from their promotion text.
type Normalizer struct {
	threshold float64
	logger    *slog.Logger
}

// NewNormalizer creates a Normalizer with the given plausibility
// threshold fraction.
func NewNormalizer(threshold float64, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		threshold: threshold,
		logger:    logger,
	}
}

// Normalize prices one shredded row, emitting one candidate per clause
// of its promotion text. Every input row yields at least one candidate;
// clauses the grammar cannot price carry the original price.
func (n *Normalizer) Normalize(row model.PriceRow) []model.PriceRow {
	clauses := SplitClauses(row.PromotionEn)

	out := make([]model.PriceRow, 0, len(clauses))
	for _, clause := range clauses {
		pattern := TagPattern(clause)
		rule := Classify(pattern)
		values := ExtractValues(clause, pattern, rule)
		discount := Discount(row.OriginalPrice, pattern, rule, values)

		candidate := row
		candidate.UnitPrice = Floor(row.OriginalPrice, discount, n.threshold)
		out = append(out, candidate)
	}
	return out
}

// NormalizeAll prices a batch of rows in input order.
func (n *Normalizer) NormalizeAll(rows []model.PriceRow) []model.PriceRow {
	var out []model.PriceRow
	var discounted int

	for _, row := range rows {
		candidates := n.Normalize(row)
		for _, c := range candidates {
			if c.UnitPrice != c.OriginalPrice {
				discounted++
			}
		}
		out = append(out, candidates...)
	}

	n.logger.Info("normalized promotions",
		"rows", len(rows),
		"candidates", len(out),
		"discounted", discounted,
	)
	return out
}
