// Package shred flattens raw snapshot items into one price row per
// (SKU, date, supermarket).
package shred

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/klcheung/opw-data/internal/model"
)

// noPromotion is the placeholder for markets without promotion text.
const noPromotion = "No Promotion"

var priceRe = regexp.MustCompile(`[\d\.]+`)

// Snapshot flattens a whole snapshot for one date. Rows are sorted by
// (date, SKU, supermarket) so output order is reproducible.
func Snapshot(records []model.RawItemRecord, date model.Date) ([]model.Item, []model.PriceRow) {
	items := make([]model.Item, 0, len(records))
	var rows []model.PriceRow

	for _, rec := range records {
		item, recRows := Shred(rec, date)
		items = append(items, item)
		rows = append(rows, recRows...)
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.SKU != b.SKU {
			return a.SKU < b.SKU
		}
		return a.Supermarket < b.Supermarket
	})

	return items, rows
}

// Shred flattens one raw item into a catalog item plus one price row per
// supermarket. The market set is the union of the price-markets and
// offer-markets: a market may carry an offer without a base price, or
// vice versa. Offer text wins when both sub-records exist.
func Shred(rec model.RawItemRecord, date model.Date) (model.Item, []model.PriceRow) {
	sku := strings.ToUpper(rec.Code)

	item := model.Item{
		SKU:           sku,
		DepartmentEn:  rec.Cat1Name.En,
		DepartmentZh:  rec.Cat1Name.Zh,
		CategoryEn:    rec.Cat2Name.En,
		CategoryZh:    rec.Cat2Name.Zh,
		SubcategoryEn: rec.Cat3Name.En,
		SubcategoryZh: rec.Cat3Name.Zh,
		BrandEn:       rec.Brand.En,
		BrandZh:       rec.Brand.Zh,
		NameEn:        rec.Name.En,
		NameZh:        rec.Name.Zh,
	}

	prices := byMarket(rec.Prices)
	offers := byMarket(rec.Offers)

	markets := make([]string, 0, len(prices)+len(offers))
	for m := range prices {
		markets = append(markets, m)
	}
	for m := range offers {
		if _, ok := prices[m]; !ok {
			markets = append(markets, m)
		}
	}
	sort.Strings(markets)

	rows := make([]model.PriceRow, 0, len(markets))
	for _, market := range markets {
		merged := prices[market]
		if offer, ok := offers[market]; ok {
			// Offer fields override base-price fields.
			merged.SupermarketCode = offer.SupermarketCode
			merged.En = offer.En
			merged.Zh = offer.Zh
			if offer.Price != "" {
				merged.Price = offer.Price
			}
		}

		rows = append(rows, model.PriceRow{
			SKU:           sku,
			Date:          date,
			Supermarket:   market,
			OriginalPrice: parsePrice(merged.Price),
			PromotionEn:   orDefault(merged.En),
			PromotionZh:   orDefault(merged.Zh),
		})
	}

	return item, rows
}

func byMarket(records []model.RawMarketRecord) map[string]model.RawMarketRecord {
	m := make(map[string]model.RawMarketRecord, len(records))
	for _, rec := range records {
		m[rec.SupermarketCode] = rec
	}
	return m
}

// parsePrice extracts the first numeric run from a price string
// ("$12.5", "HK$9.90", "12.5/2pcs"). Unparseable prices become 0 so no
// row is ever dropped.
func parsePrice(s string) float64 {
	match := priceRe.FindString(s)
	if match == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.Trim(match, "."), 64)
	if err != nil {
		return 0
	}
	return v
}

func orDefault(s string) string {
	if s == "" {
		return noPromotion
	}
	return s
}
