package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the archive's date key format.
const DateLayout = "20060102"

// Date is a calendar date in YYYYMMDD form. The string form compares
// chronologically, so Date values sort and compare as plain strings.
type Date string

// DateOf returns the Date for a point in time.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Time parses the date at midnight UTC.
func (d Date) Time() (time.Time, error) {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", d, err)
	}
	return t, nil
}

// Valid reports whether d is a well-formed YYYYMMDD date.
func (d Date) Valid() bool {
	_, err := d.Time()
	return err == nil
}

// Before reports whether d is chronologically before other.
func (d Date) Before(other Date) bool {
	return d < other
}

// DateForVersion maps an archive version stamp to the data date it covers.
// The stamp's leading YYYYMMDD is the publication date; the archive
// publishes each day's catalog the following day, so the covered date is
// one day earlier.
func DateForVersion(version string) (Date, error) {
	if len(version) < 8 {
		return "", fmt.Errorf("version %q too short for a date prefix", version)
	}
	t, err := time.Parse(DateLayout, version[:8])
	if err != nil {
		return "", fmt.Errorf("parse version %q: %w", version, err)
	}
	return DateOf(t.AddDate(0, 0, -1)), nil
}

// -----------------------------------------------------------------------------
// Raw upstream types
// -----------------------------------------------------------------------------

// Localized is a bilingual text field as delivered upstream.
type Localized struct {
	En string `json:"en"`
	Zh string `json:"zh-Hant"`
}

// RawMarketRecord is one per-supermarket sub-record of an item. The
// upstream "prices" records carry Price; "offers" records carry the
// promotion text. Both share the same wire shape.
type RawMarketRecord struct {
	SupermarketCode string `json:"supermarketCode"`
	Price           string `json:"price"`
	En              string `json:"en"`
	Zh              string `json:"zh-Hant"`
}

// RawItemRecord is one item object of a daily snapshot, as delivered.
type RawItemRecord struct {
	Code     string            `json:"code"`
	Brand    Localized         `json:"brand"`
	Name     Localized         `json:"name"`
	Cat1Name Localized         `json:"cat1Name"`
	Cat2Name Localized         `json:"cat2Name"`
	Cat3Name Localized         `json:"cat3Name"`
	Prices   []RawMarketRecord `json:"prices"`
	Offers   []RawMarketRecord `json:"offers"`
}

// -----------------------------------------------------------------------------
// Normalized types
// -----------------------------------------------------------------------------

// Item is one catalog item row, keyed by SKU.
type Item struct {
	SKU           string
	DepartmentEn  string
	DepartmentZh  string
	CategoryEn    string
	CategoryZh    string
	SubcategoryEn string
	SubcategoryZh string
	BrandEn       string
	BrandZh       string
	NameEn        string
	NameZh        string
}

// PriceRow is one price observation for (SKU, date, supermarket).
// Shredding fills everything except UnitPrice; normalization sets
// UnitPrice to the computed discounted price, or to OriginalPrice when
// no promotion rule applies.
type PriceRow struct {
	SKU           string
	Date          Date
	Supermarket   string
	OriginalPrice float64
	PromotionEn   string
	PromotionZh   string
	UnitPrice     float64
}

// Key identifies the deduplication key of a price row.
func (r PriceRow) Key() PriceKey {
	return PriceKey{SKU: r.SKU, Date: r.Date, Supermarket: r.Supermarket}
}

// PriceKey is the (SKU, date, supermarket) identity of a price row.
type PriceKey struct {
	SKU         string
	Date        Date
	Supermarket string
}

// -----------------------------------------------------------------------------
// Run output
// -----------------------------------------------------------------------------

// WriteSet is the atomic unit handed to storage at the end of a run.
// DeleteDates must be cleared before PriceRows are inserted so that a
// re-processed date never holds duplicate rows.
type WriteSet struct {
	RunID        uuid.UUID
	NewItems     []Item
	PriceRows    []PriceRow
	DeleteDates  []Date // expired plus re-fetched dates, purged pre-insert
	ExpiredDates []Date // aged out of the upstream retention window
}
