// Package catalog flattens persisted product rows into the client-facing
// representation served to the storefront: resolved image URLs, canonical
// prices and a plain ordered category list.
package catalog

import (
	"math"
	"net/url"
	"strings"

	"sorveteria-service/models"
	"sorveteria-service/pricing"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Product is the aggregated record the storefront consumes.
type Product struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"original_price"`
	Image         string    `json:"image"`
	Categories    []string  `json:"categories"`
	Stock         int       `json:"stock"`
	IsNew         bool      `json:"is_new"`
	IsBestSeller  bool      `json:"is_best_seller"`
}

// Aggregator resolves image references against the public object-storage
// base URL.
type Aggregator struct {
	imageBaseURL string
}

func NewAggregator(imageBaseURL string) *Aggregator {
	return &Aggregator{imageBaseURL: strings.TrimRight(imageBaseURL, "/")}
}

// Flatten produces the client-facing record for one product row. A price
// present on only one side fills the other; neither present leaves both 0.
func (a *Aggregator) Flatten(p *models.Product) Product {
	price, priceOK := pricing.Normalize(p.Price)
	original, originalOK := pricing.Normalize(p.OriginalPrice)

	// Zero means the column was never set; fall back across the pair.
	if priceOK && price == 0 {
		priceOK = false
	}
	if originalOK && original == 0 {
		originalOK = false
	}
	switch {
	case priceOK && !originalOK:
		original = price
	case !priceOK && originalOK:
		price = original
	case !priceOK && !originalOK:
		price, original = 0, 0
	}

	names := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		if c.Name == "" {
			continue
		}
		names = append(names, c.Name)
	}

	stock := p.Stock
	if stock < 0 {
		stock = 0
	}

	return Product{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         pricing.Round2(price),
		OriginalPrice: pricing.Round2(original),
		Image:         a.ResolveImageURL(p.ImageKey),
		Categories:    names,
		Stock:         stock,
		IsNew:         p.IsNew,
		IsBestSeller:  p.IsBestSeller,
	}
}

// FlattenAll maps a full result set.
func (a *Aggregator) FlattenAll(products []models.Product) []Product {
	out := make([]Product, 0, len(products))
	for i := range products {
		out = append(out, a.Flatten(&products[i]))
	}
	return out
}

// ResolveImageURL keeps absolute references untouched and joins storage keys
// onto the public base with percent-encoding.
func (a *Aggregator) ResolveImageURL(key string) string {
	if key == "" {
		return ""
	}
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	if a.imageBaseURL == "" {
		return key
	}
	encoded := url.PathEscape(strings.TrimLeft(key, "/"))
	return a.imageBaseURL + "/" + encoded
}

// CoerceStock turns arbitrary numeric input into a valid stock count:
// non-finite and negative values become 0, fractions truncate toward zero,
// and values past int32 range clamp so the float conversion stays defined.
func CoerceStock(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

// CategoryNames returns the distinct category names across the aggregated
// list, sorted with Brazilian Portuguese collation for navigation filters.
func CategoryNames(products []Product) []string {
	seen := make(map[string]bool)
	var names []string
	for _, p := range products {
		for _, name := range p.Categories {
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	collate.New(language.BrazilianPortuguese).SortStrings(names)
	return names
}
