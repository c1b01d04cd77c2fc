package catalog

import (
	"math"
	"testing"

	"sorveteria-service/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestFlatten_PriceFallbacks(t *testing.T) {
	agg := NewAggregator("https://storage.example.com/public")

	p := &models.Product{ID: uuid.New(), Name: "Sorvete Creme", Price: 12.9}
	out := agg.Flatten(p)
	assert.Equal(t, 12.9, out.Price)
	assert.Equal(t, 12.9, out.OriginalPrice)

	p = &models.Product{ID: uuid.New(), Name: "Picolé", OriginalPrice: 8.5}
	out = agg.Flatten(p)
	assert.Equal(t, 8.5, out.Price)
	assert.Equal(t, 8.5, out.OriginalPrice)

	p = &models.Product{ID: uuid.New(), Name: "Sem Preço"}
	out = agg.Flatten(p)
	assert.Equal(t, 0.0, out.Price)
	assert.Equal(t, 0.0, out.OriginalPrice)
}

func TestFlatten_DropsEmptyCategoryNames(t *testing.T) {
	agg := NewAggregator("")
	p := &models.Product{
		ID: uuid.New(),
		Categories: []models.Category{
			{Name: "Geral"},
			{Name: ""},
			{Name: "Picolés"},
		},
	}
	out := agg.Flatten(p)
	assert.Equal(t, []string{"Geral", "Picolés"}, out.Categories)
}

func TestFlatten_StockClamped(t *testing.T) {
	agg := NewAggregator("")
	out := agg.Flatten(&models.Product{ID: uuid.New(), Stock: -3})
	assert.Equal(t, 0, out.Stock)
}

func TestResolveImageURL(t *testing.T) {
	agg := NewAggregator("https://cdn.example.com/bucket/")

	assert.Equal(t, "https://other.example.com/a.jpg",
		agg.ResolveImageURL("https://other.example.com/a.jpg"))
	assert.Equal(t, "https://cdn.example.com/bucket/products%2Fsorvete%201.jpg",
		agg.ResolveImageURL("products/sorvete 1.jpg"))
	assert.Equal(t, "", agg.ResolveImageURL(""))
}

func TestCoerceStock(t *testing.T) {
	assert.Equal(t, 5, CoerceStock(5))
	assert.Equal(t, 0, CoerceStock(-3))
	assert.Equal(t, 2, CoerceStock(2.9))
	assert.Equal(t, 0, CoerceStock(math.NaN()))
	assert.Equal(t, 0, CoerceStock(math.Inf(1)))
	assert.Equal(t, math.MaxInt32, CoerceStock(1e18))
}

func TestCategoryNames_DistinctAndSorted(t *testing.T) {
	products := []Product{
		{Categories: []string{"Picolés", "Geral"}},
		{Categories: []string{"Açaí", "Geral"}},
	}
	names := CategoryNames(products)
	assert.Equal(t, []string{"Açaí", "Geral", "Picolés"}, names)
}
