package smoke

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
	"github.com/parsab/itemd/internal/domain/item"
)

// Ranges for generated item values.
const (
	randomFloatDivisor = 1_000_000
	priceMin           = 0.5
	priceRange         = 999.5
	taxRateMax         = 0.25
	describedShare     = 2 // every other item gets a description
	taxedShare         = 3 // every third item gets a tax
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// generateItems creates count items with unique uuid-derived names.
func generateItems(count int) []item.Item {
	items := make([]item.Item, count)
	for i := range items {
		items[i] = generateSingleItem(i)
	}
	return items
}

// generateSingleItem creates one valid item. Descriptions and taxes are
// attached to a deterministic subset so both optional-field shapes are
// exercised on every run.
func generateSingleItem(index int) item.Item {
	price := priceMin + getRandomFloat()*priceRange
	it := item.Item{
		Name:  "item-" + uuid.NewString(),
		Price: &price,
	}
	if index%describedShare == 0 {
		desc := "generated smoke item"
		it.Description = &desc
	}
	if index%taxedShare == 0 {
		tax := price * getRandomFloat() * taxRateMax
		it.Tax = &tax
	}
	return it
}
