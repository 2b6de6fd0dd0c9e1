package fakers

import (
	"math/rand"
	"strings"

	"github.com/Rakhulsr/e-agri/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var unitsByCategory = map[string][]string{
	models.CategorySeeds:      {"kg", "packet"},
	models.CategoryFertilizer: {"kg", "bag"},
	models.CategoryPesticide:  {"litre", "bottle"},
	models.CategoryEquipment:  {"piece"},
	models.CategoryOther:      {"piece", "kg"},
}

var namesByCategory = map[string][]string{
	models.CategorySeeds:      {"Hybrid Paddy Seeds", "Ragi Seeds", "Tomato Seeds", "Groundnut Seeds"},
	models.CategoryFertilizer: {"Urea", "DAP", "Vermicompost", "Potash"},
	models.CategoryPesticide:  {"Neem Oil", "Chlorpyrifos", "Mancozeb"},
	models.CategoryEquipment:  {"Knapsack Sprayer", "Drip Irrigation Kit", "Hand Weeder"},
	models.CategoryOther:      {"Mulching Sheet", "Shade Net"},
}

// ProductFaker builds a listing for dealerID in category with a faker description.
func ProductFaker(dealerID string, category *models.Category) *models.Product {
	names := namesByCategory[category.Type]
	if len(names) == 0 {
		names = namesByCategory[models.CategoryOther]
	}
	units := unitsByCategory[category.Type]
	if len(units) == 0 {
		units = unitsByCategory[models.CategoryOther]
	}

	return &models.Product{
		ID:               uuid.New().String(),
		DealerID:         dealerID,
		CategoryID:       category.ID,
		Name:             names[rand.Intn(len(names))],
		Description:      strings.TrimSpace(faker.Sentence() + " " + faker.Paragraph()),
		Price:            fakePrice(),
		Unit:             units[rand.Intn(len(units))],
		StockQuantity:    decimal.NewFromInt(int64(rand.Intn(200) + 10)),
		MinOrderQuantity: decimal.NewFromInt(1),
		IsOrganic:        rand.Intn(3) == 0,
		IsAvailable:      true,
	}
}

func fakePrice() decimal.Decimal {
	return decimal.NewFromInt(int64(rand.Intn(500000) + 1000)).Div(decimal.NewFromInt(100)).Round(2)
}
