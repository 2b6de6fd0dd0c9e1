package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/Rakhulsr/e-agri/app/helpers"
	"github.com/Rakhulsr/e-agri/app/models"
	"github.com/Rakhulsr/e-agri/app/repositories"
	"github.com/Rakhulsr/e-agri/app/utils/format"
	"github.com/Rakhulsr/e-agri/app/utils/sessions"
	"github.com/Rakhulsr/e-agri/app/utils/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	msgUnauthorized      = "Unauthorized access"
	msgDealerOnly        = "Only dealers can manage products"
	msgDealerNotFound    = "Dealer profile not found"
	msgDealerNotVerified = "Your dealer account is not verified yet"
	msgProductNotFound   = "Product not found"
	msgInsufficientStock = "Insufficient stock"
	msgUnknownCategory   = "Unknown category"
	msgPriceNotPositive  = "Price must be greater than 0"
)

type ProductInput struct {
	CategoryID       string           `json:"category_id"`
	Name             string           `json:"product_name" validate:"max=200"`
	Description      string           `json:"description" validate:"max=5000"`
	Price            *decimal.Decimal `json:"price"`
	Unit             string           `json:"unit" validate:"max=20"`
	StockQuantity    *decimal.Decimal `json:"stock_quantity"`
	MinOrderQuantity *decimal.Decimal `json:"min_order_quantity"`
	ImageURL         string           `json:"product_image_url" validate:"omitempty,url,max=500"`
	IsOrganic        bool             `json:"is_organic"`
	IsAvailable      *bool            `json:"is_available"`
}

type ProductView struct {
	ProductID        string          `json:"product_id"`
	DealerID         string          `json:"dealer_id"`
	CategoryID       string          `json:"category_id"`
	ProductName      string          `json:"product_name"`
	Description      string          `json:"description"`
	Price            decimal.Decimal `json:"price"`
	PriceDisplay     string          `json:"price_display"`
	Unit             string          `json:"unit"`
	StockQuantity    decimal.Decimal `json:"stock_quantity"`
	MinOrderQuantity decimal.Decimal `json:"min_order_quantity"`
	ProductImageURL  string          `json:"product_image_url"`
	IsOrganic        bool            `json:"is_organic"`
	IsAvailable      bool            `json:"is_available"`
	BusinessName     string          `json:"business_name"`
	District         string          `json:"district,omitempty"`
	State            string          `json:"state,omitempty"`
	CategoryName     string          `json:"category_name"`
	CategoryType     string          `json:"category_type"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type ProductService struct {
	products   repositories.ProductRepositoryImpl
	categories repositories.CategoryRepositoryImpl
	profiles   repositories.ProfileRepositoryImpl
}

func NewProductService(products repositories.ProductRepositoryImpl, categories repositories.CategoryRepositoryImpl, profiles repositories.ProfileRepositoryImpl) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		profiles:   profiles,
	}
}

func (s *ProductService) List(ctx context.Context, filter repositories.ProductFilter) ([]ProductView, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	rows, err := s.products.ListAvailable(ctx, filter)
	if err != nil {
		return nil, helpers.NewStorageUnavailable(err)
	}
	return toViews(rows, false), nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*ProductView, error) {
	row, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, helpers.NewStorageUnavailable(err)
	}
	if row == nil {
		return nil, helpers.NewNotFound(msgProductNotFound)
	}
	view := toView(*row, true)
	return &view, nil
}

func (s *ProductService) Categories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, helpers.NewStorageUnavailable(err)
	}
	return categories, nil
}

func (s *ProductService) DealerProducts(ctx context.Context, identity *sessions.Identity) ([]ProductView, error) {
	dealer, err := s.dealerFor(ctx, identity)
	if err != nil {
		return nil, err
	}
	rows, err := s.products.ListByDealer(ctx, dealer.ID)
	if err != nil {
		return nil, helpers.NewStorageUnavailable(err)
	}
	return toViews(rows, false), nil
}

func (s *ProductService) Create(ctx context.Context, identity *sessions.Identity, input ProductInput) (string, error) {
	dealer, err := s.dealerFor(ctx, identity)
	if err != nil {
		return "", err
	}
	if !dealer.IsVerified() {
		return "", helpers.NewForbidden(msgDealerNotVerified)
	}

	if err := s.validate(ctx, &input); err != nil {
		return "", err
	}

	product := &models.Product{
		ID:               uuid.New().String(),
		DealerID:         dealer.ID,
		CategoryID:       input.CategoryID,
		Name:             input.Name,
		Description:      input.Description,
		Price:            *input.Price,
		Unit:             input.Unit,
		StockQuantity:    *input.StockQuantity,
		MinOrderQuantity: *input.MinOrderQuantity,
		ImageURL:         input.ImageURL,
		IsOrganic:        input.IsOrganic,
		IsAvailable:      *input.IsAvailable,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return "", helpers.NewStorageUnavailable(err)
	}

	log.Printf("Create: dealer %s listed product %s", dealer.ID, product.ID)
	return product.ID, nil
}

// Update replaces the listing fields of a product the dealer owns. The image is kept when none is supplied.
func (s *ProductService) Update(ctx context.Context, identity *sessions.Identity, id string, input ProductInput) error {
	dealer, err := s.dealerFor(ctx, identity)
	if err != nil {
		return err
	}

	if err := s.validate(ctx, &input); err != nil {
		return err
	}

	updates := map[string]interface{}{
		"product_name":       input.Name,
		"category_id":        input.CategoryID,
		"description":        input.Description,
		"price":              *input.Price,
		"unit":               input.Unit,
		"stock_quantity":     *input.StockQuantity,
		"min_order_quantity": *input.MinOrderQuantity,
		"is_organic":         input.IsOrganic,
		"is_available":       *input.IsAvailable,
	}
	if input.ImageURL != "" {
		updates["product_image_url"] = input.ImageURL
	}

	ok, err := s.products.UpdateOwned(ctx, id, dealer.ID, updates)
	if err != nil {
		return helpers.NewStorageUnavailable(err)
	}
	if !ok {
		return helpers.NewNotFound(msgProductNotFound)
	}
	return nil
}

func (s *ProductService) Delete(ctx context.Context, identity *sessions.Identity, id string) error {
	dealer, err := s.dealerFor(ctx, identity)
	if err != nil {
		return err
	}

	ok, err := s.products.DeleteOwned(ctx, id, dealer.ID)
	if err != nil {
		return helpers.NewStorageUnavailable(err)
	}
	if !ok {
		return helpers.NewNotFound(msgProductNotFound)
	}

	log.Printf("Delete: dealer %s removed product %s", dealer.ID, id)
	return nil
}

// DecrementStock subtracts quantity atomically. Stock is left untouched when it cannot cover quantity.
func (s *ProductService) DecrementStock(ctx context.Context, identity *sessions.Identity, id string, quantity decimal.Decimal) error {
	if identity == nil {
		return helpers.NewUnauthenticated(msgUnauthorized)
	}
	if !quantity.IsPositive() {
		return helpers.NewValidationFailed("Quantity must be greater than 0", map[string]string{
			"quantity": "Quantity must be greater than 0",
		})
	}

	ok, err := s.products.DecrementStock(ctx, id, quantity)
	if err != nil {
		stockDecrements.WithLabelValues(outcomeError).Inc()
		return helpers.NewStorageUnavailable(err)
	}
	if ok {
		stockDecrements.WithLabelValues(outcomeSuccess).Inc()
		return nil
	}

	row, err := s.products.GetByID(ctx, id)
	if err != nil {
		return helpers.NewStorageUnavailable(err)
	}
	if row == nil {
		return helpers.NewNotFound(msgProductNotFound)
	}
	stockDecrements.WithLabelValues(outcomeInsufficient).Inc()
	return helpers.NewConflict(msgInsufficientStock)
}

func (s *ProductService) dealerFor(ctx context.Context, identity *sessions.Identity) (*models.Dealer, error) {
	if identity == nil {
		return nil, helpers.NewUnauthenticated(msgUnauthorized)
	}
	if identity.Role != models.RoleDealer {
		return nil, helpers.NewForbidden(msgDealerOnly)
	}
	dealer, err := s.profiles.DealerByUserID(ctx, identity.UserID)
	if err != nil {
		return nil, helpers.NewStorageUnavailable(err)
	}
	if dealer == nil {
		return nil, helpers.NewNotFound(msgDealerNotFound)
	}
	return dealer, nil
}

// validate normalises input in place and fills the stock, minimum order and availability defaults.
func (s *ProductService) validate(ctx context.Context, input *ProductInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.CategoryID = strings.TrimSpace(input.CategoryID)
	input.Unit = strings.TrimSpace(input.Unit)
	input.Description = strings.TrimSpace(input.Description)
	input.ImageURL = strings.TrimSpace(input.ImageURL)

	if input.StockQuantity == nil {
		zero := decimal.Zero
		input.StockQuantity = &zero
	}
	if input.MinOrderQuantity == nil {
		one := decimal.NewFromInt(1)
		input.MinOrderQuantity = &one
	}
	if input.IsAvailable == nil {
		available := true
		input.IsAvailable = &available
	}

	v := validation.New()
	v.Required(input.Name, "product_name")
	v.Required(input.CategoryID, "category_id")
	if v.Check(input.Price != nil, "price", "Price is required") {
		v.Check(input.Price.IsPositive(), "price", msgPriceNotPositive)
	}
	v.Required(input.Unit, "unit")
	v.Check(!input.StockQuantity.IsNegative(), "stock_quantity", "Stock quantity cannot be negative")
	v.Check(input.MinOrderQuantity.IsPositive(), "min_order_quantity", "Min order quantity must be greater than 0")
	if err := v.Struct(input); err != nil {
		return helpers.NewStorageUnavailable(err)
	}
	if v.HasErrors() {
		return helpers.NewValidationFailed(v.FirstError(), v.Errors())
	}

	category, err := s.categories.GetByID(ctx, input.CategoryID)
	if err != nil {
		return helpers.NewStorageUnavailable(err)
	}
	if category == nil || !category.IsActive {
		return helpers.NewValidationFailed(msgUnknownCategory, map[string]string{"category_id": msgUnknownCategory})
	}
	return nil
}

func toViews(rows []repositories.ProductRow, withLocation bool) []ProductView {
	views := make([]ProductView, 0, len(rows))
	for _, row := range rows {
		views = append(views, toView(row, withLocation))
	}
	return views
}

func toView(row repositories.ProductRow, withLocation bool) ProductView {
	view := ProductView{
		ProductID:        row.ID,
		DealerID:         row.DealerID,
		CategoryID:       row.CategoryID,
		ProductName:      row.Name,
		Description:      row.Description,
		Price:            row.Price,
		PriceDisplay:     format.Rupee(row.Price),
		Unit:             row.Unit,
		StockQuantity:    row.StockQuantity,
		MinOrderQuantity: row.MinOrderQuantity,
		ProductImageURL:  row.ImageURL,
		IsOrganic:        row.IsOrganic,
		IsAvailable:      row.IsAvailable,
		BusinessName:     row.BusinessName,
		CategoryName:     row.CategoryName,
		CategoryType:     row.CategoryType,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
	if withLocation {
		view.District = row.DealerDistrict
		view.State = row.DealerState
	}
	return view
}
