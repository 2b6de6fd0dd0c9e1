package repositories

import (
	"context"
	"fmt"

	"github.com/Rakhulsr/e-agri/app/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductFilter struct {
	CategoryID  string
	Search      string
	OrganicOnly bool
	MaxPrice    *decimal.Decimal
}

// ProductRow is a product joined with its dealer and category columns.
type ProductRow struct {
	models.Product `gorm:"embedded"`
	BusinessName   string
	DealerDistrict string
	DealerState    string
	CategoryName   string
	CategoryType   string
}

type ProductRepositoryImpl interface {
	ListAvailable(ctx context.Context, filter ProductFilter) ([]ProductRow, error)
	ListByDealer(ctx context.Context, dealerID string) ([]ProductRow, error)
	GetByID(ctx context.Context, id string) (*ProductRow, error)
	Create(ctx context.Context, product *models.Product) error
	UpdateOwned(ctx context.Context, id, dealerID string, updates map[string]interface{}) (bool, error)
	DeleteOwned(ctx context.Context, id, dealerID string) (bool, error)
	DecrementStock(ctx context.Context, id string, quantity decimal.Decimal) (bool, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepositoryImpl {
	return &productRepository{db}
}

func (p *productRepository) joined(ctx context.Context) *gorm.DB {
	return p.db.WithContext(ctx).
		Table("products").
		Select("products.*, dealers.business_name, dealers.district AS dealer_district, dealers.state AS dealer_state, " +
			"product_categories.category_name, product_categories.category_type").
		Joins("JOIN dealers ON dealers.id = products.dealer_id").
		Joins("LEFT JOIN product_categories ON product_categories.id = products.category_id")
}

func (p *productRepository) ListAvailable(ctx context.Context, filter ProductFilter) ([]ProductRow, error) {
	query := p.joined(ctx).
		Where("products.is_available = ? AND dealers.verification_status = ?", true, models.VerificationVerified)

	if filter.CategoryID != "" {
		query = query.Where("products.category_id = ?", filter.CategoryID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("(products.product_name LIKE ? OR products.description LIKE ?)", like, like)
	}
	if filter.OrganicOnly {
		query = query.Where("products.is_organic = ?", true)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}

	var rows []ProductRow
	if err := query.Order("products.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return rows, nil
}

func (p *productRepository) ListByDealer(ctx context.Context, dealerID string) ([]ProductRow, error) {
	var rows []ProductRow
	err := p.joined(ctx).
		Where("products.dealer_id = ?", dealerID).
		Order("products.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products for dealer %s: %w", dealerID, err)
	}
	return rows, nil
}

func (p *productRepository) GetByID(ctx context.Context, id string) (*ProductRow, error) {
	var rows []ProductRow
	if err := p.joined(ctx).Where("products.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (p *productRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := p.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product %s: %w", product.Name, err)
	}
	return nil
}

// UpdateOwned reports false when no product with id belongs to dealerID.
func (p *productRepository) UpdateOwned(ctx context.Context, id, dealerID string, updates map[string]interface{}) (bool, error) {
	result := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND dealer_id = ?", id, dealerID).
		Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update product %s: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (p *productRepository) DeleteOwned(ctx context.Context, id, dealerID string) (bool, error) {
	result := p.db.WithContext(ctx).Where("id = ? AND dealer_id = ?", id, dealerID).Delete(&models.Product{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete product %s: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DecrementStock subtracts quantity in a single conditional UPDATE so stock never goes negative.
// It reports false when the product is missing or holds less than quantity.
func (p *productRepository) DecrementStock(ctx context.Context, id string, quantity decimal.Decimal) (bool, error) {
	result := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		return false, fmt.Errorf("failed to decrement stock for product %s: %w", id, result.Error)
	}
	return result.RowsAffected == 1, nil
}
