package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"starburger.dev/FoodCart/pkg/model"
)

var ErrProductNotFound = errors.New("product not found")

func (r *Repository) GetProductByID(ctx context.Context, productID uint) (*model.Product, error) {
	var product model.Product

	result := r.DB.WithContext(ctx).First(&product, productID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}

		return nil, result.Error
	}

	return &product, nil
}

// GetAvailableProducts returns the catalog exposed to customers: distinct
// products carried by at least one restaurant menu entry marked available.
func (r *Repository) GetAvailableProducts(ctx context.Context) ([]*model.Product, error) {
	var products []*model.Product

	result := r.DB.WithContext(ctx).
		Distinct("products.*").
		Joins("INNER JOIN restaurant_menu_items rmi ON rmi.product_id = products.id").
		Where("rmi.availability = ?", true).
		Where("rmi.deleted_at is null").
		Preload("Category").
		Find(&products)
	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}
