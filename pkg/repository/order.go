package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"starburger.dev/FoodCart/pkg/model"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepository interface {
	FindOrderByNaturalKey(ctx context.Context, firstname, lastname, phonenumber, address string) (*model.Order, error)
	GetOrderByID(ctx context.Context, orderID uint) (*model.Order, error)
	GetOrderCost(ctx context.Context, orderID uint) (float64, error)
	RegisterOrder(ctx context.Context, order model.Order, lines []model.OrderDetails) (*model.Order, error)
	SaveOrder(ctx context.Context, order *model.Order) error
	DeleteOrder(ctx context.Context, orderID uint) error
}

func (r *Repository) FindOrderByNaturalKey(ctx context.Context, firstname, lastname, phonenumber, address string) (*model.Order, error) {
	return findOrderByNaturalKey(r.DB.WithContext(ctx), firstname, lastname, phonenumber, address)
}

func findOrderByNaturalKey(db *gorm.DB, firstname, lastname, phonenumber, address string) (*model.Order, error) {
	var order model.Order

	result := db.
		Where("firstname = ? AND lastname = ? AND phonenumber = ? AND address = ?", firstname, lastname, phonenumber, address).
		First(&order)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}

		return nil, result.Error
	}

	return &order, nil
}

func (r *Repository) GetOrderByID(ctx context.Context, orderID uint) (*model.Order, error) {
	var order model.Order

	result := r.DB.WithContext(ctx).
		Preload("Place").
		Preload("Details").
		First(&order, orderID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}

		return nil, result.Error
	}

	return &order, nil
}

func (r *Repository) GetOrderCost(ctx context.Context, orderID uint) (float64, error) {
	var cost float64

	result := r.DB.WithContext(ctx).Model(&model.OrderDetails{}).
		Select("coalesce(sum(product_price), 0)").
		Where("order_id = ?", orderID).
		Scan(&cost)
	if result.Error != nil {
		return 0, result.Error
	}

	return cost, nil
}

// RegisterOrder applies one submission as a single transaction: the order
// is created unless its natural key already exists, and every line item is
// inserted or accumulated onto the existing (order, product) row. The
// accumulation happens inside one ON CONFLICT statement so concurrent
// submissions of the same line serialize at the row instead of losing
// updates.
func (r *Repository) RegisterOrder(ctx context.Context, order model.Order, lines []model.OrderDetails) (*model.Order, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&order); result.Error != nil {
			return result.Error
		}

		if order.ID == 0 {
			// natural key collision, continue the existing order
			existing, err := findOrderByNaturalKey(tx, order.Firstname, order.Lastname, order.Phonenumber, order.Address)
			if err != nil {
				return err
			}

			order = *existing
		}

		for i := range lines {
			lines[i].OrderID = order.ID

			result := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "order_id"}, {Name: "product_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"quantity":      gorm.Expr(`"order_details"."quantity" + "excluded"."quantity"`),
					"product_price": gorm.Expr(`"order_details"."product_price" + "excluded"."product_price"`),
				}),
			}).Create(&lines[i])
			if result.Error != nil {
				return result.Error
			}
		}

		return nil
	})
	if err != nil {
		r.Logger.Error("error registering order", zap.String("order_uuid", order.UUID.String()), zap.Error(err))

		return nil, err
	}

	return &order, nil
}

func (r *Repository) SaveOrder(ctx context.Context, order *model.Order) error {
	result := r.DB.WithContext(ctx).Omit(clause.Associations).Save(order)

	return result.Error
}

// DeleteOrder removes the order for real, so the natural key is free for
// the customer's next submission; a soft-delete tombstone would keep
// holding idx_order_natural_key and block re-registration forever. Line
// items go with the order via the cascading foreign key.
func (r *Repository) DeleteOrder(ctx context.Context, orderID uint) error {
	result := r.DB.WithContext(ctx).Unscoped().Delete(&model.Order{}, orderID)

	return result.Error
}
