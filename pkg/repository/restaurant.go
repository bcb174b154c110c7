package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"starburger.dev/FoodCart/pkg/model"
)

var ErrRestaurantNotFound = errors.New("restaurant not found")

func (r *Repository) GetRestaurants(ctx context.Context) ([]*model.Restaurant, error) {
	var restaurants []*model.Restaurant

	result := r.DB.WithContext(ctx).Preload("Place").Order("restaurants.name").Find(&restaurants)
	if result.Error != nil {
		return nil, result.Error
	}

	return restaurants, nil
}

func (r *Repository) GetRestaurantByID(ctx context.Context, restaurantID uint) (*model.Restaurant, error) {
	var restaurant model.Restaurant

	result := r.DB.WithContext(ctx).Preload("Place").First(&restaurant, restaurantID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}

		return nil, result.Error
	}

	return &restaurant, nil
}

func (r *Repository) SaveRestaurant(ctx context.Context, restaurant *model.Restaurant) error {
	result := r.DB.WithContext(ctx).Omit(clause.Associations).Save(restaurant)

	return result.Error
}

func (r *Repository) DeleteRestaurant(ctx context.Context, restaurantID uint) error {
	result := r.DB.WithContext(ctx).Delete(&model.Restaurant{}, restaurantID)

	return result.Error
}
