package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"starburger.dev/FoodCart/pkg/model"
)

var ErrPlaceNotFound = errors.New("place not found")

func (r *Repository) FindPlaceByAddress(ctx context.Context, address string) (*model.Place, error) {
	var place model.Place

	result := r.DB.WithContext(ctx).Where("address = ?", address).First(&place)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPlaceNotFound
		}

		return nil, result.Error
	}

	return &place, nil
}

// UpsertPlace is the atomic get-or-create of the geocode cache: the unique
// index on address arbitrates concurrent first-time resolutions, and a
// conflicting insert overwrites the stored coordinates instead of creating
// a second row.
func (r *Repository) UpsertPlace(ctx context.Context, place model.Place) (*model.Place, error) {
	result := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"lon", "lat", "updated_at"}),
	}).Create(&place)

	if result.Error != nil {
		return nil, result.Error
	}

	return &place, nil
}

// DeletePlaceByAddress removes the cache row for real: a soft-delete
// tombstone would keep holding the address unique index, and the conflict
// upsert would keep reviving a row no lookup can see.
func (r *Repository) DeletePlaceByAddress(ctx context.Context, address string) error {
	result := r.DB.WithContext(ctx).Unscoped().Where("address = ?", address).Delete(&model.Place{})

	return result.Error
}
