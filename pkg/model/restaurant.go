package model

import "gorm.io/gorm"

type Restaurant struct {
	gorm.Model
	Name         string
	Address      string
	ContactPhone string
	PlaceID      *uint

	Place *Place `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

type RestaurantMenuItem struct {
	gorm.Model
	RestaurantID uint `gorm:"uniqueIndex:idx_menu_item_unique"`
	ProductID    uint `gorm:"uniqueIndex:idx_menu_item_unique"`
	Availability bool `gorm:"default:true;index"`

	Restaurant Restaurant `gorm:"constraint:OnDelete:CASCADE;"`
	Product    Product    `gorm:"constraint:OnDelete:CASCADE;"`
}
