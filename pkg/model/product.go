package model

import "gorm.io/gorm"

type ProductCategory struct {
	gorm.Model
	Name string
}

type Product struct {
	gorm.Model
	Name          string `gorm:"uniqueIndex"`
	CategoryID    *uint
	Price         float64 `gorm:"type:decimal(8,2);index"`
	ImageURL      string
	SpecialStatus bool `gorm:"default:false;index"`
	Description   string

	Category *ProductCategory `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}
