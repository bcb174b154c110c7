package model

import "gorm.io/gorm"

// Place is the durable geocode cache entry: one row per normalized
// address string. Coordinates stay nil when the provider could not
// resolve the address.
type Place struct {
	gorm.Model
	Address string   `gorm:"uniqueIndex"`
	Lon     *float64 `gorm:"type:decimal(11,8)"`
	Lat     *float64 `gorm:"type:decimal(10,8)"`
}

func (p *Place) HasCoordinates() bool {
	return p.Lon != nil && p.Lat != nil
}
