package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OrderStatusUnprocessed = "UP"
	OrderStatusProcessed   = "PR"
)

const (
	PaymentMethodCash           = "CH"
	PaymentMethodCard           = "CR"
	PaymentMethodTransfer       = "TR"
	PaymentMethodCryptocurrency = "CC"
)

// Order identity for ingestion is the natural key (firstname, lastname,
// phonenumber, address); a submission matching an existing order's key
// continues that order. The UUID is a public code for responses and logs.
type Order struct {
	gorm.Model
	UUID          uuid.UUID `gorm:"type:uuid"`
	Firstname     string    `gorm:"uniqueIndex:idx_order_natural_key"`
	Lastname      string    `gorm:"uniqueIndex:idx_order_natural_key"`
	Phonenumber   string    `gorm:"uniqueIndex:idx_order_natural_key"`
	Address       string    `gorm:"uniqueIndex:idx_order_natural_key"`
	Status        string    `gorm:"size:2;default:UP;index"`
	PaymentMethod string    `gorm:"size:2;index"`
	Comment       string
	PlaceID       *uint
	RestaurantID  *uint
	RegisteredAt  time.Time `gorm:"index"`
	CalledAt      *time.Time
	DeliveredAt   *time.Time

	Place      *Place      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Restaurant *Restaurant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Details    []OrderDetails `gorm:"constraint:OnDelete:CASCADE;"`
}

func (o *Order) FullName() string {
	return o.Firstname + " " + o.Lastname
}

// OrderDetails is one line item. ProductPrice is the accumulated cost of
// the line (quantity times unit price at ingestion time), not the unit
// price.
type OrderDetails struct {
	gorm.Model
	OrderID      uint `gorm:"uniqueIndex:idx_order_details_unique"`
	ProductID    uint `gorm:"uniqueIndex:idx_order_details_unique"`
	Quantity     int
	ProductPrice float64 `gorm:"type:decimal(8,2)"`

	Product Product `gorm:"constraint:OnDelete:CASCADE;"`
}
