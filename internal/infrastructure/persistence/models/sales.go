package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for a trade customer.
type CustomerModel struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// OrderModel is the persistence model for a sales order header.
type OrderModel struct {
	ID         int64     `gorm:"primaryKey"`
	CustomerID int64     `gorm:"not null;index"`
	OrderDate  time.Time `gorm:"not null;index"`
	Status     string    `gorm:"type:varchar(30);not null;default:'open'"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderLineItemModel is the persistence model for an order line.
type OrderLineItemModel struct {
	ID        int64           `gorm:"primaryKey"`
	OrderID   int64           `gorm:"not null;index"`
	ProductID int64           `gorm:"not null;index"`
	Quantity  int64           `gorm:"not null"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderLineItemModel) TableName() string {
	return "order_line_items"
}
