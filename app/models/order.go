package models

import "time"

// MenuItem is a pizza on the global menu.
type MenuItem struct {
	ID          uint    `gorm:"primaryKey"         json:"id"`
	Title       string  `gorm:"size:255;not null"  json:"title"`
	Description string  `gorm:"type:text"          json:"description"`
	Image       string  `gorm:"size:1024"          json:"image"`
	Price       float64 `gorm:"not null;default:0" json:"price"`
}

func (MenuItem) TableName() string { return "menu" }

// Order is a diner's purchase at one store.
type Order struct {
	ID          uint        `gorm:"primaryKey"                                     json:"id"`
	DinerID     uint        `gorm:"not null;index"                                 json:"dinerId"`
	FranchiseID uint        `gorm:"not null;index"                                 json:"franchiseId"`
	StoreID     uint        `gorm:"not null;index"                                 json:"storeId"`
	Date        time.Time   `gorm:"not null"                                       json:"date"`
	Items       []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// Total sums the item prices.
func (o Order) Total() float64 {
	var total float64
	for _, it := range o.Items {
		total += it.Price
	}
	return total
}

// OrderItem is one line of an order, priced at the time of purchase.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey"        json:"id"`
	OrderID     uint    `gorm:"not null;index"    json:"-"`
	MenuID      uint    `gorm:"not null"          json:"menuId"`
	Description string  `gorm:"size:255"          json:"description"`
	Price       float64 `gorm:"not null"          json:"price"`
}
