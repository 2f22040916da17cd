package models

// Tax is a sale tax applied per line. Percent is expressed as e.g. 20 for 20%.
type Tax struct {
	Id           uint    `json:"id" gorm:"primaryKey"`
	Name         string  `json:"name" gorm:"not null"`
	Percent      float64 `json:"percent" gorm:"not null"`
	PriceInclude bool    `json:"price_include"` // unit price already contains the tax
	Active       bool    `json:"-" gorm:"default:true"`
}

// Account is an income account an invoice line is booked against.
type Account struct {
	Id   uint   `json:"id" gorm:"primaryKey"`
	Code string `json:"code" gorm:"unique;not null"`
	Name string `json:"name" gorm:"not null"`
}
