package models

// Pricelist determines the currency (and eventually per-product pricing rules)
// applied to a repair order.
type Pricelist struct {
	Id         uint     `json:"id" gorm:"primaryKey"`
	Name       string   `json:"name" gorm:"not null"`
	CurrencyId uint     `json:"-" gorm:"not null"`
	Currency   Currency `json:"currency" gorm:"foreignKey:CurrencyId;references:Id"`
	Active     bool     `json:"-" gorm:"default:true"`
}
