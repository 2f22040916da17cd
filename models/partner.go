package models

// Partner is a customer or an invoicing address. A partner may point at a
// dedicated bill-to partner; orders without one bill the customer directly.
type Partner struct {
	Id               uint            `json:"id" gorm:"primaryKey"`
	Name             string          `json:"name" gorm:"not null"`
	Address          string          `json:"address"`
	City             string          `json:"city"`
	Country          string          `json:"country"`
	Zip              string          `json:"zip"`
	Email            string          `json:"email" gorm:"index"`
	PhoneNumber      string          `json:"phone_number"`
	MobileNumber     string          `json:"mobile_number"`
	InvoicePartnerId *uint           `json:"invoice_partner_id"` // preferred bill-to address
	PricelistId      *uint           `json:"pricelist_id"`
	Pricelist        *Pricelist      `json:"-" gorm:"foreignKey:PricelistId;references:Id"`
	FiscalPositionId *uint           `json:"fiscal_position_id"`
	FiscalPosition   *FiscalPosition `json:"-" gorm:"foreignKey:FiscalPositionId;references:Id"`
	PaymentTermDays  int             `json:"payment_term_days"`
	Active           bool            `json:"-" gorm:"default:true"`
}
