package models

import "time"

// Invoice is a customer invoice produced from one or more repair orders that
// share the same bill-to partner, currency and company.
type Invoice struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	MoveType  string  `json:"move_type" gorm:"not null;default:'out_invoice'"`
	CompanyId string  `json:"-" gorm:"index;not null"`
	Company   Company `json:"-" gorm:"foreignKey:CompanyId;references:Id"`

	PartnerId        uint     `json:"partner_id" gorm:"not null;index"`
	Partner          Partner  `json:"partner" gorm:"foreignKey:PartnerId;references:Id"`
	CurrencyId       uint     `json:"currency_id" gorm:"not null"`
	Currency         Currency `json:"currency" gorm:"foreignKey:CurrencyId;references:Id"`
	FiscalPositionId *uint    `json:"fiscal_position_id"`

	// InvoiceOrigin accumulates the source order references when grouping.
	InvoiceOrigin   string        `json:"invoice_origin"`
	Narration       string        `json:"narration"` // HTML
	PaymentTermDays int           `json:"payment_term_days"`
	Lines           []InvoiceLine `json:"lines" gorm:"foreignKey:InvoiceId;constraint:OnDelete:CASCADE"`

	Subtotal float64 `json:"subtotal" gorm:"type:numeric(12,2)"`
	TaxTotal float64 `json:"tax_total" gorm:"type:numeric(12,2)"`
	Total    float64 `json:"total" gorm:"type:numeric(12,2)"`

	State     string    `json:"state" gorm:"not null;default:'draft'"`
	CreatedAt time.Time `json:"created_at"`
}

// InvoiceLine carries a back-reference to the repair line it was generated
// from so that invoicing state can be traced both ways.
type InvoiceLine struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	InvoiceId uint    `json:"-" gorm:"index"`
	Name      string  `json:"name" gorm:"not null"`
	AccountId uint    `json:"account_id"`
	ProductId *uint   `json:"product_id"`
	Quantity  float64 `json:"quantity" gorm:"not null;default:1"`
	PriceUnit float64 `json:"price_unit" gorm:"type:numeric(12,2)"`
	Taxes     []Tax   `json:"taxes" gorm:"many2many:invoice_line_taxes"`

	OperationLineId *uint `json:"operation_line_id" gorm:"index"`
	FeeLineId       *uint `json:"fee_line_id" gorm:"index"`
}
