package models

import "time"

// Repair order states.
const (
	RepairStateDraft       = "draft"
	RepairStateConfirmed   = "confirmed"
	RepairStateUnderRepair = "under_repair"
	RepairStateReady       = "ready"
	RepairStateDone        = "done"
	RepairStateCancel      = "cancel"
)

// Invoice methods.
const (
	InvoiceMethodNone        = "none"
	InvoiceMethodB4Repair    = "b4repair"
	InvoiceMethodAfterRepair = "after_repair"
)

// Operation line types.
const (
	OperationTypeAdd    = "add"
	OperationTypeRemove = "remove"
)

// RepairOrder is the aggregate record for one customer repair job. It owns
// its operation (parts) and fee (services) lines and carries amounts that are
// recomputed from the lines, never written directly.
type RepairOrder struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	Name      string  `json:"name" gorm:"unique;not null"`
	CompanyId string  `json:"-" gorm:"index;not null"`
	Company   Company `json:"-" gorm:"foreignKey:CompanyId;references:Id"`

	PartnerId        *uint     `json:"partner_id" gorm:"index"`
	Partner          *Partner  `json:"partner" gorm:"foreignKey:PartnerId;references:Id"`
	PartnerInvoiceId *uint     `json:"partner_invoice_id"` // invoicing address
	PricelistId      *uint     `json:"pricelist_id"`
	Pricelist        *Pricelist `json:"pricelist" gorm:"foreignKey:PricelistId;references:Id"`

	State         string `json:"state" gorm:"not null;default:'draft';index"`
	InvoiceMethod string `json:"invoice_method" gorm:"not null;default:'none';index"`

	ProductId      *uint    `json:"product_id"`
	Product        *Product `json:"product" gorm:"foreignKey:ProductId;references:Id"`
	ProductBarcode string   `json:"product_bar_code"`
	Description    string   `json:"description"`
	QuotationNotes string   `json:"quotation_notes"` // HTML, copied into the invoice narration
	GuaranteeLimit *time.Time `json:"guarantee_limit"`

	// Customer reference variants kept for legacy imports. The job card copy
	// falls back through them in order.
	CustomerReference string `json:"customer_reference"`
	ClientOrderRef    string `json:"client_order_ref"`
	ManualJobCard     string `json:"manual_job_card"`

	TechnicianId *string `json:"technician_id"`

	// Appliance traceability
	ApplianceSerialNumber string     `json:"appliance_serial_number"`
	ApplianceBrand        string     `json:"appliance_brand"`
	ApplianceModel        string     `json:"appliance_model"`
	SupplierId            *uint      `json:"supplier_id"`
	Supplier              *Supplier  `json:"-" gorm:"foreignKey:SupplierId;references:Id"`
	SupplierInvoiceRef    string     `json:"supplier_invoice_ref"`
	PurchaseDate          *time.Time `json:"purchase_date"`
	WarrantyStatus        string     `json:"warranty_status" gorm:"default:'unknown'"`
	ConditionOnReceipt    string     `json:"condition_on_receipt" gorm:"default:'fair'"`
	AccessoriesReceived   string     `json:"accessories_received"`

	// Diagnostic report
	FaultDescription string     `json:"fault_description"`
	DiagnosisNotes   string     `json:"diagnosis_notes"`
	RootCause        string     `json:"root_cause"`
	DiagnosisDate    *time.Time `json:"diagnosis_date"`
	DiagnosedById    *string    `json:"diagnosed_by_id"`

	Operations []OperationLine `json:"operations" gorm:"foreignKey:RepairId;constraint:OnDelete:CASCADE"`
	Fees       []FeeLine       `json:"fees" gorm:"foreignKey:RepairId;constraint:OnDelete:CASCADE"`

	// Recomputed from the lines after every mutation. Never set directly.
	AmountUntaxed float64 `json:"amount_untaxed" gorm:"type:numeric(12,2)"`
	AmountTax     float64 `json:"amount_tax" gorm:"type:numeric(12,2)"`
	AmountTotal   float64 `json:"amount_total" gorm:"type:numeric(12,2)"`

	InvoiceId           *uint    `json:"invoice_id"`
	Invoice             *Invoice `json:"-" gorm:"foreignKey:InvoiceId;references:ID"`
	Invoiced            bool     `json:"invoiced"`
	DiagnosticInvoiceId *uint    `json:"diagnostic_invoice_id"`
	Repaired            bool     `json:"repaired"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OperationLine is a part added to (or removed from) the appliance under
// repair. Only "add" lines are invoiced.
type OperationLine struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	RepairId      uint    `json:"-" gorm:"index;not null"`
	Name          string  `json:"name" gorm:"not null"` // description
	Type          string  `json:"type" gorm:"not null;default:'add'"`
	ProductId     uint    `json:"product_id" gorm:"not null"`
	Product       Product `json:"product" gorm:"foreignKey:ProductId;references:Id"`
	Quantity      float64 `json:"quantity" gorm:"not null;default:1"`
	PriceUnit     float64 `json:"price_unit" gorm:"type:numeric(12,2)"`
	Taxes         []Tax   `json:"taxes" gorm:"many2many:operation_line_taxes"`
	PriceSubtotal float64 `json:"price_subtotal" gorm:"type:numeric(12,2)"`
	PriceTotal    float64 `json:"price_total" gorm:"type:numeric(12,2)"`
	Invoiced      bool    `json:"invoiced"`
	InvoiceLineId *uint   `json:"invoice_line_id"`
}

// FeeLine is a service charge on the repair order. A fee must carry a product
// before it can be invoiced.
type FeeLine struct {
	ID            uint     `json:"id" gorm:"primaryKey"`
	RepairId      uint     `json:"-" gorm:"index;not null"`
	Name          string   `json:"name" gorm:"not null"`
	ProductId     *uint    `json:"product_id"`
	Product       *Product `json:"product" gorm:"foreignKey:ProductId;references:Id"`
	Quantity      float64  `json:"quantity" gorm:"not null;default:1"`
	PriceUnit     float64  `json:"price_unit" gorm:"type:numeric(12,2)"`
	Taxes         []Tax    `json:"taxes" gorm:"many2many:fee_line_taxes"`
	PriceSubtotal float64  `json:"price_subtotal" gorm:"type:numeric(12,2)"`
	PriceTotal    float64  `json:"price_total" gorm:"type:numeric(12,2)"`
	Invoiced      bool     `json:"invoiced"`
	InvoiceLineId *uint    `json:"invoice_line_id"`
}

// ValidRepairState reports whether s is one of the fixed order states.
func ValidRepairState(s string) bool {
	switch s {
	case RepairStateDraft, RepairStateConfirmed, RepairStateUnderRepair,
		RepairStateReady, RepairStateDone, RepairStateCancel:
		return true
	}
	return false
}
