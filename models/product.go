package models

// Product types.
const (
	ProductTypeGoods   = "goods"
	ProductTypeService = "service"
)

// Product is a stockable part or a service fee item.
type Product struct {
	Id              uint     `json:"id" gorm:"primaryKey"`
	Name            string   `json:"name" gorm:"not null"`
	Description     string   `json:"description"`
	Type            string   `json:"type" gorm:"not null;default:'goods'"`
	Barcode         string   `json:"barcode" gorm:"index"`
	ListPrice       float64  `json:"list_price" gorm:"type:numeric(12,2)"`
	IncomeAccountId *uint    `json:"income_account_id"`
	IncomeAccount   *Account `json:"-" gorm:"foreignKey:IncomeAccountId;references:Id"`
	Taxes           []Tax    `json:"taxes" gorm:"many2many:product_taxes"`
	Active          bool     `json:"-" gorm:"default:true"`
}
