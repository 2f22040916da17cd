package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is the operating entity a repair order belongs to. Invoices are
// never mixed across companies.
type Company struct {
	Id          string   `json:"id" gorm:"primaryKey"`
	CompanyName string   `json:"company_name" gorm:"not null;unique"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	Country     string   `json:"country"`
	Zip         string   `json:"zip"`
	UID         string   `json:"uid" gorm:"null"`
	CurrencyId  uint     `json:"-" gorm:"not null"`
	Currency    Currency `json:"currency" gorm:"foreignKey:CurrencyId;references:Id"`
}

func (company *Company) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if company.Id == "" {
		company.Id = uuid.NewString()
	}
	return
}
