package models

// FiscalPosition remaps taxes and income accounts depending on the bill-to
// partner. A partner without one keeps the product defaults.
type FiscalPosition struct {
	Id          uint                        `json:"id" gorm:"primaryKey"`
	Name        string                      `json:"name" gorm:"not null"`
	TaxMaps     []FiscalPositionTaxMap      `json:"tax_maps" gorm:"foreignKey:FiscalPositionId;constraint:OnDelete:CASCADE"`
	AccountMaps []FiscalPositionAccountMap  `json:"account_maps" gorm:"foreignKey:FiscalPositionId;constraint:OnDelete:CASCADE"`
}

type FiscalPositionTaxMap struct {
	Id               uint `json:"id" gorm:"primaryKey"`
	FiscalPositionId uint `json:"-" gorm:"index"`
	SrcTaxId         uint `json:"src_tax_id" gorm:"not null"`
	DestTaxId        uint `json:"dest_tax_id" gorm:"not null"`
	DestTax          Tax  `json:"-" gorm:"foreignKey:DestTaxId;references:Id"`
}

type FiscalPositionAccountMap struct {
	Id               uint `json:"id" gorm:"primaryKey"`
	FiscalPositionId uint `json:"-" gorm:"index"`
	SrcAccountId     uint `json:"src_account_id" gorm:"not null"`
	DestAccountId    uint `json:"dest_account_id" gorm:"not null"`
}

// MapTaxes translates a tax set through the position's tax mapping.
// Taxes without a mapping entry pass through unchanged.
func (fp *FiscalPosition) MapTaxes(taxes []Tax) []Tax {
	if fp == nil || len(fp.TaxMaps) == 0 {
		return taxes
	}
	bySrc := make(map[uint]FiscalPositionTaxMap, len(fp.TaxMaps))
	for _, m := range fp.TaxMaps {
		bySrc[m.SrcTaxId] = m
	}
	out := make([]Tax, 0, len(taxes))
	for _, t := range taxes {
		if m, ok := bySrc[t.Id]; ok {
			out = append(out, m.DestTax)
			continue
		}
		out = append(out, t)
	}
	return out
}

// MapAccount translates an income account id through the position's account
// mapping.
func (fp *FiscalPosition) MapAccount(accountId uint) uint {
	if fp == nil {
		return accountId
	}
	for _, m := range fp.AccountMaps {
		if m.SrcAccountId == accountId {
			return m.DestAccountId
		}
	}
	return accountId
}
