package models

import "repairshop-backend/utils"

// Currency carries the rounding precision used for all monetary amounts
// computed against it.
type Currency struct {
	Id            uint   `json:"id" gorm:"primaryKey"`
	Name          string `json:"name" gorm:"not null"`
	Code          string `json:"code" gorm:"unique;not null;size:3"`
	Symbol        string `json:"symbol"`
	DecimalPlaces int    `json:"decimal_places" gorm:"default:2"`
}

// Round rounds v to the currency's precision.
func (c Currency) Round(v float64) float64 {
	places := c.DecimalPlaces
	if places <= 0 {
		places = 2
	}
	return utils.RoundTo(v, places)
}
