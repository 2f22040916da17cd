package services

import (
	"errors"
	"fmt"

	"repairshop-backend/models"

	"gorm.io/gorm"
)

// TaxResult is the outcome of computing a tax set over one line.
type TaxResult struct {
	TotalExcluded float64
	TotalIncluded float64
	TaxAmount     float64
}

// ComputeAll computes the tax-excluded and tax-included totals for one line.
// Price-included taxes are carved out of the base; excluded taxes are added on
// top. Each tax amount is rounded at the currency's precision.
func ComputeAll(taxes []models.Tax, priceUnit, quantity float64, currency models.Currency) TaxResult {
	base := priceUnit * quantity
	excluded := base
	taxAmount := 0.0

	for _, t := range taxes {
		rate := t.Percent / 100.0
		if rate == 0 {
			continue
		}
		var amount float64
		if t.PriceInclude {
			amount = currency.Round(base - base/(1+rate))
			excluded -= amount
		} else {
			amount = currency.Round(base * rate)
		}
		taxAmount += amount
	}

	excluded = currency.Round(excluded)
	return TaxResult{
		TotalExcluded: excluded,
		TotalIncluded: excluded + taxAmount,
		TaxAmount:     taxAmount,
	}
}

// ResolveCurrency returns the order's pricelist currency, falling back to the
// company currency.
func ResolveCurrency(order *models.RepairOrder) models.Currency {
	if order.Pricelist != nil && order.Pricelist.Currency.Id != 0 {
		return order.Pricelist.Currency
	}
	return order.Company.Currency
}

// resolveBillToPartner loads the invoicing address of the order: the explicit
// invoice partner if set, else the customer. Returns ErrMissingInvoiceAddress
// when neither resolves. The fiscal position maps are preloaded.
func resolveBillToPartner(tx *gorm.DB, order *models.RepairOrder) (*models.Partner, error) {
	partnerId := order.PartnerInvoiceId
	if partnerId == nil {
		partnerId = order.PartnerId
	}
	if partnerId == nil {
		return nil, fmt.Errorf("repair order %s: %w", order.Name, ErrMissingInvoiceAddress)
	}
	var partner models.Partner
	err := tx.
		Preload("FiscalPosition.TaxMaps.DestTax").
		Preload("FiscalPosition.AccountMaps").
		First(&partner, *partnerId).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("repair order %s: %w", order.Name, ErrMissingInvoiceAddress)
		}
		return nil, err
	}
	return &partner, nil
}

// RecomputeAmounts re-derives line subtotals/totals and the order amount
// fields from the line collections. Amounts are pure functions of the lines;
// this must run after every mutation that touches prices, quantities,
// products, taxes or the pricelist.
func RecomputeAmounts(tx *gorm.DB, orderID uint) (*models.RepairOrder, error) {
	var order models.RepairOrder
	err := tx.
		Preload("Pricelist.Currency").
		Preload("Company.Currency").
		Preload("Operations.Taxes").
		Preload("Fees.Taxes").
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("repair order %d: %w", orderID, ErrNotFound)
		}
		return nil, err
	}

	currency := ResolveCurrency(&order)

	// Fiscal-position-aware tax mapping depends on the bill-to partner. An
	// order without any partner simply computes with the line taxes as-is.
	var fpos *models.FiscalPosition
	if order.PartnerId != nil || order.PartnerInvoiceId != nil {
		billTo, err := resolveBillToPartner(tx, &order)
		if err != nil && !errors.Is(err, ErrMissingInvoiceAddress) {
			return nil, err
		}
		if billTo != nil {
			fpos = billTo.FiscalPosition
		}
	}

	untaxed := 0.0
	taxTotal := 0.0

	for i := range order.Operations {
		line := &order.Operations[i]
		res := ComputeAll(fpos.MapTaxes(line.Taxes), line.PriceUnit, line.Quantity, currency)
		line.PriceSubtotal = res.TotalExcluded
		line.PriceTotal = res.TotalIncluded
		untaxed += res.TotalExcluded
		taxTotal += res.TaxAmount
		if err := tx.Model(line).Updates(map[string]any{
			"price_subtotal": line.PriceSubtotal,
			"price_total":    line.PriceTotal,
		}).Error; err != nil {
			return nil, err
		}
	}
	for i := range order.Fees {
		fee := &order.Fees[i]
		res := ComputeAll(fpos.MapTaxes(fee.Taxes), fee.PriceUnit, fee.Quantity, currency)
		fee.PriceSubtotal = res.TotalExcluded
		fee.PriceTotal = res.TotalIncluded
		untaxed += res.TotalExcluded
		taxTotal += res.TaxAmount
		if err := tx.Model(fee).Updates(map[string]any{
			"price_subtotal": fee.PriceSubtotal,
			"price_total":    fee.PriceTotal,
		}).Error; err != nil {
			return nil, err
		}
	}

	order.AmountUntaxed = currency.Round(untaxed)
	order.AmountTax = taxTotal
	order.AmountTotal = currency.Round(order.AmountUntaxed + order.AmountTax)

	if err := tx.Model(&order).Updates(map[string]any{
		"amount_untaxed": order.AmountUntaxed,
		"amount_tax":     order.AmountTax,
		"amount_total":   order.AmountTotal,
	}).Error; err != nil {
		return nil, err
	}
	return &order, nil
}
