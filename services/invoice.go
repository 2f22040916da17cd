package services

import (
	"errors"
	"fmt"
	"strings"

	"repairshop-backend/models"
	"repairshop-backend/utils"

	"gorm.io/gorm"
)

// InvoiceService turns eligible repair orders into grouped customer invoices.
type InvoiceService struct{}

func NewInvoiceService() *InvoiceService { return &InvoiceService{} }

// groupKey is the invoice grouping axis: drafts never mix bill-to partners,
// currencies or companies.
type groupKey struct {
	PartnerId  uint
	CurrencyId uint
	CompanyId  string
}

// invoiceDraft accumulates one invoice plus the source records to flag as
// invoiced once the batch create succeeds.
type invoiceDraft struct {
	key       groupKey
	invoice   *models.Invoice
	currency  models.Currency
	repairIds []uint
}

// BuildInvoices creates invoices for the given repair orders. Orders in
// draft/cancel state, already linked to an invoice, or with invoice method
// "none" are silently skipped. With groupByPartner, orders sharing the same
// (bill-to partner, currency, company) merge into one invoice.
//
// Invoice creation and the invoiced-flag writes run inside the caller's
// transaction, so a failing batch leaves no order half-marked.
//
// Returns a map of repair order id to created invoice id.
func (s *InvoiceService) BuildInvoices(tx *gorm.DB, orderIDs []uint, groupByPartner bool) (map[uint]uint, error) {
	var orders []models.RepairOrder
	err := tx.
		Preload("Pricelist.Currency").
		Preload("Company.Currency").
		Preload("Operations.Taxes").
		Preload("Operations.Product").
		Preload("Fees.Taxes").
		Preload("Fees.Product").
		Where("id IN ?", orderIDs).
		Order("id").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	drafts := make([]*invoiceDraft, 0, len(orders))
	byKey := make(map[groupKey][]*invoiceDraft)

	for i := range orders {
		order := &orders[i]
		if order.State == models.RepairStateDraft || order.State == models.RepairStateCancel {
			continue
		}
		if order.InvoiceId != nil || order.InvoiceMethod == models.InvoiceMethodNone {
			continue
		}

		billTo, err := resolveBillToPartner(tx, order)
		if err != nil {
			return nil, err
		}
		fpos := billTo.FiscalPosition
		currency := ResolveCurrency(order)

		narration := order.QuotationNotes
		if utils.IsHTMLEmpty(narration) {
			narration = ""
		}

		key := groupKey{PartnerId: billTo.Id, CurrencyId: currency.Id, CompanyId: order.CompanyId}

		var draft *invoiceDraft
		if !groupByPartner || len(byKey[key]) == 0 {
			inv := &models.Invoice{
				MoveType:        "out_invoice",
				CompanyId:       order.CompanyId,
				PartnerId:       billTo.Id,
				CurrencyId:      currency.Id,
				InvoiceOrigin:   order.Name,
				Narration:       narration,
				PaymentTermDays: billTo.PaymentTermDays,
				State:           "draft",
			}
			if fpos != nil {
				inv.FiscalPositionId = &fpos.Id
			}
			draft = &invoiceDraft{key: key, invoice: inv, currency: currency}
			drafts = append(drafts, draft)
			byKey[key] = append(byKey[key], draft)
		} else {
			draft = byKey[key][0]
			draft.invoice.InvoiceOrigin += ", " + order.Name
			if narration != "" {
				if draft.invoice.Narration == "" {
					draft.invoice.Narration = narration
				} else {
					draft.invoice.Narration += "<br/>" + narration
				}
			}
		}

		lines, err := s.buildLines(order, fpos, groupByPartner)
		if err != nil {
			return nil, err
		}
		draft.invoice.Lines = append(draft.invoice.Lines, lines...)
		draft.repairIds = append(draft.repairIds, order.ID)
	}

	// Totals are derived once the line set of each draft is final.
	for _, d := range drafts {
		subtotal, taxTotal := 0.0, 0.0
		for _, l := range d.invoice.Lines {
			res := ComputeAll(l.Taxes, l.PriceUnit, l.Quantity, d.currency)
			subtotal += res.TotalExcluded
			taxTotal += res.TaxAmount
		}
		d.invoice.Subtotal = d.currency.Round(subtotal)
		d.invoice.TaxTotal = taxTotal
		d.invoice.Total = d.currency.Round(d.invoice.Subtotal + d.invoice.TaxTotal)
	}

	// One batch create per company; drafts never mix companies.
	perCompany := make(map[string][]*invoiceDraft)
	companyOrder := make([]string, 0)
	for _, d := range drafts {
		if _, seen := perCompany[d.key.CompanyId]; !seen {
			companyOrder = append(companyOrder, d.key.CompanyId)
		}
		perCompany[d.key.CompanyId] = append(perCompany[d.key.CompanyId], d)
	}
	for _, companyId := range companyOrder {
		batch := make([]*models.Invoice, 0, len(perCompany[companyId]))
		for _, d := range perCompany[companyId] {
			batch = append(batch, d.invoice)
		}
		if err := tx.Create(&batch).Error; err != nil {
			return nil, fmt.Errorf("create invoices for company %s: %w", companyId, err)
		}
	}

	// Flag everything invoiced and wire the back-references.
	result := make(map[uint]uint)
	for _, d := range drafts {
		if err := tx.Model(&models.RepairOrder{}).
			Where("id IN ?", d.repairIds).
			Updates(map[string]any{"invoice_id": d.invoice.ID, "invoiced": true}).Error; err != nil {
			return nil, err
		}
		for _, rid := range d.repairIds {
			result[rid] = d.invoice.ID
		}
		for _, l := range d.invoice.Lines {
			if l.OperationLineId != nil {
				if err := tx.Model(&models.OperationLine{}).
					Where("id = ?", *l.OperationLineId).
					Updates(map[string]any{"invoiced": true, "invoice_line_id": l.ID}).Error; err != nil {
					return nil, err
				}
			}
			if l.FeeLineId != nil {
				if err := tx.Model(&models.FeeLine{}).
					Where("id = ?", *l.FeeLineId).
					Updates(map[string]any{"invoiced": true, "invoice_line_id": l.ID}).Error; err != nil {
					return nil, err
				}
			}
		}
	}
	return result, nil
}

// buildLines produces the invoice line drafts for one order: every "add"
// operation line plus every fee line. When the order already carries a
// diagnostic invoice, lines labelled DIAGNOSIS are left off the final
// invoice so the diagnosis fee is not billed twice.
func (s *InvoiceService) buildLines(order *models.RepairOrder, fpos *models.FiscalPosition, grouped bool) ([]models.InvoiceLine, error) {
	lines := make([]models.InvoiceLine, 0, len(order.Operations)+len(order.Fees))

	skipDiagnosis := order.DiagnosticInvoiceId != nil

	for i := range order.Operations {
		op := &order.Operations[i]
		if op.Type != models.OperationTypeAdd {
			continue
		}
		if skipDiagnosis && strings.Contains(strings.ToUpper(op.Name), "DIAGNOSIS") {
			continue
		}
		accountId, err := resolveIncomeAccount(&op.Product, fpos)
		if err != nil {
			return nil, err
		}
		name := op.Name
		if grouped {
			name = order.Name + "-" + op.Name
		}
		pid := op.ProductId
		opId := op.ID
		lines = append(lines, models.InvoiceLine{
			Name:            name,
			AccountId:       accountId,
			ProductId:       &pid,
			Quantity:        op.Quantity,
			PriceUnit:       op.PriceUnit,
			Taxes:           fpos.MapTaxes(op.Taxes),
			OperationLineId: &opId,
		})
	}

	for i := range order.Fees {
		fee := &order.Fees[i]
		if skipDiagnosis && strings.Contains(strings.ToUpper(fee.Name), "DIAGNOSIS") {
			continue
		}
		if fee.ProductId == nil || fee.Product == nil {
			return nil, fmt.Errorf("repair order %s, fee %q: %w", order.Name, fee.Name, ErrMissingFeeProduct)
		}
		accountId, err := resolveIncomeAccount(fee.Product, fpos)
		if err != nil {
			return nil, err
		}
		name := fee.Name
		if grouped {
			name = order.Name + "-" + fee.Name
		}
		feeId := fee.ID
		lines = append(lines, models.InvoiceLine{
			Name:      name,
			AccountId: accountId,
			ProductId: fee.ProductId,
			Quantity:  fee.Quantity,
			PriceUnit: fee.PriceUnit,
			Taxes:     fpos.MapTaxes(fee.Taxes),
			FeeLineId: &feeId,
		})
	}
	return lines, nil
}

// resolveIncomeAccount returns the product's income account, remapped through
// the fiscal position when one applies.
func resolveIncomeAccount(product *models.Product, fpos *models.FiscalPosition) (uint, error) {
	if product == nil || product.IncomeAccountId == nil {
		name := ""
		if product != nil {
			name = product.Name
		}
		return 0, fmt.Errorf("product %q: %w", name, ErrNoAccountConfigured)
	}
	return fpos.MapAccount(*product.IncomeAccountId), nil
}

// CreateInvoices is the "make invoices" action: build the invoices, then move
// each invoiced order forward according to its invoice method (before-repair
// orders to confirmed, after-repair orders to done).
func (s *InvoiceService) CreateInvoices(tx *gorm.DB, orderIDs []uint, groupByPartner bool) (map[uint]uint, error) {
	result, err := s.BuildInvoices(tx, orderIDs, groupByPartner)
	if err != nil {
		return nil, err
	}
	for orderId := range result {
		var order models.RepairOrder
		if err := tx.First(&order, orderId).Error; err != nil {
			return nil, err
		}
		switch order.InvoiceMethod {
		case models.InvoiceMethodB4Repair:
			err = tx.Model(&order).Update("state", models.RepairStateConfirmed).Error
		case models.InvoiceMethodAfterRepair:
			err = tx.Model(&order).Updates(map[string]any{
				"state":    models.RepairStateDone,
				"repaired": true,
			}).Error
		}
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// CreateDiagnosticInvoice bills the up-front diagnosis fee for one order and
// links it as the order's diagnostic invoice. The invoice goes to the
// customer in the company currency with a single fee line.
func (s *InvoiceService) CreateDiagnosticInvoice(tx *gorm.DB, orderID uint, feeAmount float64) (*models.Invoice, error) {
	var order models.RepairOrder
	err := tx.Preload("Company.Currency").First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("repair order %d: %w", orderID, ErrNotFound)
		}
		return nil, err
	}
	if order.PartnerId == nil {
		return nil, fmt.Errorf("repair order %s: %w", order.Name, ErrMissingInvoiceAddress)
	}

	currency := order.Company.Currency
	amount := currency.Round(feeAmount)
	inv := models.Invoice{
		MoveType:      "out_invoice",
		CompanyId:     order.CompanyId,
		PartnerId:     *order.PartnerId,
		CurrencyId:    currency.Id,
		InvoiceOrigin: order.Name,
		Narration:     "Diagnostic Invoice",
		State:         "draft",
		Subtotal:      amount,
		Total:         amount,
		Lines: []models.InvoiceLine{{
			Name:      "Diagnosing the issue",
			Quantity:  1,
			PriceUnit: amount,
		}},
	}
	if err := tx.Create(&inv).Error; err != nil {
		return nil, fmt.Errorf("create diagnostic invoice: %w", err)
	}
	if err := tx.Model(&order).Update("diagnostic_invoice_id", inv.ID).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}
