package services

import (
	"testing"

	"repairshop-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var eur = models.Currency{Name: "Euro", Code: "EUR", DecimalPlaces: 2}

func TestComputeAllNoTaxes(t *testing.T) {
	res := ComputeAll(nil, 50, 2, eur)
	assert.Equal(t, 100.0, res.TotalExcluded)
	assert.Equal(t, 100.0, res.TotalIncluded)
	assert.Equal(t, 0.0, res.TaxAmount)
}

func TestComputeAllExcludedTax(t *testing.T) {
	vat := models.Tax{Name: "VAT 19%", Percent: 19}
	res := ComputeAll([]models.Tax{vat}, 50, 2, eur)
	assert.Equal(t, 100.0, res.TotalExcluded)
	assert.Equal(t, 19.0, res.TaxAmount)
	assert.Equal(t, 119.0, res.TotalIncluded)
}

func TestComputeAllPriceIncludedTax(t *testing.T) {
	vat := models.Tax{Name: "VAT 19% incl", Percent: 19, PriceInclude: true}
	res := ComputeAll([]models.Tax{vat}, 119, 1, eur)
	assert.Equal(t, 100.0, res.TotalExcluded)
	assert.Equal(t, 19.0, res.TaxAmount)
	assert.Equal(t, 119.0, res.TotalIncluded)
}

func TestComputeAllRoundsPerTax(t *testing.T) {
	vat := models.Tax{Name: "VAT 7%", Percent: 7}
	// 33.33 * 0.07 = 2.3331, rounded to 2.33 at currency precision.
	res := ComputeAll([]models.Tax{vat}, 33.33, 1, eur)
	assert.Equal(t, 33.33, res.TotalExcluded)
	assert.Equal(t, 2.33, res.TaxAmount)
}

func TestRecomputeAmountsSimpleOrder(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "Acme Repairs")
	product := seedProduct(t, db, "Compressor", nil)
	order := seedOrder(t, db, company, "RO/00001", orderOpts{})
	addOperation(t, db, order, "Replace compressor", product, 2, 50)

	got, err := RecomputeAmounts(db, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.AmountUntaxed)
	assert.Equal(t, 0.0, got.AmountTax)
	assert.Equal(t, 100.0, got.AmountTotal)

	// Line subtotals are persisted, not just returned.
	var line models.OperationLine
	require.NoError(t, db.Where("repair_id = ?", order.ID).First(&line).Error)
	assert.Equal(t, 100.0, line.PriceSubtotal)
	assert.Equal(t, 100.0, line.PriceTotal)
}

func TestRecomputeAmountsWithTaxAndFee(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "Acme Repairs")
	vat := seedTax(t, db, "VAT 19%", 19, false)
	product := seedProduct(t, db, "Compressor", nil)
	labour := seedProduct(t, db, "Labour", nil)
	order := seedOrder(t, db, company, "RO/00001", orderOpts{})
	addOperation(t, db, order, "Replace compressor", product, 2, 50, vat)
	addFee(t, db, order, "Call-out fee", &labour.Id, 1, 30)

	got, err := RecomputeAmounts(db, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 130.0, got.AmountUntaxed)
	assert.Equal(t, 19.0, got.AmountTax)
	assert.Equal(t, 149.0, got.AmountTotal)
}

func TestRecomputeAmountsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "Acme Repairs")
	vat := seedTax(t, db, "VAT 19%", 19, false)
	product := seedProduct(t, db, "Board", nil)
	order := seedOrder(t, db, company, "RO/00001", orderOpts{})
	addOperation(t, db, order, "Replace board", product, 3, 33.33, vat)

	first, err := RecomputeAmounts(db, order.ID)
	require.NoError(t, err)
	second, err := RecomputeAmounts(db, order.ID)
	require.NoError(t, err)
	assert.Equal(t, first.AmountUntaxed, second.AmountUntaxed)
	assert.Equal(t, first.AmountTax, second.AmountTax)
	assert.Equal(t, first.AmountTotal, second.AmountTotal)
}

func TestRecomputeAmountsFiscalPositionRemapsTaxes(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "Acme Repairs")
	vat19 := seedTax(t, db, "VAT 19%", 19, false)
	vat7 := seedTax(t, db, "VAT 7%", 7, false)

	fpos := models.FiscalPosition{
		Name:    "Reduced rate",
		TaxMaps: []models.FiscalPositionTaxMap{{SrcTaxId: vat19.Id, DestTaxId: vat7.Id}},
	}
	require.NoError(t, db.Create(&fpos).Error)
	partner := models.Partner{Name: "Reduced Customer", FiscalPositionId: &fpos.Id, Active: true}
	require.NoError(t, db.Create(&partner).Error)

	product := seedProduct(t, db, "Motor", nil)
	order := seedOrder(t, db, company, "RO/00001", orderOpts{partnerId: &partner.Id})
	addOperation(t, db, order, "Replace motor", product, 1, 100, vat19)

	got, err := RecomputeAmounts(db, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.AmountUntaxed)
	assert.Equal(t, 7.0, got.AmountTax)
	assert.Equal(t, 107.0, got.AmountTotal)
}

func TestResolveCurrencyPrefersPricelist(t *testing.T) {
	usd := models.Currency{Id: 7, Code: "USD", DecimalPlaces: 2}
	order := models.RepairOrder{
		Pricelist: &models.Pricelist{Currency: usd},
		Company:   models.Company{Currency: models.Currency{Id: 1, Code: "EUR"}},
	}
	assert.Equal(t, "USD", ResolveCurrency(&order).Code)

	order.Pricelist = nil
	assert.Equal(t, "EUR", ResolveCurrency(&order).Code)
}
