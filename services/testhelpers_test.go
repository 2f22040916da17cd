package services

import (
	"testing"

	"repairshop-backend/database"
	"repairshop-backend/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.AllModels()...))
	require.NoError(t, database.SeedSequences(db))
	return db
}

func seedCompany(t *testing.T, db *gorm.DB, name string) models.Company {
	t.Helper()
	currency := models.Currency{Name: "Euro", Code: "EUR", Symbol: "€", DecimalPlaces: 2}
	require.NoError(t, db.Where(models.Currency{Code: "EUR"}).FirstOrCreate(&currency).Error)
	company := models.Company{CompanyName: name, CurrencyId: currency.Id, Currency: currency}
	require.NoError(t, db.Create(&company).Error)
	return company
}

func seedPartner(t *testing.T, db *gorm.DB, name string) models.Partner {
	t.Helper()
	partner := models.Partner{Name: name, Active: true}
	require.NoError(t, db.Create(&partner).Error)
	return partner
}

func seedProduct(t *testing.T, db *gorm.DB, name string, incomeAccount *uint) models.Product {
	t.Helper()
	product := models.Product{
		Name:            name,
		Type:            models.ProductTypeGoods,
		ListPrice:       50,
		IncomeAccountId: incomeAccount,
		Active:          true,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func seedAccount(t *testing.T, db *gorm.DB, code string) models.Account {
	t.Helper()
	account := models.Account{Code: code, Name: "Income " + code}
	require.NoError(t, db.Create(&account).Error)
	return account
}

func seedTax(t *testing.T, db *gorm.DB, name string, percent float64, included bool) models.Tax {
	t.Helper()
	tax := models.Tax{Name: name, Percent: percent, PriceInclude: included, Active: true}
	require.NoError(t, db.Create(&tax).Error)
	return tax
}

type orderOpts struct {
	state         string
	invoiceMethod string
	partnerId     *uint
	notes         string
}

func seedOrder(t *testing.T, db *gorm.DB, company models.Company, name string, opts orderOpts) models.RepairOrder {
	t.Helper()
	if opts.state == "" {
		opts.state = models.RepairStateConfirmed
	}
	if opts.invoiceMethod == "" {
		opts.invoiceMethod = models.InvoiceMethodAfterRepair
	}
	order := models.RepairOrder{
		Name:           name,
		CompanyId:      company.Id,
		PartnerId:      opts.partnerId,
		State:          opts.state,
		InvoiceMethod:  opts.invoiceMethod,
		QuotationNotes: opts.notes,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func addOperation(t *testing.T, db *gorm.DB, order models.RepairOrder, name string, product models.Product, qty, price float64, taxes ...models.Tax) models.OperationLine {
	t.Helper()
	line := models.OperationLine{
		RepairId:  order.ID,
		Name:      name,
		Type:      models.OperationTypeAdd,
		ProductId: product.Id,
		Quantity:  qty,
		PriceUnit: price,
		Taxes:     taxes,
	}
	require.NoError(t, db.Create(&line).Error)
	return line
}

func addFee(t *testing.T, db *gorm.DB, order models.RepairOrder, name string, productId *uint, qty, price float64, taxes ...models.Tax) models.FeeLine {
	t.Helper()
	line := models.FeeLine{
		RepairId:  order.ID,
		Name:      name,
		ProductId: productId,
		Quantity:  qty,
		PriceUnit: price,
		Taxes:     taxes,
	}
	require.NoError(t, db.Create(&line).Error)
	return line
}
