package database

import (
	"fmt"
	"log"
	"os"

	"repairshop-backend/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func Connect() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		envDefault("DB_HOST", "db"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		envDefault("DB_PORT", "5432"),
		envDefault("DB_SSLMODE", "disable"))

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
}

// AllModels lists every persisted entity in migration order (referenced
// tables first). Shared with the test setup so sqlite fixtures stay in sync.
func AllModels() []any {
	return []any{
		&models.Currency{},
		&models.Company{},
		&models.User{},
		&models.Pricelist{},
		&models.Tax{},
		&models.Account{},
		&models.FiscalPosition{},
		&models.FiscalPositionTaxMap{},
		&models.FiscalPositionAccountMap{},
		&models.Product{},
		&models.Partner{},
		&models.Supplier{},
		&models.Sequence{},
		&models.Invoice{},
		&models.InvoiceLine{},
		&models.RepairOrder{},
		&models.OperationLine{},
		&models.FeeLine{},
		&models.JobCard{},
		&models.IdempotencyKey{},
	}
}

func AutoMigrate() {
	if err := DB.AutoMigrate(AllModels()...); err != nil {
		log.Fatalf("automigrate failed: %v", err)
	}
	if err := SeedSequences(DB); err != nil {
		log.Fatalf("sequence seed failed: %v", err)
	}
}

// SeedSequences makes sure the reference-number sequences exist with their
// conventional prefixes. Idempotent.
func SeedSequences(db *gorm.DB) error {
	seeds := []models.Sequence{
		{Code: "job.card", Prefix: "JC/", Padding: 5, NextNumber: 1},
		{Code: "repair.order", Prefix: "RO/", Padding: 5, NextNumber: 1},
	}
	for _, seed := range seeds {
		var existing models.Sequence
		if err := db.Where(models.Sequence{Code: seed.Code}).
			Attrs(seed).
			FirstOrCreate(&existing).Error; err != nil {
			return err
		}
	}
	return nil
}
