package database

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate applies (idempotent) schema hardening beyond AutoMigrate:
// - Money column types (NUMERIC(12,2))
// - Helpful indexes on the repair/invoicing tables
// - Foreign key: operation_lines.product_id → products.id
// - Basic CHECK constraints (non-negative quantities and prices)
// Postgres only; the sqlite test databases rely on AutoMigrate alone.
func Migrate() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		// --- Enforce money columns as NUMERIC(12,2) (idempotent ALTERs) ---
		alters := []string{
			`ALTER TABLE products        ALTER COLUMN list_price     TYPE numeric(12,2)`,
			`ALTER TABLE operation_lines ALTER COLUMN price_unit     TYPE numeric(12,2)`,
			`ALTER TABLE operation_lines ALTER COLUMN price_subtotal TYPE numeric(12,2)`,
			`ALTER TABLE operation_lines ALTER COLUMN price_total    TYPE numeric(12,2)`,
			`ALTER TABLE fee_lines       ALTER COLUMN price_unit     TYPE numeric(12,2)`,
			`ALTER TABLE fee_lines       ALTER COLUMN price_subtotal TYPE numeric(12,2)`,
			`ALTER TABLE fee_lines       ALTER COLUMN price_total    TYPE numeric(12,2)`,
			`ALTER TABLE repair_orders   ALTER COLUMN amount_untaxed TYPE numeric(12,2)`,
			`ALTER TABLE repair_orders   ALTER COLUMN amount_tax     TYPE numeric(12,2)`,
			`ALTER TABLE repair_orders   ALTER COLUMN amount_total   TYPE numeric(12,2)`,
			`ALTER TABLE invoices        ALTER COLUMN subtotal       TYPE numeric(12,2)`,
			`ALTER TABLE invoices        ALTER COLUMN tax_total      TYPE numeric(12,2)`,
			`ALTER TABLE invoices        ALTER COLUMN total          TYPE numeric(12,2)`,
			`ALTER TABLE invoice_lines   ALTER COLUMN price_unit     TYPE numeric(12,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Composite / helpful indexes (idempotent) ---
		indexes := []string{
			`CREATE INDEX IF NOT EXISTS idx_repair_orders_state_method ON repair_orders (state, invoice_method)`,
			`CREATE INDEX IF NOT EXISTS idx_operation_lines_repair ON operation_lines (repair_id)`,
			`CREATE INDEX IF NOT EXISTS idx_fee_lines_repair ON fee_lines (repair_id)`,
			`CREATE INDEX IF NOT EXISTS idx_job_cards_repair_order ON job_cards (repair_order_id)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_job_cards_reference ON job_cards (reference)`,
			`CREATE INDEX IF NOT EXISTS idx_invoice_lines_invoice ON invoice_lines (invoice_id)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_idempotency_keys_key ON idempotency_keys (key)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Foreign key: operation_lines.product_id -> products.id ---
		fk := `
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1
		FROM pg_constraint
		WHERE conrelid = 'operation_lines'::regclass
		  AND conname  = 'fk_operation_lines_product'
	) THEN
		ALTER TABLE operation_lines
		ADD CONSTRAINT fk_operation_lines_product
		FOREIGN KEY (product_id)
		REFERENCES products(id)
		ON UPDATE RESTRICT
		ON DELETE RESTRICT;
	END IF;
END $$;`
		if err := tx.Exec(fk).Error; err != nil {
			return fmt.Errorf("foreign key migration failed: %w", err)
		}

		// --- Basic CHECK constraints (idempotent) ---
		checks := []string{
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'operation_lines'::regclass
					  AND conname  = 'chk_operation_lines_qty_nonneg'
				) THEN
					ALTER TABLE operation_lines
					ADD CONSTRAINT chk_operation_lines_qty_nonneg
					CHECK (quantity >= 0);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'fee_lines'::regclass
					  AND conname  = 'chk_fee_lines_qty_nonneg'
				) THEN
					ALTER TABLE fee_lines
					ADD CONSTRAINT chk_fee_lines_qty_nonneg
					CHECK (quantity >= 0);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'products'::regclass
					  AND conname  = 'chk_products_list_price_nonneg'
				) THEN
					ALTER TABLE products
					ADD CONSTRAINT chk_products_list_price_nonneg
					CHECK (list_price >= 0);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}
