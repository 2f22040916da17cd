package controllers

import (
	"time"

	"repairshop-backend/database"
	"repairshop-backend/middlewares"
	"repairshop-backend/models"
	"repairshop-backend/services"
	"repairshop-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type OperationLineInput struct {
	Name      string  `json:"name" validate:"required"`
	Type      string  `json:"type" validate:"omitempty,oneof=add remove"`
	ProductId uint    `json:"product_id" validate:"required"`
	Quantity  float64 `json:"quantity" validate:"gt=0"`
	PriceUnit float64 `json:"price_unit" validate:"gte=0"`
	TaxIds    []uint  `json:"tax_ids"`
}

type FeeLineInput struct {
	Name      string  `json:"name" validate:"required"`
	ProductId *uint   `json:"product_id"`
	Quantity  float64 `json:"quantity" validate:"gt=0"`
	PriceUnit float64 `json:"price_unit" validate:"gte=0"`
	TaxIds    []uint  `json:"tax_ids"`
}

type RepairOrderCreateInput struct {
	PartnerId        *uint  `json:"partner_id"`
	PartnerInvoiceId *uint  `json:"partner_invoice_id"`
	PricelistId      *uint  `json:"pricelist_id"`
	InvoiceMethod    string `json:"invoice_method" validate:"omitempty,invoicemethod"`

	ProductId      *uint  `json:"product_id"`
	ProductBarcode string `json:"product_bar_code"`
	Description    string `json:"description"`
	QuotationNotes string `json:"quotation_notes"`

	CustomerReference string `json:"customer_reference"`
	ClientOrderRef    string `json:"client_order_ref"`
	ManualJobCard     string `json:"manual_job_card"`

	TechnicianId *string `json:"technician_id"`

	ApplianceSerialNumber string     `json:"appliance_serial_number"`
	ApplianceBrand        string     `json:"appliance_brand"`
	ApplianceModel        string     `json:"appliance_model"`
	SupplierId            *uint      `json:"supplier_id"`
	SupplierInvoiceRef    string     `json:"supplier_invoice_ref"`
	PurchaseDate          *time.Time `json:"purchase_date"`
	WarrantyStatus        string     `json:"warranty_status" validate:"omitempty,oneof=unknown in_warranty out_of_warranty"`
	ConditionOnReceipt    string     `json:"condition_on_receipt" validate:"omitempty,oneof=poor fair good excellent"`
	AccessoriesReceived   string     `json:"accessories_received"`

	Operations []OperationLineInput `json:"operations"`
	Fees       []FeeLineInput       `json:"fees"`
}

func loadTaxes(c *fiber.Ctx, ids []uint) ([]models.Tax, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	tx, err := database.GetRequestDB(c)
	if err != nil {
		return nil, err
	}
	var taxes []models.Tax
	if err := tx.Where("id IN ?", ids).Find(&taxes).Error; err != nil {
		return nil, err
	}
	return taxes, nil
}

func CreateRepairOrder(c *fiber.Ctx) error {
	var input RepairOrderCreateInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	for i := range input.Operations {
		if err := middlewares.ValidateStruct(&input.Operations[i]); err != nil {
			return err
		}
	}
	for i := range input.Fees {
		if err := middlewares.ValidateStruct(&input.Fees[i]); err != nil {
			return err
		}
	}

	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	companyId, _ := c.Locals("companyID").(string)

	name, err := services.NextByCode(db, services.SequenceRepairOrder)
	if err != nil {
		return err
	}

	invoiceMethod := input.InvoiceMethod
	if invoiceMethod == "" {
		invoiceMethod = models.InvoiceMethodNone
	}
	warranty := input.WarrantyStatus
	if warranty == "" {
		warranty = "unknown"
	}
	condition := input.ConditionOnReceipt
	if condition == "" {
		condition = "fair"
	}

	order := models.RepairOrder{
		Name:                  name,
		CompanyId:             companyId,
		PartnerId:             input.PartnerId,
		PartnerInvoiceId:      input.PartnerInvoiceId,
		PricelistId:           input.PricelistId,
		State:                 models.RepairStateDraft,
		InvoiceMethod:         invoiceMethod,
		ProductId:             input.ProductId,
		ProductBarcode:        input.ProductBarcode,
		Description:           input.Description,
		QuotationNotes:        input.QuotationNotes,
		CustomerReference:     input.CustomerReference,
		ClientOrderRef:        input.ClientOrderRef,
		ManualJobCard:         input.ManualJobCard,
		TechnicianId:          input.TechnicianId,
		ApplianceSerialNumber: input.ApplianceSerialNumber,
		ApplianceBrand:        input.ApplianceBrand,
		ApplianceModel:        input.ApplianceModel,
		SupplierId:            input.SupplierId,
		SupplierInvoiceRef:    input.SupplierInvoiceRef,
		PurchaseDate:          input.PurchaseDate,
		WarrantyStatus:        warranty,
		ConditionOnReceipt:    condition,
		AccessoriesReceived:   input.AccessoriesReceived,
	}

	for _, op := range input.Operations {
		taxes, err := loadTaxes(c, op.TaxIds)
		if err != nil {
			return err
		}
		opType := op.Type
		if opType == "" {
			opType = models.OperationTypeAdd
		}
		order.Operations = append(order.Operations, models.OperationLine{
			Name:      op.Name,
			Type:      opType,
			ProductId: op.ProductId,
			Quantity:  op.Quantity,
			PriceUnit: op.PriceUnit,
			Taxes:     taxes,
		})
	}
	for _, fee := range input.Fees {
		taxes, err := loadTaxes(c, fee.TaxIds)
		if err != nil {
			return err
		}
		order.Fees = append(order.Fees, models.FeeLine{
			Name:      fee.Name,
			ProductId: fee.ProductId,
			Quantity:  fee.Quantity,
			PriceUnit: fee.PriceUnit,
			Taxes:     taxes,
		})
	}

	if err := db.Create(&order).Error; err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not create repair order",
			"error":   err.Error(),
		})
	}

	recomputed, err := services.RecomputeAmounts(db, order.ID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(recomputed)
}

func GetRepairOrders(c *fiber.Ctx) error {
	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	companyId, _ := c.Locals("companyID").(string)

	q := db.Preload("Partner").Where("company_id = ?", companyId)
	if state := c.Query("state"); state != "" {
		if !models.ValidRepairState(state) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid state filter")
		}
		q = q.Where("state = ?", state)
	}
	var orders []models.RepairOrder
	if err := q.Order("id desc").Find(&orders).Error; err != nil {
		return err
	}
	return c.JSON(orders)
}

func GetRepairOrder(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid repair order id")
	}
	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	var order models.RepairOrder
	err = db.
		Preload("Partner").
		Preload("Pricelist.Currency").
		Preload("Product").
		Preload("Operations.Taxes").
		Preload("Operations.Product").
		Preload("Fees.Taxes").
		Preload("Fees.Product").
		First(&order, id).Error
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "repair order not found")
	}
	return c.JSON(order)
}

type RepairOrderPatchInput struct {
	PartnerId        *uint   `json:"partner_id"`
	PartnerInvoiceId *uint   `json:"partner_invoice_id"`
	PricelistId      *uint   `json:"pricelist_id"`
	InvoiceMethod    *string `json:"invoice_method" validate:"omitempty,invoicemethod"`
	ProductId        *uint   `json:"product_id"`
	ProductBarcode   *string `json:"product_bar_code"`
	Description      *string `json:"description"`
	QuotationNotes   *string `json:"quotation_notes"`
	TechnicianId     *string `json:"technician_id"`

	ApplianceSerialNumber *string    `json:"appliance_serial_number"`
	ApplianceBrand        *string    `json:"appliance_brand"`
	ApplianceModel        *string    `json:"appliance_model"`
	SupplierId            *uint      `json:"supplier_id"`
	SupplierInvoiceRef    *string    `json:"supplier_invoice_ref"`
	PurchaseDate          *time.Time `json:"purchase_date"`
	WarrantyStatus        *string    `json:"warranty_status" validate:"omitempty,oneof=unknown in_warranty out_of_warranty"`
	ConditionOnReceipt    *string    `json:"condition_on_receipt" validate:"omitempty,oneof=poor fair good excellent"`
	AccessoriesReceived   *string    `json:"accessories_received"`
}

func UpdateRepairOrder(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid repair order id")
	}
	var input RepairOrderPatchInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&input)

	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	var order models.RepairOrder
	if err := db.First(&order, id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "repair order not found")
	}

	updates := utils.UpdatesFromPtrDTO(&input, nil)
	if len(updates) > 0 {
		if err := db.Model(&order).Updates(updates).Error; err != nil {
			c.Status(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"message": "Could not update repair order",
				"error":   err.Error(),
			})
		}
	}

	recomputed, err := services.RecomputeAmounts(db, order.ID)
	if err != nil {
		return err
	}
	return c.JSON(recomputed)
}

type RepairStateInput struct {
	State string `json:"state" validate:"required,repairstate"`
}

func UpdateRepairOrderState(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid repair order id")
	}
	var input RepairStateInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	var order models.RepairOrder
	if err := db.First(&order, id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "repair order not found")
	}
	if err := db.Model(&order).Update("state", input.State).Error; err != nil {
		return err
	}
	return c.JSON(order)
}

func AddOperationLine(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid repair order id")
	}
	var input OperationLineInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	var order models.RepairOrder
	if err := db.First(&order, id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "repair order not found")
	}

	taxes, err := loadTaxes(c, input.TaxIds)
	if err != nil {
		return err
	}
	opType := input.Type
	if opType == "" {
		opType = models.OperationTypeAdd
	}
	line := models.OperationLine{
		RepairId:  order.ID,
		Name:      input.Name,
		Type:      opType,
		ProductId: input.ProductId,
		Quantity:  input.Quantity,
		PriceUnit: input.PriceUnit,
		Taxes:     taxes,
	}
	if err := db.Create(&line).Error; err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not add operation line",
			"error":   err.Error(),
		})
	}

	recomputed, err := services.RecomputeAmounts(db, order.ID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(recomputed)
}

func AddFeeLine(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid repair order id")
	}
	var input FeeLineInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	var order models.RepairOrder
	if err := db.First(&order, id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "repair order not found")
	}

	taxes, err := loadTaxes(c, input.TaxIds)
	if err != nil {
		return err
	}
	line := models.FeeLine{
		RepairId:  order.ID,
		Name:      input.Name,
		ProductId: input.ProductId,
		Quantity:  input.Quantity,
		PriceUnit: input.PriceUnit,
		Taxes:     taxes,
	}
	if err := db.Create(&line).Error; err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not add fee line",
			"error":   err.Error(),
		})
	}

	recomputed, err := services.RecomputeAmounts(db, order.ID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(recomputed)
}

type DiagnosisReportInput struct {
	FaultDescription string `json:"fault_description"`
	DiagnosisNotes   string `json:"diagnosis_notes" validate:"required"`
	RootCause        string `json:"root_cause"`
}

// UpdateDiagnosisReport records the technician's findings on the order itself
// and stamps who diagnosed it and when.
func UpdateDiagnosisReport(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid repair order id")
	}
	var input DiagnosisReportInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	var order models.RepairOrder
	if err := db.First(&order, id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "repair order not found")
	}

	now := time.Now().UTC()
	updates := map[string]any{
		"fault_description": input.FaultDescription,
		"diagnosis_notes":   input.DiagnosisNotes,
		"root_cause":        input.RootCause,
		"diagnosis_date":    &now,
	}
	if userId, ok := c.Locals("userID").(string); ok && userId != "" {
		updates["diagnosed_by_id"] = userId
	}
	if err := db.Model(&order).Updates(updates).Error; err != nil {
		return err
	}
	db.First(&order, id)
	return c.JSON(order)
}
