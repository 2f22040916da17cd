package controllers

import (
	"os"
	"strconv"

	"repairshop-backend/database"
	"repairshop-backend/middlewares"
	"repairshop-backend/models"
	"repairshop-backend/services"

	"github.com/gofiber/fiber/v2"
)

var invoices = services.NewInvoiceService()

const defaultDiagnosisFee = 200.0

type MakeInvoicesInput struct {
	RepairOrderIds []uint `json:"repair_order_ids" validate:"required,min=1"`
	GroupByPartner bool   `json:"group_by_partner"`
}

// MakeInvoices is the invoicing action over a selection of repair orders.
// Responds with a map of repair order id to the invoice it landed on.
func MakeInvoices(c *fiber.Ctx) error {
	var input MakeInvoicesInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	result, err := invoices.CreateInvoices(db, input.RepairOrderIds, input.GroupByPartner)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"invoiced": result})
}

func GetInvoices(c *fiber.Ctx) error {
	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	companyId, _ := c.Locals("companyID").(string)
	var list []models.Invoice
	if err := db.Preload("Partner").Where("company_id = ?", companyId).Order("id desc").Find(&list).Error; err != nil {
		return err
	}
	return c.JSON(list)
}

func GetInvoice(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid invoice id")
	}
	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	var invoice models.Invoice
	err = db.
		Preload("Partner").
		Preload("Currency").
		Preload("Lines.Taxes").
		First(&invoice, id).Error
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "invoice not found")
	}
	return c.JSON(invoice)
}

type DiagnosticInvoiceInput struct {
	Fee *float64 `json:"fee" validate:"omitempty,gt=0"`
}

// CreateDiagnosticInvoice bills the up-front diagnosis fee for one repair
// order. The amount comes from the request, falling back to the
// DIAGNOSIS_FEE environment setting.
func CreateDiagnosticInvoice(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid repair order id")
	}
	// The fee override is optional; an empty body means "use the default".
	var input DiagnosticInvoiceInput
	if len(c.Body()) > 0 {
		if err := middlewares.BindAndValidate(c, &input); err != nil {
			return err
		}
	}

	fee := diagnosisFee()
	if input.Fee != nil {
		fee = *input.Fee
	}

	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	invoice, err := invoices.CreateDiagnosticInvoice(db, uint(id), fee)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

func diagnosisFee() float64 {
	if v := os.Getenv("DIAGNOSIS_FEE"); v != "" {
		if fee, err := strconv.ParseFloat(v, 64); err == nil && fee > 0 {
			return fee
		}
	}
	return defaultDiagnosisFee
}
