package controllers

import (
	"repairshop-backend/database"
	"repairshop-backend/middlewares"
	"repairshop-backend/models"
	"repairshop-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type PartnerCreateInput struct {
	Name             string `json:"name" validate:"required"`
	Address          string `json:"address"`
	City             string `json:"city"`
	Country          string `json:"country"`
	Zip              string `json:"zip"`
	Email            string `json:"email" validate:"omitempty,email"`
	PhoneNumber      string `json:"phone_number"`
	MobileNumber     string `json:"mobile_number"`
	InvoicePartnerId *uint  `json:"invoice_partner_id"`
	PricelistId      *uint  `json:"pricelist_id"`
	FiscalPositionId *uint  `json:"fiscal_position_id"`
	PaymentTermDays  int    `json:"payment_term_days" validate:"gte=0"`
}

func CreatePartner(c *fiber.Ctx) error {
	var input PartnerCreateInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}

	partner := models.Partner{
		Name:             input.Name,
		Address:          input.Address,
		City:             input.City,
		Country:          input.Country,
		Zip:              input.Zip,
		Email:            input.Email,
		PhoneNumber:      input.PhoneNumber,
		MobileNumber:     input.MobileNumber,
		InvoicePartnerId: input.InvoicePartnerId,
		PricelistId:      input.PricelistId,
		FiscalPositionId: input.FiscalPositionId,
		PaymentTermDays:  input.PaymentTermDays,
		Active:           true,
	}
	if err := db.Create(&partner).Error; err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not create partner",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(partner)
}

func GetPartners(c *fiber.Ctx) error {
	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	var partners []models.Partner
	if err := db.Where("active = ?", true).Order("name").Find(&partners).Error; err != nil {
		return err
	}
	return c.JSON(partners)
}

func GetPartner(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid partner id")
	}
	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	var partner models.Partner
	if err := db.Preload("Pricelist.Currency").Preload("FiscalPosition").First(&partner, id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "partner not found")
	}
	return c.JSON(partner)
}

// PartnerPatchInput uses pointer fields so only supplied values are written.
type PartnerPatchInput struct {
	Name             *string `json:"name"`
	Address          *string `json:"address"`
	City             *string `json:"city"`
	Country          *string `json:"country"`
	Zip              *string `json:"zip"`
	Email            *string `json:"email"`
	PhoneNumber      *string `json:"phone_number"`
	MobileNumber     *string `json:"mobile_number"`
	InvoicePartnerId *uint   `json:"invoice_partner_id"`
	PricelistId      *uint   `json:"pricelist_id"`
	FiscalPositionId *uint   `json:"fiscal_position_id"`
	PaymentTermDays  *int    `json:"payment_term_days"`
}

func UpdatePartner(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid partner id")
	}
	var input PartnerPatchInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&input)

	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	var partner models.Partner
	if err := db.First(&partner, id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "partner not found")
	}

	updates := utils.UpdatesFromPtrDTO(&input, nil)
	if len(updates) > 0 {
		if err := db.Model(&partner).Updates(updates).Error; err != nil {
			c.Status(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"message": "Could not update partner",
				"error":   err.Error(),
			})
		}
	}
	db.First(&partner, id)
	return c.JSON(partner)
}
