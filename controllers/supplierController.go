package controllers

import (
	"repairshop-backend/database"
	"repairshop-backend/middlewares"
	"repairshop-backend/models"
	"repairshop-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type SupplierInput struct {
	CompanyName  string `json:"company_name" validate:"required"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Country      string `json:"country"`
	Zip          string `json:"zip"`
	Email        string `json:"email" validate:"required,email"`
	PhoneNumber  string `json:"phone_number"`
	MobileNumber string `json:"mobile_number"`
}

func CreateSupplier(c *fiber.Ctx) error {
	var input SupplierInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	supplier := models.Supplier{
		CompanyName:  input.CompanyName,
		Address:      input.Address,
		City:         input.City,
		Country:      input.Country,
		Zip:          input.Zip,
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		MobileNumber: input.MobileNumber,
	}
	if err := db.Create(&supplier).Error; err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not create supplier",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(supplier)
}

func GetSuppliers(c *fiber.Ctx) error {
	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	var suppliers []models.Supplier
	if err := db.Order("company_name").Find(&suppliers).Error; err != nil {
		return err
	}
	return c.JSON(suppliers)
}

type SupplierPatchInput struct {
	CompanyName  *string `json:"company_name"`
	Address      *string `json:"address"`
	City         *string `json:"city"`
	Country      *string `json:"country"`
	Zip          *string `json:"zip"`
	Email        *string `json:"email"`
	PhoneNumber  *string `json:"phone_number"`
	MobileNumber *string `json:"mobile_number"`
}

func UpdateSupplier(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid supplier id")
	}
	var input SupplierPatchInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&input)

	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	var supplier models.Supplier
	if err := db.First(&supplier, id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "supplier not found")
	}

	updates := utils.UpdatesFromPtrDTO(&input, nil)
	if len(updates) > 0 {
		if err := db.Model(&supplier).Updates(updates).Error; err != nil {
			c.Status(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"message": "Could not update supplier",
				"error":   err.Error(),
			})
		}
	}
	db.First(&supplier, id)
	return c.JSON(supplier)
}
