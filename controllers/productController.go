package controllers

import (
	"fmt"

	"repairshop-backend/database"
	"repairshop-backend/middlewares"
	"repairshop-backend/models"
	"repairshop-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ProductInput struct {
	Name            string  `json:"name" validate:"required"`
	Description     string  `json:"description"`
	Type            string  `json:"type" validate:"omitempty,oneof=goods service"`
	Barcode         string  `json:"barcode"`
	ListPrice       float64 `json:"list_price" validate:"gte=0"`
	IncomeAccountId *uint   `json:"income_account_id"`
	TaxIds          []uint  `json:"tax_ids"`
}

// CreateProducts batch-creates products; one bad element rejects the batch.
func CreateProducts(c *fiber.Ctx) error {
	var inputs []ProductInput
	if err := c.BodyParser(&inputs); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}

	var created []models.Product
	for i := range inputs {
		input := &inputs[i]
		if err := middlewares.ValidateStruct(input); err != nil {
			return err
		}
		utils.NormalizeDTO(input)

		var taxes []models.Tax
		if len(input.TaxIds) > 0 {
			if err := db.Where("id IN ?", input.TaxIds).Find(&taxes).Error; err != nil {
				return err
			}
		}

		productType := input.Type
		if productType == "" {
			productType = models.ProductTypeGoods
		}
		product := models.Product{
			Name:            input.Name,
			Description:     input.Description,
			Type:            productType,
			Barcode:         input.Barcode,
			ListPrice:       input.ListPrice,
			IncomeAccountId: input.IncomeAccountId,
			Taxes:           taxes,
			Active:          true,
		}
		if err := db.Create(&product).Error; err != nil {
			return c.Status(500).JSON(fiber.Map{
				"message": fmt.Sprintf("Could not create product at index %d", i),
				"error":   err.Error(),
			})
		}
		created = append(created, product)
	}

	return c.Status(201).JSON(created)
}

func GetProducts(c *fiber.Ctx) error {
	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	var products []models.Product
	if err := db.Preload("Taxes").Where("active = ?", true).Order("name").Find(&products).Error; err != nil {
		return err
	}
	return c.JSON(products)
}

type ProductPatchInput struct {
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	Barcode         *string  `json:"barcode"`
	ListPrice       *float64 `json:"list_price"`
	IncomeAccountId *uint    `json:"income_account_id"`
}

func UpdateProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}
	var input ProductPatchInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&input)

	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	}

	updates := utils.UpdatesFromPtrDTO(&input, nil)
	if len(updates) > 0 {
		if err := db.Model(&product).Updates(updates).Error; err != nil {
			c.Status(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"message": "Could not update product",
				"error":   err.Error(),
			})
		}
	}
	db.Preload("Taxes").First(&product, id)
	return c.JSON(product)
}
