package controllers

import (
	"repairshop-backend/database"
	"repairshop-backend/middlewares"
	"repairshop-backend/models"
	"repairshop-backend/services"

	"github.com/gofiber/fiber/v2"
)

var jobCards = services.NewJobCardService()

type JobCardCreateInput struct {
	Reference     string  `json:"reference"`
	RepairOrderId *uint   `json:"repair_order_id"`
	TechnicianId  *string `json:"technician_id"`
	Description   string  `json:"description"`
}

func CreateJobCard(c *fiber.Ctx) error {
	var input JobCardCreateInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	card, err := jobCards.Create(db, services.JobCardInput{
		Reference:     input.Reference,
		RepairOrderId: input.RepairOrderId,
		TechnicianId:  input.TechnicianId,
		Description:   input.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(card)
}

func GetJobCards(c *fiber.Ctx) error {
	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	q := db.Order("id desc")
	if c.Query("include_archived") != "true" {
		q = q.Where("active = ?", true)
	}
	if status := c.Query("status"); status != "" {
		if !models.ValidJobCardStatus(status) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid status filter")
		}
		q = q.Where("status = ?", status)
	}
	var cards []models.JobCard
	if err := q.Find(&cards).Error; err != nil {
		return err
	}
	return c.JSON(cards)
}

func GetJobCard(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid job card id")
	}
	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	var card models.JobCard
	if err := db.Preload("RepairOrder").First(&card, id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "job card not found")
	}
	return c.JSON(card)
}

type JobCardStatusInput struct {
	Status string `json:"status" validate:"required,jobcardstatus"`
}

func UpdateJobCardStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid job card id")
	}
	var input JobCardStatusInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	card, err := jobCards.UpdateStatus(db, uint(id), input.Status)
	if err != nil {
		return err
	}
	return c.JSON(card)
}

type JobCardStatusBatchInput struct {
	Ids    []uint `json:"ids" validate:"required,min=1"`
	Status string `json:"status" validate:"required,jobcardstatus"`
}

func UpdateJobCardStatusBatch(c *fiber.Ctx) error {
	var input JobCardStatusBatchInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	cards, err := jobCards.UpdateStatusMany(db, input.Ids, input.Status)
	if err != nil {
		return err
	}
	return c.JSON(cards)
}

type DiagnosisInput struct {
	Notes  string   `json:"notes" validate:"required"`
	Images []string `json:"images"`
}

func SubmitJobCardDiagnosis(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid job card id")
	}
	var input DiagnosisInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	card, err := jobCards.SubmitDiagnosis(db, uint(id), input.Notes, input.Images)
	if err != nil {
		return err
	}
	return c.JSON(card)
}

func ArchiveJobCard(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid job card id")
	}
	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	if err := jobCards.Archive(db, uint(id)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "job card archived"})
}

// RunJobCardSweep triggers the same scan the scheduler runs: every in-progress
// repair order without a job card gets one.
func RunJobCardSweep(c *fiber.Ctx) error {
	db, err := database.GetRequestDB(c)
	if err != nil {
		return err
	}
	created, err := jobCards.AutoCreateJobCards(db)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"created": created})
}
