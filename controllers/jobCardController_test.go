package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"repairshop-backend/database"
	"repairshop-backend/middlewares"
	"repairshop-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestApp wires the job card routes against an in-memory database. The
// auth and transaction middlewares are replaced by one that injects the test
// DB and a fixed identity.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, models.Company) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.AllModels()...))
	require.NoError(t, database.SeedSequences(db))

	currency := models.Currency{Name: "Euro", Code: "EUR", DecimalPlaces: 2}
	require.NoError(t, db.Create(&currency).Error)
	company := models.Company{CompanyName: "Acme Repairs", CurrencyId: currency.Id}
	require.NoError(t, db.Create(&company).Error)

	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("tx", db)
		c.Locals("companyID", company.Id)
		c.Locals("userID", "test-user")
		return c.Next()
	})

	api := app.Group("/api")
	api.Post("/job-card", CreateJobCard)
	api.Get("/job-cards", GetJobCards)
	api.Get("/job-card/:id", GetJobCard)
	api.Put("/job-cards/:id/status", UpdateJobCardStatus)
	api.Post("/job-cards/:id/diagnosis", SubmitJobCardDiagnosis)
	api.Delete("/job-cards/:id", ArchiveJobCard)
	api.Post("/job-cards/sweep", RunJobCardSweep)

	return app, db, company
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, payload
}

func TestCreateJobCardEndpoint(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, payload := doJSON(t, app, "POST", "/api/job-card", fiber.Map{
		"description": "walk-in repair",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var card models.JobCard
	require.NoError(t, json.Unmarshal(payload, &card))
	assert.Equal(t, "JC/00001", card.Reference)
	assert.Equal(t, models.JobCardStatusAssigned, card.Status)
}

func TestCreateJobCardUnknownOrder(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, _ := doJSON(t, app, "POST", "/api/job-card", fiber.Map{
		"repair_order_id": 999,
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpdateJobCardStatusEndpoint(t *testing.T) {
	app, db, _ := newTestApp(t)

	resp, payload := doJSON(t, app, "POST", "/api/job-card", fiber.Map{})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var card models.JobCard
	require.NoError(t, json.Unmarshal(payload, &card))

	resp, payload = doJSON(t, app, "PUT", "/api/job-cards/1/status", fiber.Map{
		"status": models.JobCardStatusUnderRepair,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(payload, &card))
	assert.Equal(t, models.JobCardStatusUnderRepair, card.Status)
	assert.NotNil(t, card.DateStarted)

	var got models.JobCard
	require.NoError(t, db.First(&got, card.ID).Error)
	assert.Equal(t, models.JobCardStatusUnderRepair, got.Status)
}

func TestUpdateJobCardStatusRejectsUnknownValue(t *testing.T) {
	app, _, _ := newTestApp(t)

	doJSON(t, app, "POST", "/api/job-card", fiber.Map{})
	resp, _ := doJSON(t, app, "PUT", "/api/job-cards/1/status", fiber.Map{
		"status": "exploded",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSubmitDiagnosisEndpointLocks(t *testing.T) {
	app, _, _ := newTestApp(t)

	doJSON(t, app, "POST", "/api/job-card", fiber.Map{})

	resp, _ := doJSON(t, app, "POST", "/api/job-cards/1/diagnosis", fiber.Map{
		"notes":  "burnt capacitor",
		"images": []string{"img1.jpg"},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/api/job-cards/1/diagnosis", fiber.Map{
		"notes": "second opinion",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestGetJobCardsHidesArchived(t *testing.T) {
	app, _, _ := newTestApp(t)

	doJSON(t, app, "POST", "/api/job-card", fiber.Map{})
	doJSON(t, app, "POST", "/api/job-card", fiber.Map{})

	resp, _ := doJSON(t, app, "DELETE", "/api/job-cards/1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, payload := doJSON(t, app, "GET", "/api/job-cards", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var cards []models.JobCard
	require.NoError(t, json.Unmarshal(payload, &cards))
	require.Len(t, cards, 1)
	assert.Equal(t, "JC/00002", cards[0].Reference)

	resp, payload = doJSON(t, app, "GET", "/api/job-cards?include_archived=true", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(payload, &cards))
	assert.Len(t, cards, 2)
}

func TestJobCardSweepEndpoint(t *testing.T) {
	app, db, company := newTestApp(t)

	order := models.RepairOrder{
		Name:          "RO/00001",
		CompanyId:     company.Id,
		State:         models.RepairStateConfirmed,
		InvoiceMethod: models.InvoiceMethodNone,
	}
	require.NoError(t, db.Create(&order).Error)

	resp, payload := doJSON(t, app, "POST", "/api/job-cards/sweep", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out map[string]int
	require.NoError(t, json.Unmarshal(payload, &out))
	assert.Equal(t, 1, out["created"])

	var count int64
	require.NoError(t, db.Model(&models.JobCard{}).Where("repair_order_id = ?", order.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
