package services

import (
	"testing"

	"repairshop-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobCardCreateAllocatesReference(t *testing.T) {
	db := setupTestDB(t)
	svc := NewJobCardService()

	card, err := svc.Create(db, JobCardInput{Description: "walk-in"})
	require.NoError(t, err)
	assert.Equal(t, "JC/00001", card.Reference)
	assert.Equal(t, models.JobCardStatusAssigned, card.Status)
	assert.True(t, card.Active)
	assert.False(t, card.DateAssigned.IsZero())
}

func TestJobCardCreateCopiesFromOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewJobCardService()
	company := seedCompany(t, db, "Acme Repairs")
	product := seedProduct(t, db, "Washing machine", nil)

	order := seedOrder(t, db, company, "RO/00001", orderOpts{})
	require.NoError(t, db.Model(&order).Updates(map[string]any{
		"product_id":       product.Id,
		"product_barcode":  "WM-123",
		"description":      "drum does not spin",
		"client_order_ref": "PO-555",
	}).Error)

	card, err := svc.Create(db, JobCardInput{RepairOrderId: &order.ID})
	require.NoError(t, err)
	require.NotNil(t, card.ProductId)
	assert.Equal(t, product.Id, *card.ProductId)
	assert.Equal(t, "WM-123", card.ProductBarcode)
	assert.Equal(t, "drum does not spin", card.Description)
	// customer_reference is empty, so the fallback resolves client_order_ref.
	assert.Equal(t, "PO-555", card.CustomerReference)
}

func TestJobCardCreateReferenceFallbackOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewJobCardService()
	company := seedCompany(t, db, "Acme Repairs")

	order := seedOrder(t, db, company, "RO/00001", orderOpts{})
	require.NoError(t, db.Model(&order).Updates(map[string]any{
		"customer_reference": "CR-1",
		"client_order_ref":   "PO-555",
		"manual_job_card":    "M-9",
	}).Error)

	card, err := svc.Create(db, JobCardInput{RepairOrderId: &order.ID})
	require.NoError(t, err)
	assert.Equal(t, "CR-1", card.CustomerReference)
}

func TestJobCardCreateUnknownOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewJobCardService()

	missing := uint(999)
	_, err := svc.Create(db, JobCardInput{RepairOrderId: &missing})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJobCardUpdateStatusStampsDatesOnce(t *testing.T) {
	db := setupTestDB(t)
	svc := NewJobCardService()

	card, err := svc.Create(db, JobCardInput{})
	require.NoError(t, err)

	card, err = svc.UpdateStatus(db, card.ID, models.JobCardStatusUnderRepair)
	require.NoError(t, err)
	var first models.JobCard
	require.NoError(t, db.First(&first, card.ID).Error)
	require.NotNil(t, first.DateStarted)

	// Bounce away and back. The original start stamp must survive.
	_, err = svc.UpdateStatus(db, card.ID, models.JobCardStatusWaitingParts)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(db, card.ID, models.JobCardStatusUnderRepair)
	require.NoError(t, err)

	var again models.JobCard
	require.NoError(t, db.First(&again, card.ID).Error)
	require.NotNil(t, again.DateStarted)
	assert.Equal(t, first.DateStarted.UnixNano(), again.DateStarted.UnixNano())
	assert.Nil(t, again.DateCompleted)

	_, err = svc.UpdateStatus(db, card.ID, models.JobCardStatusComplete)
	require.NoError(t, err)
	var done models.JobCard
	require.NoError(t, db.First(&done, card.ID).Error)
	assert.NotNil(t, done.DateCompleted)
}

func TestJobCardUpdateStatusPropagatesToOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewJobCardService()
	company := seedCompany(t, db, "Acme Repairs")
	order := seedOrder(t, db, company, "RO/00001", orderOpts{state: models.RepairStateConfirmed})

	card, err := svc.Create(db, JobCardInput{RepairOrderId: &order.ID})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(db, card.ID, models.JobCardStatusUnderRepair)
	require.NoError(t, err)

	var got models.RepairOrder
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.Equal(t, models.JobCardStatusUnderRepair, got.State)
}

func TestJobCardUpdateStatusInvalid(t *testing.T) {
	db := setupTestDB(t)
	svc := NewJobCardService()

	card, err := svc.Create(db, JobCardInput{})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(db, card.ID, "exploded")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestJobCardUpdateStatusMany(t *testing.T) {
	db := setupTestDB(t)
	svc := NewJobCardService()

	a, err := svc.Create(db, JobCardInput{})
	require.NoError(t, err)
	b, err := svc.Create(db, JobCardInput{})
	require.NoError(t, err)

	cards, err := svc.UpdateStatusMany(db, []uint{a.ID, b.ID}, models.JobCardStatusClosed)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	for _, card := range cards {
		var got models.JobCard
		require.NoError(t, db.First(&got, card.ID).Error)
		assert.Equal(t, models.JobCardStatusClosed, got.Status)
	}
}

func TestJobCardSubmitDiagnosisLocks(t *testing.T) {
	db := setupTestDB(t)
	svc := NewJobCardService()

	card, err := svc.Create(db, JobCardInput{})
	require.NoError(t, err)

	card, err = svc.SubmitDiagnosis(db, card.ID, "burnt capacitor", []string{"img1.jpg", "img2.jpg"})
	require.NoError(t, err)
	assert.True(t, card.DiagnosisSubmitted)
	assert.Equal(t, "burnt capacitor", card.DiagnosisNotes)
	assert.JSONEq(t, `["img1.jpg","img2.jpg"]`, string(card.DiagnosisImages))

	_, err = svc.SubmitDiagnosis(db, card.ID, "second opinion", nil)
	assert.ErrorIs(t, err, ErrDiagnosisLocked)

	var got models.JobCard
	require.NoError(t, db.First(&got, card.ID).Error)
	assert.Equal(t, "burnt capacitor", got.DiagnosisNotes)
}

func TestJobCardArchive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewJobCardService()

	card, err := svc.Create(db, JobCardInput{})
	require.NoError(t, err)

	require.NoError(t, svc.Archive(db, card.ID))
	var got models.JobCard
	require.NoError(t, db.First(&got, card.ID).Error)
	assert.False(t, got.Active)

	assert.ErrorIs(t, svc.Archive(db, 999), ErrNotFound)
}

func TestAutoCreateJobCardsSweep(t *testing.T) {
	db := setupTestDB(t)
	svc := NewJobCardService()
	company := seedCompany(t, db, "Acme Repairs")

	seedOrder(t, db, company, "RO/00001", orderOpts{state: models.RepairStateDraft})
	confirmed := seedOrder(t, db, company, "RO/00002", orderOpts{state: models.RepairStateConfirmed})
	covered := seedOrder(t, db, company, "RO/00003", orderOpts{state: models.RepairStateUnderRepair})
	ready := seedOrder(t, db, company, "RO/00004", orderOpts{state: models.RepairStateReady})
	seedOrder(t, db, company, "RO/00005", orderOpts{state: models.RepairStateDone})

	// The under_repair order already has a card and must be left alone.
	_, err := svc.Create(db, JobCardInput{RepairOrderId: &covered.ID})
	require.NoError(t, err)

	created, err := svc.AutoCreateJobCards(db)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	for _, orderId := range []uint{confirmed.ID, ready.ID} {
		var count int64
		require.NoError(t, db.Model(&models.JobCard{}).Where("repair_order_id = ?", orderId).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	}

	// The sweep is idempotent.
	created, err = svc.AutoCreateJobCards(db)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestAutoCreateJobCardsSkipsFailedOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewJobCardService()
	company := seedCompany(t, db, "Acme Repairs")

	first := seedOrder(t, db, company, "RO/00001", orderOpts{state: models.RepairStateConfirmed})
	second := seedOrder(t, db, company, "RO/00002", orderOpts{state: models.RepairStateConfirmed})

	// Occupy the reference the second create will draw, forcing a unique
	// violation for that order only.
	require.NoError(t, db.Create(&models.JobCard{
		Reference: "JC/00002",
		Status:    models.JobCardStatusAssigned,
		Active:    true,
	}).Error)

	created, err := svc.AutoCreateJobCards(db)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	var count int64
	require.NoError(t, db.Model(&models.JobCard{}).Where("repair_order_id = ?", first.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	require.NoError(t, db.Model(&models.JobCard{}).Where("repair_order_id = ?", second.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
