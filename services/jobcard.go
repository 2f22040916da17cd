package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"repairshop-backend/models"

	"gorm.io/gorm"
)

// JobCardService owns the job card lifecycle: creation (manual or via the
// sweep), status transitions with their timestamp side effects, the one-shot
// diagnosis capture, and soft archival.
type JobCardService struct{}

func NewJobCardService() *JobCardService { return &JobCardService{} }

// JobCardInput carries the caller-supplied fields for Create. A zero
// Reference means "allocate one from the sequence".
type JobCardInput struct {
	Reference     string
	RepairOrderId *uint
	TechnicianId  *string
	Description   string
}

// Create allocates a reference if none was supplied and, when a repair order
// is given, copies product, description, customer reference and technician
// from it. Returns ErrNotFound if the referenced order does not exist.
func (s *JobCardService) Create(tx *gorm.DB, in JobCardInput) (*models.JobCard, error) {
	card := models.JobCard{
		Reference:     in.Reference,
		RepairOrderId: in.RepairOrderId,
		TechnicianId:  in.TechnicianId,
		Description:   in.Description,
		Status:        models.JobCardStatusAssigned,
		DateAssigned:  time.Now().UTC(),
		Active:        true,
	}

	if card.Reference == "" {
		ref, err := NextByCode(tx, SequenceJobCard)
		if err != nil {
			return nil, err
		}
		card.Reference = ref
	}

	if in.RepairOrderId != nil {
		var order models.RepairOrder
		if err := tx.First(&order, *in.RepairOrderId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("repair order %d: %w", *in.RepairOrderId, ErrNotFound)
			}
			return nil, err
		}
		card.ProductId = order.ProductId
		card.ProductBarcode = order.ProductBarcode
		if card.Description == "" {
			card.Description = order.Description
		}
		// The customer reference lives under different names depending on
		// which legacy import populated the order. Resolve through the
		// ordered fallback list; first non-empty wins.
		for _, ref := range []string{order.CustomerReference, order.ClientOrderRef, order.ManualJobCard} {
			if ref != "" {
				card.CustomerReference = ref
				break
			}
		}
		if card.TechnicianId == nil {
			card.TechnicianId = order.TechnicianId
		}
	}

	if err := tx.Create(&card).Error; err != nil {
		return nil, fmt.Errorf("create job card: %w", err)
	}
	return &card, nil
}

// UpdateStatus moves a card to newStatus. Entering under_repair stamps
// date_started once; entering complete stamps date_completed once. If the
// card is linked to a repair order the order state follows the card
// (one-directional, card to order).
func (s *JobCardService) UpdateStatus(tx *gorm.DB, id uint, newStatus string) (*models.JobCard, error) {
	if !models.ValidJobCardStatus(newStatus) {
		return nil, fmt.Errorf("status %q: %w", newStatus, ErrInvalidStatus)
	}

	var card models.JobCard
	if err := tx.First(&card, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job card %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	updates := map[string]any{"status": newStatus}
	now := time.Now().UTC()
	if newStatus == models.JobCardStatusUnderRepair && card.DateStarted == nil {
		updates["date_started"] = &now
	}
	if newStatus == models.JobCardStatusComplete && card.DateCompleted == nil {
		updates["date_completed"] = &now
	}
	if err := tx.Model(&card).Updates(updates).Error; err != nil {
		return nil, err
	}

	if card.RepairOrderId != nil {
		// The order mirrors the card status verbatim, even where that status
		// is not one of the order's own workflow states. Accepted looseness
		// carried over from the source workflow.
		if err := tx.Model(&models.RepairOrder{}).
			Where("id = ?", *card.RepairOrderId).
			Update("state", newStatus).Error; err != nil {
			return nil, err
		}
	}
	return &card, nil
}

// UpdateStatusMany applies UpdateStatus to a batch of cards. The first
// failure aborts the batch; run it inside one transaction.
func (s *JobCardService) UpdateStatusMany(tx *gorm.DB, ids []uint, newStatus string) ([]models.JobCard, error) {
	cards := make([]models.JobCard, 0, len(ids))
	for _, id := range ids {
		card, err := s.UpdateStatus(tx, id, newStatus)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *card)
	}
	return cards, nil
}

// SubmitDiagnosis stores the diagnosis notes and images and locks them in one
// write. A second submission, or any later edit, fails with
// ErrDiagnosisLocked.
func (s *JobCardService) SubmitDiagnosis(tx *gorm.DB, id uint, notes string, images []string) (*models.JobCard, error) {
	var card models.JobCard
	if err := tx.First(&card, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job card %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if card.DiagnosisSubmitted {
		return nil, fmt.Errorf("job card %s: %w", card.Reference, ErrDiagnosisLocked)
	}

	imgBlob, err := json.Marshal(images)
	if err != nil {
		return nil, fmt.Errorf("encode diagnosis images: %w", err)
	}
	if err := tx.Model(&card).Updates(map[string]any{
		"diagnosis_notes":     notes,
		"diagnosis_images":    imgBlob,
		"diagnosis_submitted": true,
	}).Error; err != nil {
		return nil, err
	}
	card.DiagnosisNotes = notes
	card.DiagnosisImages = imgBlob
	card.DiagnosisSubmitted = true
	return &card, nil
}

// Archive soft-deletes a card. Cards are never removed from the store.
func (s *JobCardService) Archive(tx *gorm.DB, id uint) error {
	res := tx.Model(&models.JobCard{}).Where("id = ?", id).Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("job card %d: %w", id, ErrNotFound)
	}
	return nil
}

// AutoCreateJobCards scans repair orders that are in progress and still have
// no job card and creates one per order. A failure on one order is logged and
// skipped; the sweep always runs to the end. Returns the number of cards
// created. Safe to run repeatedly.
func (s *JobCardService) AutoCreateJobCards(tx *gorm.DB) (int, error) {
	var orders []models.RepairOrder
	err := tx.
		Where("state IN ?", []string{
			models.RepairStateConfirmed,
			models.RepairStateUnderRepair,
			models.RepairStateReady,
		}).
		Where("NOT EXISTS (SELECT 1 FROM job_cards WHERE job_cards.repair_order_id = repair_orders.id)").
		Order("id").
		Find(&orders).Error
	if err != nil {
		return 0, err
	}

	created := 0
	for i := range orders {
		order := orders[i]
		err := tx.Transaction(func(inner *gorm.DB) error {
			_, err := s.Create(inner, JobCardInput{RepairOrderId: &order.ID})
			return err
		})
		if err != nil {
			log.Printf("job card sweep: order %s (id=%d) skipped: %v", order.Name, order.ID, err)
			continue
		}
		created++
	}
	return created, nil
}
