package models

import (
	"time"

	"gorm.io/datatypes"
)

// Job card statuses.
const (
	JobCardStatusAssigned     = "assigned"
	JobCardStatusUnderRepair  = "under_repair"
	JobCardStatusWaitingParts = "waiting_parts"
	JobCardStatusComplete     = "complete"
	JobCardStatusClosed       = "closed"
	JobCardStatusConfirmed    = "confirmed"
)

// JobCard is the internal work-tracking record derived from a repair order.
// The card references the order; the order never requires a link back.
// Cards are archived (Active=false), never hard-deleted.
type JobCard struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	Reference     string       `json:"reference" gorm:"unique;not null"`
	RepairOrderId *uint        `json:"repair_order_id" gorm:"index"`
	RepairOrder   *RepairOrder `json:"-" gorm:"foreignKey:RepairOrderId;references:ID;constraint:OnDelete:SET NULL"`

	ProductId         *uint    `json:"product_id"`
	Product           *Product `json:"product" gorm:"foreignKey:ProductId;references:Id"`
	ProductBarcode    string   `json:"product_bar_code"`
	Description       string   `json:"description"`
	CustomerReference string   `json:"customer_reference"`
	TechnicianId      *string  `json:"technician_id"`
	Technician        *User    `json:"technician" gorm:"foreignKey:TechnicianId;references:Id"`

	Status        string     `json:"status" gorm:"not null;default:'assigned';index"`
	DateAssigned  time.Time  `json:"date_assigned"`
	DateStarted   *time.Time `json:"date_started"`
	DateCompleted *time.Time `json:"date_completed"`

	// Diagnosis capture. Once submitted, notes and images are immutable.
	DiagnosisNotes     string         `json:"diagnosis_notes"`
	DiagnosisImages    datatypes.JSON `json:"diagnosis_images" gorm:"type:jsonb"`
	DiagnosisSubmitted bool           `json:"diagnosis_submitted"`

	Active    bool      `json:"active" gorm:"default:true;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidJobCardStatus reports whether s is one of the fixed card statuses.
func ValidJobCardStatus(s string) bool {
	switch s {
	case JobCardStatusAssigned, JobCardStatusUnderRepair, JobCardStatusWaitingParts,
		JobCardStatusComplete, JobCardStatusClosed, JobCardStatusConfirmed:
		return true
	}
	return false
}
