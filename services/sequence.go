package services

import (
	"errors"
	"fmt"
	"strings"

	"repairshop-backend/models"

	"gorm.io/gorm"
)

// Sequence codes used across the app.
const (
	SequenceJobCard     = "job.card"
	SequenceRepairOrder = "repair.order"
)

// defaultPrefix derives a prefix from a sequence code when none has been
// configured: the uppercased initials of the dot-separated parts.
// "job.card" becomes "JC/".
func defaultPrefix(code string) string {
	var b strings.Builder
	for _, part := range strings.Split(code, ".") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
	}
	b.WriteString("/")
	return b.String()
}

// NextByCode issues the next reference for the given sequence code, creating
// the sequence row on first use. The increment happens inside the caller's
// transaction, so an aborted operation does not consume a number.
func NextByCode(tx *gorm.DB, code string) (string, error) {
	var seq models.Sequence
	err := tx.Where("code = ?", code).First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq = models.Sequence{Code: code, Prefix: defaultPrefix(code), Padding: 5, NextNumber: 1}
		if err := tx.Create(&seq).Error; err != nil {
			return "", fmt.Errorf("create sequence %q: %w", code, err)
		}
	} else if err != nil {
		return "", err
	}

	padding := seq.Padding
	if padding <= 0 {
		padding = 5
	}
	ref := fmt.Sprintf("%s%0*d", seq.Prefix, padding, seq.NextNumber)

	if err := tx.Model(&models.Sequence{}).
		Where("id = ?", seq.ID).
		Update("next_number", gorm.Expr("next_number + 1")).Error; err != nil {
		return "", fmt.Errorf("advance sequence %q: %w", code, err)
	}
	return ref, nil
}
