package models

// Sequence issues unique human-readable reference codes (job card numbers,
// order names). NextNumber is incremented inside the caller's transaction.
type Sequence struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Code       string `json:"code" gorm:"unique;not null"`
	Prefix     string `json:"prefix"`
	Padding    int    `json:"padding" gorm:"default:5"`
	NextNumber int64  `json:"next_number" gorm:"default:1"`
}
