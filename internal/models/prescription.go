package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	PrescriptionAnalyzed  = "analyzed"
	PrescriptionDispensed = "dispensed"
)

type Prescription struct {
	BaseModel

	UserID      uint                        `gorm:"not null;index" json:"user_id"`
	Medicines   datatypes.JSONSlice[string] `json:"medicines"`
	Dosages     datatypes.JSONSlice[string] `json:"dosages"`
	Warnings    datatypes.JSONSlice[string] `json:"warnings"`
	Confidence  float64                     `json:"confidence"`
	SafetyScore float64                     `json:"safetyScore"`
	ImageURL    string                      `gorm:"type:text" json:"imageUrl"`
	DoctorName  string                      `gorm:"not null;default:Unknown Doctor" json:"doctorName"`
	Status      string                      `gorm:"not null;default:analyzed" json:"status"`
	DoctorNotes string                      `json:"doctorNotes"`
	DispensedBy *uint                       `json:"dispensedBy"`
	DispensedAt *time.Time                  `json:"dispensedAt"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

// Dispensed reports whether the prescription has already been handed out.
// Dispense is a one-way transition; callers must refuse a second stamp.
func (p *Prescription) Dispensed() bool {
	return p.Status == PrescriptionDispensed
}
