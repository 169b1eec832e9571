package models

import (
	"gorm.io/datatypes"
)

// Interaction is one drug-interaction check. Rows are append-only; the
// analysis blob is stored exactly as the model returned it.
type Interaction struct {
	BaseModel

	UserID      uint                        `gorm:"not null;index" json:"user_id"`
	Medicines   datatypes.JSONSlice[string] `json:"medicines"`
	Analysis    datatypes.JSON              `gorm:"type:jsonb" json:"analysis"`
	SafetyScore float64                     `json:"safetyScore"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
