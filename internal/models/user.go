package models

import (
	"gorm.io/datatypes"
)

const (
	RolePatient    = "patient"
	RoleDoctor     = "doctor"
	RolePharmacist = "pharmacist"
	RoleAdmin      = "admin"
)

// NotificationPrefs are the per-user delivery flags stored on the profile.
type NotificationPrefs struct {
	Email             bool `json:"email"`
	Push              bool `json:"push"`
	MedicineReminders bool `json:"medicineReminders"`
	InteractionAlerts bool `json:"interactionAlerts"`
	News              bool `json:"news"`
}

func DefaultNotificationPrefs() NotificationPrefs {
	return NotificationPrefs{
		Email:             true,
		Push:              true,
		MedicineReminders: true,
		InteractionAlerts: true,
		News:              false,
	}
}

type User struct {
	BaseModel

	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;default:patient"`
	Phone        string
	Bio          string
	Preferences  datatypes.JSONType[NotificationPrefs]
	Allergies    datatypes.JSONSlice[string]

	// Relationships
	Prescriptions []Prescription `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Interactions  []Interaction  `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Notifications []Notification `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

func ValidRole(role string) bool {
	switch role {
	case RolePatient, RoleDoctor, RolePharmacist, RoleAdmin:
		return true
	}
	return false
}
