package models

const (
	NotificationCritical = "critical"
	NotificationWarning  = "warning"
	NotificationInfo     = "info"
)

type Notification struct {
	BaseModel

	UserID      uint   `gorm:"not null;index" json:"user_id"`
	Type        string `gorm:"not null" json:"type"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"not null" json:"description"`
	IsRead      bool   `gorm:"not null;default:false" json:"is_read"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
