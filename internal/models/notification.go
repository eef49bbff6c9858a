package models

import "time"

type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationPayment NotificationType = "payment"
	NotificationStock   NotificationType = "stock"
)

type Notification struct {
	ID      uint             `gorm:"primaryKey" json:"id"`
	UserID  uint             `gorm:"index;not null" json:"user_id"`
	User    User             `gorm:"foreignKey:UserID" json:"-"`
	Title   string           `gorm:"size:100;not null" json:"title"`
	Message string           `gorm:"size:500;not null" json:"message"`
	Type    NotificationType `gorm:"size:20;not null;default:info" json:"type"`
	Read    bool             `gorm:"not null;default:false" json:"read"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
