// models/reminder_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeliveryReminderLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ScanOutID    uuid.UUID `gorm:"type:uuid;index;not null" json:"scanOutId"`
	Channel      string    `gorm:"type:varchar(20)" json:"channel"` // sms
	Status       string    `gorm:"type:varchar(20)" json:"status"`  // sent, failed
	Message      string    `gorm:"type:text" json:"message"`
	ErrorMessage string    `gorm:"type:text" json:"errorMessage,omitempty"`
	SentAt       time.Time `json:"sentAt"`
}

func (DeliveryReminderLog) TableName() string { return "delivery_reminder_logs" }

func (r *DeliveryReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
