package entity

import (
	"time"

	"nlreminder/internal/domain/constant"
)

// Reminder is the persisted reminder record.
// DueAt, CreatedAt and SentAt are always stored in UTC.
type Reminder struct {
	ID        string                  `gorm:"column:reminder_id;primaryKey;type:varchar(36)"`
	UserID    string                  `gorm:"column:user_id;index;not null"`
	DueAt     time.Time               `gorm:"column:due_at;not null;index:idx_reminders_status_due,priority:2"`
	Task      string                  `gorm:"column:task;type:text;not null"`
	Status    constant.ReminderStatus `gorm:"column:status;type:varchar(16);not null;index:idx_reminders_status_due,priority:1"`
	CreatedAt time.Time               `gorm:"column:created_at;not null"`
	SentAt    *time.Time              `gorm:"column:sent_at"`
}

// TableName specifies the table name for the Reminder entity.
func (Reminder) TableName() string {
	return "reminders"
}

// IsSent reports whether the reminder has been delivered.
func (r *Reminder) IsSent() bool {
	return r.Status == constant.StatusSent
}
