package dto

import (
	"time"

	"nlreminder/internal/domain/entity"
)

// ReminderResponse is the DTO for listing a user's pending reminders.
type ReminderResponse struct {
	ID    string    `json:"id"`
	Task  string    `json:"task"`
	DueAt time.Time `json:"due_at"`
}

// ToReminderResponse converts an entity.Reminder to a ReminderResponse DTO.
func ToReminderResponse(r *entity.Reminder) ReminderResponse {
	return ReminderResponse{
		ID:    r.ID,
		Task:  r.Task,
		DueAt: r.DueAt,
	}
}

// ToReminderResponseList converts a slice of entity.Reminder to a slice of ReminderResponse DTOs.
func ToReminderResponseList(reminders []*entity.Reminder) []ReminderResponse {
	list := make([]ReminderResponse, len(reminders))
	for i, r := range reminders {
		list[i] = ToReminderResponse(r)
	}
	return list
}
