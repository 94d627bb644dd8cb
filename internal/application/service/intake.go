package service

import (
	"context"

	"nlreminder/internal/application/dto"
)

// IntakeService turns inbound text messages into reminders.
type IntakeService interface {
	// Process handles a batch of message events in order. A failure on one
	// event is logged and counted; it never stops the rest of the batch.
	Process(ctx context.Context, events []dto.MessageEvent) dto.IntakeSummary
}
