package service

import (
	"context"

	"nlreminder/internal/application/dto"
)

// DeliveryService pushes reminders that have come due.
type DeliveryService interface {
	// Run performs one scheduler invocation. Per-reminder failures are counted
	// in the summary; only a failed due-reminder query is returned as an error.
	Run(ctx context.Context) (dto.DeliverySummary, error)
}
