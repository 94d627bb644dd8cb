package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nlreminder/internal/application/dto"
	"nlreminder/internal/domain/constant"
	"nlreminder/internal/domain/entity"
	"nlreminder/internal/domain/repository"
	appErrors "nlreminder/internal/pkg/errors"
	"nlreminder/internal/pkg/logger"
)

// DeliveryConfig controls the due window of each invocation.
type DeliveryConfig struct {
	// Window is the width of [now, now+Window). It should be at least the
	// invocation cadence so that no due time falls between two windows.
	Window time.Duration
	// CatchUp widens the lower bound to the Unix epoch so reminders missed
	// while the scheduler was not running are still delivered.
	CatchUp bool
	// Timeout bounds each store call.
	Timeout time.Duration
}

type deliveryService struct {
	reminderRepo repository.ReminderRepository
	notifier     Notifier
	cfg          DeliveryConfig
	now          Clock
	log          logger.Logger
}

// NewDeliveryService creates a new instance of DeliveryService implementation.
func NewDeliveryService(
	reminderRepo repository.ReminderRepository,
	notifier Notifier,
	cfg DeliveryConfig,
	log logger.Logger,
	opts ...Option,
) DeliveryService {
	o := buildOptions(opts)
	return &deliveryService{
		reminderRepo: reminderRepo,
		notifier:     notifier,
		cfg:          cfg,
		now:          o.now,
		log:          log.With("component", "delivery"),
	}
}

// Run queries pending reminders due in the window and delivers each one independently.
func (s *deliveryService) Run(ctx context.Context) (dto.DeliverySummary, error) {
	now := s.now().UTC()
	summary := dto.DeliverySummary{
		WindowStart: now,
		WindowEnd:   now.Add(s.cfg.Window),
	}
	if s.cfg.CatchUp {
		summary.WindowStart = time.Unix(0, 0).UTC()
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	reminders, err := s.reminderRepo.FindByStatusAndDueRange(queryCtx, constant.StatusPending, summary.WindowStart, summary.WindowEnd)
	cancel()
	if err != nil {
		s.log.Error("Failed to query due reminders", err,
			"window_start", summary.WindowStart, "window_end", summary.WindowEnd)
		return summary, fmt.Errorf("query due reminders: %w", err)
	}
	summary.Found = len(reminders)
	s.log.Info("Checking for due reminders",
		"window_start", summary.WindowStart, "window_end", summary.WindowEnd, "found", summary.Found)

	for i, reminder := range reminders {
		if ctx.Err() != nil {
			// Invocation deadline: the rest stay pending for the next run.
			summary.Skipped = len(reminders) - i
			s.log.Warn("Invocation cancelled, leaving remaining reminders pending",
				"skipped", summary.Skipped, "reason", ctx.Err().Error())
			break
		}
		if err := s.deliver(ctx, reminder, now); err != nil {
			summary.Failed++
			continue
		}
		summary.Sent++
	}

	s.log.Info("Delivery run finished",
		"found", summary.Found, "sent", summary.Sent, "failed", summary.Failed, "skipped", summary.Skipped)
	return summary, nil
}

// deliver pushes one reminder and marks it sent. A failed push leaves the
// reminder pending. A failed status update after a successful push means the
// reminder may be pushed again by a later run.
func (s *deliveryService) deliver(ctx context.Context, reminder *entity.Reminder, now time.Time) error {
	log := s.log.With("reminder_id", reminder.ID, "user_id", reminder.UserID)

	if err := s.notifier.Push(ctx, reminder.UserID, pushMessage(reminder.Task)); err != nil {
		log.Error("Failed to push reminder", err)
		return err
	}

	updateCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	err := s.reminderRepo.UpdateStatus(updateCtx, reminder.ID, constant.StatusSent, now)
	cancel()
	if err != nil {
		if errors.Is(err, appErrors.ErrAlreadySent) {
			// An overlapping invocation delivered it too.
			log.Warn("Reminder was already marked sent by another run")
			return nil
		}
		log.Error("Failed to mark reminder as sent", err)
		return err
	}

	log.Info("Reminder sent successfully")
	return nil
}
