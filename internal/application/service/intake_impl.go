package service

import (
	"context"
	"time"

	"nlreminder/internal/application/dto"
	"nlreminder/internal/domain/constant"
	"nlreminder/internal/domain/entity"
	"nlreminder/internal/domain/repository"
	"nlreminder/internal/domain/timeexpr"
	"nlreminder/internal/pkg/logger"
)

type intakeOutcome int

const (
	outcomeCreated intakeOutcome = iota
	outcomeUnparsed
	outcomeCommand
	outcomeFailed
)

type intakeService struct {
	reminderRepo repository.ReminderRepository
	notifier     Notifier
	parser       *timeexpr.Parser
	timeout      time.Duration
	now          Clock
	newID        func() string
	log          logger.Logger
}

// NewIntakeService creates a new instance of IntakeService implementation.
// timeout bounds each store call; the notifier bounds its own calls.
func NewIntakeService(
	reminderRepo repository.ReminderRepository,
	notifier Notifier,
	parser *timeexpr.Parser,
	timeout time.Duration,
	log logger.Logger,
	opts ...Option,
) IntakeService {
	o := buildOptions(opts)
	return &intakeService{
		reminderRepo: reminderRepo,
		notifier:     notifier,
		parser:       parser,
		timeout:      timeout,
		now:          o.now,
		newID:        o.newID,
		log:          log.With("component", "intake"),
	}
}

// Process handles the events sequentially in batch order.
func (s *intakeService) Process(ctx context.Context, events []dto.MessageEvent) dto.IntakeSummary {
	summary := dto.IntakeSummary{Received: len(events)}
	for _, event := range events {
		switch s.handle(ctx, event) {
		case outcomeCreated:
			summary.Created++
		case outcomeUnparsed:
			summary.Unparsed++
		case outcomeCommand:
			summary.Commands++
		case outcomeFailed:
			summary.Failed++
		}
	}
	s.log.Info("Intake batch processed",
		"received", summary.Received, "created", summary.Created,
		"unparsed", summary.Unparsed, "commands", summary.Commands, "failed", summary.Failed)
	return summary
}

func (s *intakeService) handle(ctx context.Context, event dto.MessageEvent) intakeOutcome {
	s.log.Info("Received text message", "user_id", event.UserID, "text", event.Text)

	switch event.Text {
	case commandList:
		return s.sendReminderList(ctx, event)
	case commandUsage, commandHelp:
		s.reply(ctx, event, helpMessage)
		return outcomeCommand
	}

	now := s.now()
	result, ok := s.parser.Parse(event.Text, now)
	if !ok {
		s.log.Debug("No time expression matched", "user_id", event.UserID)
		s.reply(ctx, event, helpMessage)
		return outcomeUnparsed
	}

	reminder := &entity.Reminder{
		ID:        s.newID(),
		UserID:    event.UserID,
		DueAt:     result.DueAt,
		Task:      result.Task,
		Status:    constant.StatusPending,
		CreatedAt: now.UTC(),
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	err := s.reminderRepo.Create(storeCtx, reminder)
	cancel()
	if err != nil {
		s.log.Error("Failed to save reminder", err, "reminder_id", reminder.ID, "user_id", event.UserID)
		// Never confirm a reminder that was not persisted.
		s.reply(ctx, event, storeFailedMessage)
		return outcomeFailed
	}
	s.log.Info("Reminder created",
		"reminder_id", reminder.ID, "user_id", reminder.UserID,
		"due_at", reminder.DueAt, "grammar", result.Kind.String())

	s.reply(ctx, event, confirmationMessage(s.parser.Format(reminder.DueAt), reminder.Task))
	return outcomeCreated
}

func (s *intakeService) sendReminderList(ctx context.Context, event dto.MessageEvent) intakeOutcome {
	storeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	reminders, err := s.reminderRepo.FindPendingByUserID(storeCtx, event.UserID)
	cancel()
	if err != nil {
		s.log.Error("Failed to list pending reminders", err, "user_id", event.UserID)
		s.reply(ctx, event, listFailedMessage)
		return outcomeFailed
	}

	if len(reminders) == 0 {
		s.reply(ctx, event, emptyListMessage)
		return outcomeCommand
	}
	s.reply(ctx, event, listMessage(dto.ToReminderResponseList(reminders), s.parser.Format))
	return outcomeCommand
}

// reply is best effort: the user never learns about a failed reply.
func (s *intakeService) reply(ctx context.Context, event dto.MessageEvent, text string) {
	if err := s.notifier.Reply(ctx, event.ReplyToken, text); err != nil {
		s.log.Error("Failed to send reply message", err, "user_id", event.UserID)
	}
}
