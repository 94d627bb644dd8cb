package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"nlreminder/internal/domain/constant"
	"nlreminder/internal/domain/entity"
	appErrors "nlreminder/internal/pkg/errors"
)

type memoryRepo struct {
	mu        sync.Mutex
	reminders map[string]*entity.Reminder

	createErr error
	findErr   error
	updateErr map[string]error
	updates   int
}

func newMemoryRepo(reminders ...*entity.Reminder) *memoryRepo {
	r := &memoryRepo{reminders: map[string]*entity.Reminder{}, updateErr: map[string]error{}}
	for _, rem := range reminders {
		copied := *rem
		r.reminders[rem.ID] = &copied
	}
	return r
}

func (r *memoryRepo) Create(ctx context.Context, reminder *entity.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	copied := *reminder
	r.reminders[reminder.ID] = &copied
	return nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id string) (*entity.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem, ok := r.reminders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", appErrors.ErrReminderNotFound, id)
	}
	copied := *rem
	return &copied, nil
}

func (r *memoryRepo) FindByStatusAndDueRange(ctx context.Context, status constant.ReminderStatus, start, end time.Time) ([]*entity.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []*entity.Reminder
	for _, rem := range r.reminders {
		if rem.Status == status && !rem.DueAt.Before(start) && rem.DueAt.Before(end) {
			copied := *rem
			out = append(out, &copied)
		}
	}
	sortByDue(out)
	return out, nil
}

func (r *memoryRepo) FindPendingByUserID(ctx context.Context, userID string) ([]*entity.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []*entity.Reminder
	for _, rem := range r.reminders {
		if rem.UserID == userID && rem.Status == constant.StatusPending {
			copied := *rem
			out = append(out, &copied)
		}
	}
	sortByDue(out)
	return out, nil
}

func (r *memoryRepo) UpdateStatus(ctx context.Context, id string, status constant.ReminderStatus, sentAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	if err := r.updateErr[id]; err != nil {
		return err
	}
	rem, ok := r.reminders[id]
	if !ok {
		return fmt.Errorf("%w: %s", appErrors.ErrReminderNotFound, id)
	}
	if rem.Status != constant.StatusPending {
		return fmt.Errorf("%w: %s", appErrors.ErrAlreadySent, id)
	}
	rem.Status = status
	at := sentAt
	rem.SentAt = &at
	return nil
}

func (r *memoryRepo) get(id string) *entity.Reminder {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reminders[id]
}

func (r *memoryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reminders)
}

func sortByDue(reminders []*entity.Reminder) {
	sort.Slice(reminders, func(i, j int) bool {
		return reminders[i].DueAt.Before(reminders[j].DueAt)
	})
}

type sentMessage struct {
	to   string
	text string
}

type recordingNotifier struct {
	mu       sync.Mutex
	replies  []sentMessage
	pushes   []sentMessage
	replyErr error
	pushErr  map[string]error // by user id
	onPush   func()
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{pushErr: map[string]error{}}
}

func (n *recordingNotifier) Reply(ctx context.Context, replyToken, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.replyErr != nil {
		return n.replyErr
	}
	n.replies = append(n.replies, sentMessage{to: replyToken, text: text})
	return nil
}

func (n *recordingNotifier) Push(ctx context.Context, userID, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.onPush != nil {
		n.onPush()
	}
	if err := n.pushErr[userID]; err != nil {
		return err
	}
	n.pushes = append(n.pushes, sentMessage{to: userID, text: text})
	return nil
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
