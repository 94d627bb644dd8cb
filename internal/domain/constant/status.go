package constant

// ReminderStatus is the delivery state of a reminder record.
// The only transition is StatusPending -> StatusSent.
type ReminderStatus string

const (
	// StatusPending represents a reminder that has not been delivered yet.
	StatusPending ReminderStatus = "pending" // 未送信
	// StatusSent represents a reminder that was pushed to the user.
	StatusSent ReminderStatus = "sent" // 送信済み
)

func (s ReminderStatus) String() string {
	return string(s)
}
