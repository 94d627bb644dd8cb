package dto

import "time"

// DeliverySummary reports the outcome of one scheduler invocation.
type DeliverySummary struct {
	WindowStart time.Time `json:"windowStart"`
	WindowEnd   time.Time `json:"windowEnd"`
	Found       int       `json:"remindersFound"`
	Sent        int       `json:"remindersSent"`
	Failed      int       `json:"remindersFailed"`
	Skipped     int       `json:"remindersSkipped"`
}
