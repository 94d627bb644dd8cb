package service

import (
	"context"
	"time"
)

// Notifier delivers text to a LINE user.
type Notifier interface {
	// Reply answers an inbound event identified by its reply token.
	Reply(ctx context.Context, replyToken, text string) error
	// Push sends a proactive message to userID.
	Push(ctx context.Context, userID, text string) error
}

// Clock returns the current time.
type Clock func() time.Time
