package service

import (
	"time"

	"github.com/google/uuid"
)

type options struct {
	now   Clock
	newID func() string
}

// Option customizes a service.
type Option func(*options)

// WithClock replaces time.Now.
func WithClock(now Clock) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithIDGenerator replaces the reminder id generator.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) {
		o.newID = newID
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
