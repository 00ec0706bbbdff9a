// Package storage defines how chat logs are persisted and read back by the
// kiosk assistant and the analytics deck.
package storage

import (
	"context"
	"time"

	"github.com/papercomputeco/kiosk/pkg/chatlog"
)

// Driver defines the interface for persisting and retrieving chat logs in a
// storage backend.
type Driver interface {
	// Put stores a chat log. Storing a log whose ID already exists is a no-op.
	Put(ctx context.Context, log *chatlog.ChatLog) error

	// Get retrieves a chat log by its ID. Returns NotFoundError when absent.
	Get(ctx context.Context, id string) (*chatlog.ChatLog, error)

	// List returns chat logs matching opts, newest first.
	List(ctx context.Context, opts ListOptions) ([]chatlog.ChatLog, error)

	// Close closes the store and releases any resources.
	Close() error
}

// ListOptions bounds a List call. Zero times are unbounded and a Limit of
// zero or less returns every match.
type ListOptions struct {
	Since time.Time
	Until time.Time
	Limit int
}

// Matches reports whether ts falls within the options' bounds. Both bounds
// are inclusive.
func (o ListOptions) Matches(ts time.Time) bool {
	if !o.Since.IsZero() && ts.Before(o.Since) {
		return false
	}
	if !o.Until.IsZero() && ts.After(o.Until) {
		return false
	}
	return true
}

// FetchRecent returns the chat logs recorded during the last days days
// relative to now.
func FetchRecent(ctx context.Context, driver Driver, days int, now time.Time) ([]chatlog.ChatLog, error) {
	opts := ListOptions{}
	if days > 0 {
		opts.Since = now.AddDate(0, 0, -days)
	}
	return driver.List(ctx, opts)
}
