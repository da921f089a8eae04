package remove_waitlist_entry

import "context"

type WaitlistService interface {
	Remove(ctx context.Context, entryID int64, clientID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
