package utils

import (
	"context"

	"github.com/sirupsen/logrus"

	"stayvia/globals"
)

// Log returns the request-scoped logger, or the standard logger outside a request.
func Log(ctx context.Context) *logrus.Entry {
	if ctx != nil {
		if entry, ok := ctx.Value(globals.LoggerKey).(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

func WithLogger(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, globals.LoggerKey, entry)
}

// WithRequestID tags ctx with the id of the inbound request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, globals.RequestIDKey, id)
}

// RequestID is the inbound request id, or "" outside a request.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(globals.RequestIDKey).(string)
	return id
}
