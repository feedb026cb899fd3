package messaging

import (
	"context"
	"log/slog"
	"time"
)

// Discard drops every message after logging it at debug level. It backs the
// "none" driver for local runs without a broker.
type Discard struct{}

// Close implements io.Closer.
func (Discard) Close() error { return nil }

// Publish logs the destination and payload size.
func (Discard) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := validatePublish(ctx, destination); err != nil {
		return PublishResult{}, err
	}

	slog.DebugContext(ctx, "message discarded", "destination", destination, "bytes", len(msg.Body))
	return PublishResult{Topic: destination, Timestamp: time.Now()}, nil
}
