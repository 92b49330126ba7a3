package sinks

import "context"

// Sink delivers resolved lookup events to a downstream destination (HTTP, SQS, SNS, Pub/Sub).
type Sink interface {
	ID() string
	Type() string
	Send(ctx context.Context, evt Event) error
}
