package events

import "context"

// Sink publishes live interview events for recruiter monitoring. Publishing is
// fire-and-forget; a lost event never affects interview state.
type Sink interface {
	Publish(ctx context.Context, sessionID string, payload any)
}
