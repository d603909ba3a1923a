package mail

import "context"

type Message struct {
	ToEmail  string
	ToName   string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers transactional mail. Delivery is an external collaborator;
// the core only reports per-recipient success or failure.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
