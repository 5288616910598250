// Package agent defines the delivery boundary. The engine treats delivery as
// an opaque, potentially slow, potentially failing external call.
package agent

import "context"

// Ack is the delivery transport's acknowledgement of a successful send.
// MessageID may be empty for transports that do not assign one.
type Ack struct {
	MessageID string
}

// DeliveryAgent performs the actual message transmission. attachment == ""
// means no attachment and must not be forwarded to the transport. A non-nil
// error marks the attempt failed; the engine never retries.
type DeliveryAgent interface {
	Deliver(ctx context.Context, recipient, body, attachment string) (Ack, error)
}
