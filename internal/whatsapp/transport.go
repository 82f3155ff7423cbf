package whatsapp

import "context"

// TransportEventType identifies the closed set of events a transport emits.
type TransportEventType string

const (
	// TransportDisconnected signals the underlying connection dropped.
	TransportDisconnected TransportEventType = "disconnected"
	// TransportPairingRequired signals the gateway needs a one-time QR scan.
	TransportPairingRequired TransportEventType = "pairing_required"
)

// TransportEvent is an asynchronous notification from the transport.
type TransportEvent struct {
	Type TransportEventType
	// PairingCode carries the QR payload for pairing_required events.
	PairingCode string
}

// Transport abstracts the external WhatsApp connection. The production
// implementation talks to an HTTP gateway; tests substitute a fake.
type Transport interface {
	// Connect establishes (or resumes) the session. First-time pairing is
	// surfaced asynchronously on Events; Connect blocks until the session
	// is usable or ctx expires.
	Connect(ctx context.Context) error
	// Send delivers text to a normalized phone number and returns a
	// provider-side detail (message id) on success.
	Send(ctx context.Context, phone, text string) (string, error)
	// Events streams disconnect and pairing notifications.
	Events() <-chan TransportEvent
	// Close releases the connection and stops event emission.
	Close() error
}
