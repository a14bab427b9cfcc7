package protocol

// Recipient is a best-effort outbound message sink, one per connected
// client. Send must never block the caller: a full or closed recipient
// drops the payload and returns false. The table engine treats send
// failures as non-errors.
type Recipient interface {
	Send(payload []byte) bool
}
