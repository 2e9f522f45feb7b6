package errors

var (
	ErrUnauthorized     = New(401, "unauthorized")
	ErrNotFound         = New(404, "not found")
	ErrPermissionDenied = New(403, "permission denied")
	ErrInvalidInput     = New(400, "invalid input")
	ErrInternal         = New(500, "internal error happened")
)

// Channel/signal boundary errors.
var (
	// ErrChannelClosed is returned by Receiver.Next/SharedReceiver.Next when
	// the channel has been closed and fully drained. It is a normal
	// termination signal for a consumer, not a logical error.
	ErrChannelClosed = New(1001, "channel closed")

	// ErrChannelAlreadyClosed is returned when constructing a Receiver
	// against a channel that is already closed. Channel.Sender does not
	// check the closed flag and never fails; pushes through such a Sender
	// are silent no-ops.
	ErrChannelAlreadyClosed = New(1002, "channel already closed")

	// ErrReceiverAlreadyTaken is returned when a second Receiver is
	// constructed against a channel that already has one.
	ErrReceiverAlreadyTaken = New(1003, "receiver already taken")

	// ErrInvalidSignal is returned when running a Signal that holds neither
	// a Receiver nor a SharedReceiver (for example a zero-value Signal).
	ErrInvalidSignal = New(1004, "invalid signal: receiver unavailable")
)
