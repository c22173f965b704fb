// Package hub, sentinel errors.
//
// These cover inbound payload validation only. Unresolvable recipients are
// not errors: relay to an offline identity is a silent drop, so no sentinel
// exists for it. The transport layer checks these with errors.Is and
// logs-and-drops rather than closing the offending connection.
package hub

import "errors"

var (
	// ErrMissingIdentity is returned when an event lacks the identity it is
	// attributed to (the "from" field, or the join identity itself).
	ErrMissingIdentity = errors.New("identity is empty")

	// ErrMissingRecipient is returned when a unicast event lacks its "to"
	// identity.
	ErrMissingRecipient = errors.New("recipient is empty")

	// ErrEmptyBody is returned when a message or journal entry has no text.
	ErrEmptyBody = errors.New("body is empty")

	// ErrNilConn is returned when an operation that needs a live connection
	// handle receives none.
	ErrNilConn = errors.New("connection handle is nil")
)
