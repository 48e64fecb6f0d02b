// Package ledger is the boundary to the academy ledger network.
//
// A Gateway opens a Session bound to exactly one caller identity. Sessions
// are owned by the request that opened them and must be closed when the
// request completes. Query and Invoke never fail with a Go error: every
// outcome, including transport failures, comes back as an Envelope so that
// callers have a single decision path.
package ledger

import (
	"context"

	"github.com/ntquang22298/study-chain/internal/identity"
)

// Gateway opens ledger sessions.
type Gateway interface {
	// Connect resolves the identity's credentials and the configured channel.
	// Any failure means the ledger is unavailable for this request.
	Connect(ctx context.Context, id identity.Identity) (Session, error)
}

// Session is a connection to the ledger scoped to one identity.
type Session interface {
	Identity() identity.Identity
	// Query evaluates a read-only chaincode function.
	Query(ctx context.Context, fn string, args ...string) Envelope
	// Invoke submits a state-changing chaincode function. Its effect is
	// unknown until the returned Envelope is observed.
	Invoke(ctx context.Context, fn string, args ...string) Envelope
	Close() error
}
