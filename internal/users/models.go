// Package users is the local credential store: accounts, their password
// hashes and the role each account plays on the platform.
package users

import (
	"time"

	"github.com/ntquang22298/study-chain/internal/identity"
)

// Account is a row of the users table.
type Account struct {
	Username     string        `db:"username"`
	PasswordHash string        `db:"password_hash"` // bcrypt digest, never the password
	Role         identity.Role `db:"role"`
	CreatedAt    time.Time     `db:"created_at"`
}

// Identity returns who the account acts as on the ledger.
func (a *Account) Identity() identity.Identity {
	return identity.Identity{Username: a.Username, Role: a.Role}
}
