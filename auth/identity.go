package auth

import (
	"github.com/google/uuid"
)

// Identity is the authenticated caller. It is extracted from a verified
// token by the auth middleware and passed explicitly to services; it is
// never stored in package-level state.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

func (i Identity) IsZero() bool {
	return i.UserID == uuid.Nil
}
