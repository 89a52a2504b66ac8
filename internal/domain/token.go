package domain

import "time"

// TokenClaims is what the admin gate needs from a verified bearer token.
type TokenClaims struct {
	UserID string
	Role   string
	Exp    time.Time
}
