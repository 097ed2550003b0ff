package domain

import "time"

// TokenType tags a token with the context it may be verified in.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Valid reports whether t is a known token type.
func (t TokenType) Valid() bool {
	return t == TokenTypeAccess || t == TokenTypeRefresh
}

// TokenClaim is the set of facts a signed token asserts.
type TokenClaim struct {
	Subject   string
	ExpiresAt time.Time
	Type      TokenType
}
