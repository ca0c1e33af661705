package domain

import "strings"

// TokenKind tags the entity namespace a capability token belongs to. The
// tag is mixed into the derivation so an event token can never resolve as
// a guest token even if the underlying ids collide.
type TokenKind string

const (
	TokenKindEvent TokenKind = "event"
	TokenKindGuest TokenKind = "guest"
)

// TokenSource derives capability tokens. A token is the sole credential
// for the entity it names: anyone holding it has full rights scoped to
// that entity. Derivation is deterministic, so a token is stable for the
// entity's lifetime; rotating the underlying secret invalidates every
// outstanding link and is an explicit administrative act.
type TokenSource interface {
	Derive(kind TokenKind, id string) string
}

// CanonicalToken strips trailing periods from a token received over the
// wire. Email clients and URL auto-linkers commonly glue sentence
// punctuation onto invite links; the canonical token never ends in '.'.
func CanonicalToken(token string) string {
	return strings.TrimRight(token, ".")
}
