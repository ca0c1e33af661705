package services

import "strings"

// Links builds the URLs embedded in outgoing emails. The token is the only
// credential in either link.
type Links struct {
	BaseURL string
}

func (l Links) base() string {
	return strings.TrimRight(l.BaseURL, "/")
}

// InviteURL returns the guest-facing invitation URL for a guest token.
func (l Links) InviteURL(token string) string {
	return l.base() + "/invites/" + token
}

// ManageURL returns the organizer-facing management URL for an event token.
func (l Links) ManageURL(token string) string {
	return l.base() + "/events/" + token
}
