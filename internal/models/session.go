package models

import "time"

// AdminSession is the moderation capability of one request. It is built
// from a verified admin token and passed to the moderation workflow; the
// zero value is locked.
type AdminSession struct {
	Authenticated bool
	TokenID       string
	ExpiresAt     time.Time
}

// Authorized reports whether the session unlocks moderation
func (s AdminSession) Authorized() bool {
	return s.Authenticated
}
