package domain

import "time"

// AuthEventType classifies an entry in the authentication audit trail.
type AuthEventType string

const (
	AuthEventLoginSucceeded AuthEventType = "login_succeeded"
	AuthEventLoginFailed    AuthEventType = "login_failed"
	AuthEventRoleChanged    AuthEventType = "role_changed"
)

// AuthEvent is a single audit record. Username is the submitted name for
// failed logins, which may not exist.
type AuthEvent struct {
	Type       AuthEventType
	Username   string
	RemoteAddr string
	Detail     string
	At         time.Time
}
