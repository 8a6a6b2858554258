package domain

import "time"

// AuthEventType classifies entries in the audit trail.
type AuthEventType string

const (
	EventSignup       AuthEventType = "signup"
	EventLoginSuccess AuthEventType = "login_success"
	EventLoginFailure AuthEventType = "login_failure"
	EventLogout       AuthEventType = "logout"
	EventPromote      AuthEventType = "promote"
	EventDemote       AuthEventType = "demote"
)

// AuthEvent records one authentication-related action for the audit trail.
// Subject is the email of the account the action concerns.
type AuthEvent struct {
	Type      AuthEventType
	Subject   string
	Actor     string // username of the session performing the action, if any
	Timestamp time.Time
}
