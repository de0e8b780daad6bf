package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserEventType names an account lifecycle event.
type UserEventType string

const (
	EventUserRegistered UserEventType = "user_registered"
	EventUserLoggedIn   UserEventType = "user_logged_in"
	EventUserLoggedOut  UserEventType = "user_logged_out"
	EventUserUpdated    UserEventType = "user_updated"
)

// UserEvent is published for downstream consumers after an account changes
// state.
type UserEvent struct {
	ID         string        `json:"id"`
	Type       UserEventType `json:"type"`
	UserID     string        `json:"user_id"`
	Email      string        `json:"email,omitempty"`
	Role       string        `json:"role,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// NewUserEvent stamps an event for u with a fresh id.
func NewUserEvent(t UserEventType, u *User) UserEvent {
	e := UserEvent{
		ID:         uuid.NewString(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
	}
	if u != nil {
		e.UserID = u.ID
		e.Email = u.Email
		e.Role = u.Role
	}
	return e
}
