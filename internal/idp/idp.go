// Package idp wraps the identity provider operations the hooks depend on:
// looking up a user in a pool and setting a user's MFA preference.
package idp

import (
	"context"
	"errors"
	"fmt"
)

// ErrUserNotFound is returned when the pool has no user with that name.
var ErrUserNotFound = errors.New("user not found")

// ErrIdentityProvider marks every failure of the identity provider itself.
var ErrIdentityProvider = errors.New("identity provider error")

type User struct {
	Username   string            `json:"username"`
	Status     string            `json:"status,omitempty"`
	Enabled    bool              `json:"enabled"`
	Attributes map[string]string `json:"attributes"`
}

// Attribute returns the named attribute, empty when unset.
func (u *User) Attribute(name string) string {
	if u == nil || u.Attributes == nil {
		return ""
	}
	return u.Attributes[name]
}

type SMSMFAPreference struct {
	Enabled   bool `json:"enabled"`
	Preferred bool `json:"preferred"`
}

type Directory interface {
	GetUser(ctx context.Context, userPoolID, username string) (*User, error)
	SetSMSMFAPreference(ctx context.Context, userPoolID, username string, pref SMSMFAPreference) error
}

// ProviderError carries the failing operation and, when the provider
// reported one, its API error code.
type ProviderError struct {
	Op         string
	UserPoolID string
	Username   string
	Code       string
	Err        error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: %s user %q in pool %q", ErrIdentityProvider, e.Op, e.Username, e.UserPoolID)
	if e.Code != "" {
		msg += " (" + e.Code + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func (e *ProviderError) Is(target error) bool {
	return target == ErrIdentityProvider
}
