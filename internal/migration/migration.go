// Package migration decides whether a user may be copied from the old user
// pool into the new one. It performs no I/O: callers fetch both records and
// pass them in.
package migration

import (
	"errors"

	"github.com/dnys1/lambda-migration/internal/cognito"
	"github.com/dnys1/lambda-migration/internal/idp"
)

var (
	ErrAlreadyMigrated     = errors.New("user already exists")
	ErrSourceNotFound      = errors.New("user not found in old pool")
	ErrUnverifiedSource    = errors.New("cannot migrate user with unverified email")
	ErrUndeliverableSource = errors.New("cannot migrate user with undeliverable email")
)

// Outcome is what the new pool is told to do with the migrated user.
type Outcome struct {
	MessageAction   string
	FinalUserStatus string
	UserAttributes  map[string]string
}

// Decide returns the migration outcome for username. existing is the user
// found in the new pool and source the one found in the old pool; nil means
// the pool has no such user.
func Decide(username string, existing, source *idp.User) (*Outcome, error) {
	if existing != nil {
		return nil, ErrAlreadyMigrated
	}
	if source == nil {
		return nil, ErrSourceNotFound
	}
	if !EmailVerified(source) {
		return nil, ErrUnverifiedSource
	}

	// usernames are email addresses in both pools
	return &Outcome{
		MessageAction:   cognito.MessageActionSuppress,
		FinalUserStatus: cognito.UserStatusConfirmed,
		UserAttributes: map[string]string{
			cognito.AttrEmail:         username,
			cognito.AttrEmailVerified: "true",
		},
	}, nil
}

// EmailVerified reports whether u carries email_verified set to exactly "true".
func EmailVerified(u *idp.User) bool {
	return u.Attribute(cognito.AttrEmailVerified) == "true"
}

// Apply writes o into the event response, leaving the rest of evt untouched.
func (o *Outcome) Apply(evt *cognito.UserMigrationEvent) {
	evt.Response.MessageAction = o.MessageAction
	evt.Response.FinalUserStatus = o.FinalUserStatus
	evt.Response.UserAttributes = o.UserAttributes
}
