package idp

import (
	"context"
	"sync"

	"github.com/dnys1/lambda-migration/internal/config"
)

// LazyDirectory builds its Cognito client on first use and reuses it for the
// lifetime of the process, so warm invocations share one connection pool.
type LazyDirectory struct {
	load func() (Directory, error)
}

func NewLazyDirectory(cfg *config.Config) *LazyDirectory {
	return NewLazyDirectoryFunc(func() (Directory, error) {
		// not tied to any invocation ctx: the client outlives it
		client, err := NewCognitoClient(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		return NewCognitoDirectory(client), nil
	})
}

// NewLazyDirectoryFunc defers to build, which runs at most once. A build
// failure is kept and returned on every call.
func NewLazyDirectoryFunc(build func() (Directory, error)) *LazyDirectory {
	return &LazyDirectory{load: sync.OnceValues(build)}
}

func (d *LazyDirectory) GetUser(ctx context.Context, userPoolID, username string) (*User, error) {
	dir, err := d.load()
	if err != nil {
		return nil, &ProviderError{Op: "init client to get", UserPoolID: userPoolID, Username: username, Err: err}
	}
	return dir.GetUser(ctx, userPoolID, username)
}

func (d *LazyDirectory) SetSMSMFAPreference(ctx context.Context, userPoolID, username string, pref SMSMFAPreference) error {
	dir, err := d.load()
	if err != nil {
		return &ProviderError{Op: "init client to set mfa preference for", UserPoolID: userPoolID, Username: username, Err: err}
	}
	return dir.SetSMSMFAPreference(ctx, userPoolID, username, pref)
}
