package idp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"sync"
)

type MFAPreferenceCall struct {
	UserPoolID string           `json:"userPoolId"`
	Username   string           `json:"username"`
	Preference SMSMFAPreference `json:"preference"`
}

// MemoryDirectory is an in-process Directory keyed by pool id and username.
// GetUserErr and SetMFAErr, when set, are returned instead of touching the
// stored users.
type MemoryDirectory struct {
	mu         sync.Mutex
	pools      map[string]map[string]*User
	mfaCalls   []MFAPreferenceCall
	getCalls   int
	GetUserErr error
	SetMFAErr  error
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{pools: map[string]map[string]*User{}}
}

// LoadMemoryDirectory reads a JSON object of pool id to user list.
func LoadMemoryDirectory(path string) (*MemoryDirectory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	seed := map[string][]User{}
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse directory file %s: %w", path, err)
	}

	d := NewMemoryDirectory()
	for poolID, users := range seed {
		for _, u := range users {
			d.Put(poolID, u)
		}
	}
	return d, nil
}

// Put stores a copy of u in the pool, replacing any user with the same name.
func (d *MemoryDirectory) Put(userPoolID string, u User) {
	d.mu.Lock()
	defer d.mu.Unlock()

	pool, ok := d.pools[userPoolID]
	if !ok {
		pool = map[string]*User{}
		d.pools[userPoolID] = pool
	}
	u.Attributes = maps.Clone(u.Attributes)
	pool[u.Username] = &u
}

func (d *MemoryDirectory) GetUser(ctx context.Context, userPoolID, username string) (*User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.getCalls++
	if d.GetUserErr != nil {
		return nil, &ProviderError{Op: "get", UserPoolID: userPoolID, Username: username, Err: d.GetUserErr}
	}

	u, ok := d.pools[userPoolID][username]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	cp.Attributes = maps.Clone(u.Attributes)
	return &cp, nil
}

func (d *MemoryDirectory) SetSMSMFAPreference(ctx context.Context, userPoolID, username string, pref SMSMFAPreference) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.SetMFAErr != nil {
		return &ProviderError{Op: "set mfa preference for", UserPoolID: userPoolID, Username: username, Err: d.SetMFAErr}
	}
	if _, ok := d.pools[userPoolID][username]; !ok {
		return &ProviderError{Op: "set mfa preference for", UserPoolID: userPoolID, Username: username, Code: "UserNotFoundException", Err: errors.New("user does not exist")}
	}

	d.mfaCalls = append(d.mfaCalls, MFAPreferenceCall{UserPoolID: userPoolID, Username: username, Preference: pref})
	return nil
}

// MFACalls returns the SetSMSMFAPreference calls that succeeded, in order.
func (d *MemoryDirectory) MFACalls() []MFAPreferenceCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]MFAPreferenceCall(nil), d.mfaCalls...)
}

func (d *MemoryDirectory) GetUserCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.getCalls
}
