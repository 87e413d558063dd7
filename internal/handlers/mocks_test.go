package handlers

import (
	"context"

	"github.com/dnys1/lambda-migration/internal/idp"
	"github.com/dnys1/lambda-migration/internal/verifier"
	"github.com/stretchr/testify/mock"
)

type mockDirectory struct{ mock.Mock }

func (m *mockDirectory) GetUser(ctx context.Context, userPoolID, username string) (*idp.User, error) {
	args := m.Called(ctx, userPoolID, username)
	if u, _ := args.Get(0).(*idp.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDirectory) SetSMSMFAPreference(ctx context.Context, userPoolID, username string, pref idp.SMSMFAPreference) error {
	return m.Called(ctx, userPoolID, username, pref).Error(0)
}

// mockVerifier implements verifier.EmailVerifier without any network
type mockVerifier struct {
	calls   int
	isValid bool
	err     error
}

func (m *mockVerifier) VerifyEmail(ctx context.Context, email string) (*verifier.EmailVerificationResult, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &verifier.EmailVerificationResult{Score: 50, IsValid: m.isValid, Raw: "{}"}, nil
}
