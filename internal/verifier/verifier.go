package verifier

import "context"

type EmailVerificationResult struct {
	Score        float32 `json:"score"`
	IsValid      bool    `json:"valid"`
	IsDisposable bool    `json:"disposable"`
	IsRoleBased  bool    `json:"role"`
	Raw          string  `json:"raw"`
}

var DefaultValidResult = &EmailVerificationResult{
	Score:        100.0,
	IsValid:      true,
	IsDisposable: false,
	IsRoleBased:  false,
	Raw:          "{}",
}

// EmailVerifier checks whether an address can receive mail.
type EmailVerifier interface {
	VerifyEmail(ctx context.Context, email string) (*EmailVerificationResult, error)
}

// Noop accepts every address. Used when verification is disabled.
type Noop struct{}

func (Noop) VerifyEmail(ctx context.Context, email string) (*EmailVerificationResult, error) {
	return DefaultValidResult, nil
}
