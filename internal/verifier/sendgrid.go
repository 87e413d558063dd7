package verifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/mail"
	"slices"
	"strings"

	"github.com/dnys1/lambda-migration/internal/config"
	"github.com/dnys1/lambda-migration/internal/log"
	"github.com/sendgrid/sendgrid-go"
)

const validationSource = "cognito-migration"

type sendGridValidationRequest struct {
	Email  string `json:"email"`
	Source string `json:"source"`
}

type sendGridValidationResult struct {
	Email   string  `json:"email"`
	Verdict string  `json:"verdict"`
	Score   float32 `json:"score"`
	Checks  struct {
		Domain struct {
			IsSuspectedDisposableAddress bool `json:"is_suspected_disposable_address"`
		} `json:"domain"`
		LocalPart struct {
			IsSuspectedRoleAddress bool `json:"is_suspected_role_address"`
		} `json:"local_part"`
	} `json:"checks"`
}

type sendGridValidationResponse struct {
	Result sendGridValidationResult `json:"result"`
}

type SendGridEmailVerifier struct {
	APIHost   string
	APIKey    string
	Whitelist []string
}

func NewSendGridVerifier(cfg *config.Config) (*SendGridEmailVerifier, error) {
	if cfg.SendGridEmailVerificationApiKey == "" {
		return nil, fmt.Errorf("sendgrid api key is empty")
	}

	v := &SendGridEmailVerifier{
		APIHost: cfg.SendGridApiHost,
		APIKey:  cfg.SendGridEmailVerificationApiKey,
	}
	if cfg.EmailVerificationWhitelist != nil {
		v.Whitelist = *cfg.EmailVerificationWhitelist
	}
	return v, nil
}

// New returns the verifier selected by cfg: SendGrid when email verification
// is enabled, Noop otherwise.
func New(cfg *config.Config) (EmailVerifier, error) {
	if !cfg.EmailVerificationEnabled {
		return Noop{}, nil
	}
	return NewSendGridVerifier(cfg)
}

func (v *SendGridEmailVerifier) VerifyEmail(ctx context.Context, email string) (*EmailVerificationResult, error) {
	if v.whitelisted(email) {
		log.Debug("email domain was on whitelist", "email", email)
		return DefaultValidResult, nil
	}
	return v.VerifyEmailViaAPI(ctx, email)
}

func (v *SendGridEmailVerifier) whitelisted(email string) bool {
	if len(v.Whitelist) == 0 {
		return false
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}

	at := strings.LastIndex(addr.Address, "@")
	if at == -1 || at == len(addr.Address)-1 {
		return false
	}

	return slices.Contains(v.Whitelist, strings.ToLower(addr.Address[at+1:]))
}

func (v *SendGridEmailVerifier) VerifyEmailViaAPI(ctx context.Context, email string) (*EmailVerificationResult, error) {
	body, err := json.Marshal(sendGridValidationRequest{Email: email, Source: validationSource})
	if err != nil {
		return nil, fmt.Errorf("sendgrid marshal error: %w", err)
	}

	request := sendgrid.GetRequest(v.APIKey, "/v3/validations/email", v.APIHost)
	request.Method = "POST"
	request.Body = body

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("sendgrid api error: %w", err)
	}
	if response.StatusCode >= 300 {
		return nil, fmt.Errorf("sendgrid api error: status %d", response.StatusCode)
	}

	return parseValidationResponse(response.Body)
}

func parseValidationResponse(body string) (*EmailVerificationResult, error) {
	var payload sendGridValidationResponse
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, fmt.Errorf("sendgrid unmarshal error: %w", err)
	}

	result := payload.Result
	return &EmailVerificationResult{
		Score:        result.Score,
		IsValid:      result.Verdict != "Invalid",
		IsDisposable: result.Checks.Domain.IsSuspectedDisposableAddress,
		IsRoleBased:  result.Checks.LocalPart.IsSuspectedRoleAddress,
		Raw:          body,
	}, nil
}
