package handlers

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/dnys1/lambda-migration/internal/cognito"
	"github.com/dnys1/lambda-migration/internal/config"
	"github.com/dnys1/lambda-migration/internal/idp"
	"github.com/dnys1/lambda-migration/internal/log"
)

type PostConfirmationHandler struct {
	Config    *config.Config
	Directory idp.Directory
}

func NewPostConfirmationHandler(cfg *config.Config) (*PostConfirmationHandler, error) {
	return &PostConfirmationHandler{
		Config:    cfg,
		Directory: idp.NewLazyDirectory(cfg),
	}, nil
}

// Handle enables SMS as the preferred MFA method once the user has a
// verified phone number. The event is returned as received.
func (h *PostConfirmationHandler) Handle(ctx context.Context, evt events.CognitoEventUserPoolsPostConfirmation) (events.CognitoEventUserPoolsPostConfirmation, error) {
	debugEvent(h.Config, evt)

	l := log.ForInvocation(ctx,
		"trigger", evt.TriggerSource,
		"userPoolId", evt.UserPoolID,
		"userName", evt.UserName,
	)

	phoneNumber := evt.Request.UserAttributes[cognito.AttrPhoneNumber]
	phoneNumberVerified := evt.Request.UserAttributes[cognito.AttrPhoneNumberVerified]
	if phoneNumber == "" || phoneNumberVerified != "true" {
		l.Info("no verified phone number, skipping sms mfa",
			"hasPhoneNumber", phoneNumber != "",
			"phoneNumberVerified", phoneNumberVerified,
		)
		return evt, nil
	}

	pref := idp.SMSMFAPreference{Enabled: true, Preferred: true}
	if err := h.Directory.SetSMSMFAPreference(ctx, evt.UserPoolID, evt.UserName, pref); err != nil {
		l.Error("failed to enable sms mfa", "error", err)
		return evt, err
	}

	l.Info("enabled sms mfa")
	return evt, nil
}
