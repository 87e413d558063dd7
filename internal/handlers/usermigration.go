package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dnys1/lambda-migration/internal/cognito"
	"github.com/dnys1/lambda-migration/internal/config"
	"github.com/dnys1/lambda-migration/internal/idp"
	"github.com/dnys1/lambda-migration/internal/log"
	"github.com/dnys1/lambda-migration/internal/migration"
	"github.com/dnys1/lambda-migration/internal/verifier"
)

const redacted = "[redacted]"

type UserMigrationHandler struct {
	Config        *config.Config
	Directory     idp.Directory
	EmailVerifier verifier.EmailVerifier
}

func NewUserMigrationHandler(cfg *config.Config) (*UserMigrationHandler, error) {
	if cfg.OldUserPoolID == "" {
		return nil, fmt.Errorf("old user pool id is empty")
	}

	ev, err := verifier.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("email verifier init error: %w", err)
	}

	return &UserMigrationHandler{
		Config:        cfg,
		Directory:     idp.NewLazyDirectory(cfg),
		EmailVerifier: ev,
	}, nil
}

func (h *UserMigrationHandler) Handle(ctx context.Context, evt cognito.UserMigrationEvent) (cognito.UserMigrationEvent, error) {
	debugEvent(h.Config, redactPassword(evt))

	l := log.ForInvocation(ctx,
		"trigger", evt.TriggerSource,
		"userPoolId", evt.UserPoolID,
		"userName", evt.UserName,
	)

	existing, err := h.lookupUser(ctx, l, evt.UserPoolID, evt.UserName)
	if err != nil {
		return evt, err
	}

	// an existing user ends the decision; the old pool is not consulted
	var source *idp.User
	if existing == nil {
		source, err = h.lookupUser(ctx, l, h.Config.OldUserPoolID, evt.UserName)
		if err != nil {
			return evt, err
		}
	}

	outcome, err := migration.Decide(evt.UserName, existing, source)
	if err != nil {
		l.Warn("migration rejected", "error", err)
		return evt, err
	}

	if err := h.checkDeliverable(ctx, l, evt.UserName); err != nil {
		l.Warn("migration rejected", "error", err)
		return evt, err
	}

	outcome.Apply(&evt)
	l.Info("migration accepted",
		"messageAction", evt.Response.MessageAction,
		"finalUserStatus", evt.Response.FinalUserStatus,
		"userAttributes", evt.Response.UserAttributes,
	)

	return evt, nil
}

// redactPassword returns a copy of evt safe to log. Only the request's
// password is replaced; maps are shared with evt and must not be modified.
func redactPassword(evt cognito.UserMigrationEvent) cognito.UserMigrationEvent {
	if evt.Request.Password != "" {
		evt.Request.Password = redacted
	}
	return evt
}

// lookupUser returns nil without error when the pool has no such user. Any
// other provider failure is returned so a transient error is never taken as
// absence.
func (h *UserMigrationHandler) lookupUser(ctx context.Context, l *slog.Logger, userPoolID, username string) (*idp.User, error) {
	u, err := h.Directory.GetUser(ctx, userPoolID, username)
	if errors.Is(err, idp.ErrUserNotFound) {
		l.Info("user not found in pool", "lookupPoolId", userPoolID)
		return nil, nil
	}
	if err != nil {
		l.Error("failed to look up user", "lookupPoolId", userPoolID, "error", err)
		return nil, err
	}

	l.Info("found user in pool",
		"lookupPoolId", userPoolID,
		"status", u.Status,
		"enabled", u.Enabled,
		"emailVerified", u.Attribute(cognito.AttrEmailVerified),
	)
	return u, nil
}

// checkDeliverable rejects addresses the verifier calls invalid. Verifier
// failures are logged and do not block the migration.
func (h *UserMigrationHandler) checkDeliverable(ctx context.Context, l *slog.Logger, email string) error {
	if h.EmailVerifier == nil {
		return nil
	}

	result, err := h.EmailVerifier.VerifyEmail(ctx, email)
	if err != nil {
		l.Warn("email verification error", "error", err)
		return nil
	}
	if result != nil && !result.IsValid {
		l.Info("email failed verification", "score", result.Score)
		return migration.ErrUndeliverableSource
	}
	return nil
}
