package e2e

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/dnys1/lambda-migration/internal/cognito"
	"github.com/dnys1/lambda-migration/internal/config"
	"github.com/dnys1/lambda-migration/internal/handlers"
	"github.com/dnys1/lambda-migration/internal/idp"
	"github.com/dnys1/lambda-migration/internal/migration"
)

const (
	oldPool = "local_old"
	newPool = "local_new"
)

func newDirectory(t *testing.T) *idp.MemoryDirectory {
	t.Helper()
	d, err := idp.LoadMemoryDirectory(filepath.Join("..", "fixtures", "debug-directory.json"))
	if err != nil {
		t.Fatalf("load directory: %v", err)
	}
	return d
}

func newMigrationHandler(t *testing.T, dir idp.Directory) *handlers.UserMigrationHandler {
	t.Helper()
	cfg := &config.Config{AppLogLevel: "debug", OldUserPoolID: oldPool}
	h, err := handlers.NewUserMigrationHandler(cfg)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	h.Directory = dir
	return h
}

func migrationEvent(userName string) cognito.UserMigrationEvent {
	evt := cognito.UserMigrationEvent{}
	evt.TriggerSource = cognito.TriggerUserMigrationAuthentication
	evt.UserPoolID = newPool
	evt.UserName = userName
	return evt
}

// completeMigration stands in for cognito creating the user from the
// migration response.
func completeMigration(dir *idp.MemoryDirectory, evt cognito.UserMigrationEvent) {
	dir.Put(evt.UserPoolID, idp.User{
		Username:   evt.UserName,
		Status:     evt.Response.FinalUserStatus,
		Enabled:    true,
		Attributes: evt.Response.UserAttributes,
	})
}

func TestMigrate_ThenRejectSecondAttempt(t *testing.T) {
	dir := newDirectory(t)
	h := newMigrationHandler(t, dir)

	out, err := h.Handle(context.Background(), migrationEvent("verified@example.com"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Response.MessageAction != "SUPPRESS" || out.Response.FinalUserStatus != "CONFIRMED" {
		t.Fatalf("unexpected response: %+v", out.Response)
	}
	if out.Response.UserAttributes["email"] != "verified@example.com" || out.Response.UserAttributes["email_verified"] != "true" {
		t.Fatalf("unexpected user attributes: %v", out.Response.UserAttributes)
	}

	completeMigration(dir, out)

	for i := 0; i < 2; i++ {
		_, err = h.Handle(context.Background(), migrationEvent("verified@example.com"))
		if !errors.Is(err, migration.ErrAlreadyMigrated) {
			t.Fatalf("attempt %d: expected already migrated, got %v", i, err)
		}
	}
}

func TestMigrate_Rejections(t *testing.T) {
	dir := newDirectory(t)
	h := newMigrationHandler(t, dir)

	cases := map[string]error{
		"migrated@example.com":   migration.ErrAlreadyMigrated,
		"nobody@example.com":     migration.ErrSourceNotFound,
		"unverified@example.com": migration.ErrUnverifiedSource,
	}
	for userName, want := range cases {
		out, err := h.Handle(context.Background(), migrationEvent(userName))
		if !errors.Is(err, want) {
			t.Fatalf("%s: expected %v, got %v", userName, want, err)
		}
		if out.Response.MessageAction != "" || out.Response.UserAttributes != nil {
			t.Fatalf("%s: expected empty response, got %+v", userName, out.Response)
		}
	}
}

func TestMigrate_ResponseWireFormat(t *testing.T) {
	h := newMigrationHandler(t, newDirectory(t))

	out, err := h.Handle(context.Background(), migrationEvent("verified@example.com"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var wire struct {
		UserName   string                     `json:"userName"`
		UserPoolID string                     `json:"userPoolId"`
		Response   map[string]json.RawMessage `json:"response"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if wire.UserName != "verified@example.com" || wire.UserPoolID != newPool {
		t.Fatalf("unexpected header: %s", raw)
	}
	for _, k := range []string{"messageAction", "finalUserStatus", "userAttributes"} {
		if _, ok := wire.Response[k]; !ok {
			t.Fatalf("response missing %q: %s", k, raw)
		}
	}
	if _, ok := wire.Response["desiredDeliveryMediums"]; ok {
		t.Fatalf("unset field serialized: %s", raw)
	}
}

func TestPostConfirmation_FromFixtures(t *testing.T) {
	dir := newDirectory(t)
	h, err := handlers.NewPostConfirmationHandler(&config.Config{})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	h.Directory = dir

	data, err := os.ReadFile(filepath.Join("..", "fixtures", "debug-postconfirmation.json"))
	if err != nil {
		t.Fatalf("read fixtures: %v", err)
	}
	evts := []events.CognitoEventUserPoolsPostConfirmation{}
	if err := json.Unmarshal(data, &evts); err != nil {
		t.Fatalf("parse fixtures: %v", err)
	}

	for i, e := range evts {
		if _, err := h.Handle(context.Background(), e); err != nil {
			t.Fatalf("event %d: unexpected error: %v", i, err)
		}
	}

	calls := dir.MFACalls()
	if len(calls) != 1 {
		t.Fatalf("expected exactly one mfa call, got %d", len(calls))
	}
	if calls[0].Username != "phone@example.com" || calls[0].UserPoolID != newPool {
		t.Fatalf("unexpected mfa call: %+v", calls[0])
	}
	if !calls[0].Preference.Enabled || !calls[0].Preference.Preferred {
		t.Fatalf("expected sms enabled and preferred, got %+v", calls[0].Preference)
	}
}

func TestPostConfirmation_ProviderFailureAborts(t *testing.T) {
	dir := newDirectory(t)
	dir.SetMFAErr = errors.New("throttled")

	h, err := handlers.NewPostConfirmationHandler(&config.Config{})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	h.Directory = dir

	evt := events.CognitoEventUserPoolsPostConfirmation{}
	evt.UserPoolID = newPool
	evt.UserName = "phone@example.com"
	evt.Request.UserAttributes = map[string]string{"phone_number": "+15555550100", "phone_number_verified": "true"}

	if _, err := h.Handle(context.Background(), evt); !errors.Is(err, idp.ErrIdentityProvider) {
		t.Fatalf("expected provider error, got %v", err)
	}
}
