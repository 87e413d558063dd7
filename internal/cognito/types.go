package cognito

import (
	"github.com/aws/aws-lambda-go/events"
)

const (
	TriggerUserMigrationAuthentication  = "UserMigration_Authentication"
	TriggerUserMigrationForgotPassword  = "UserMigration_ForgotPassword"
	TriggerPostConfirmationSignUp       = "PostConfirmation_ConfirmSignUp"
	TriggerPostConfirmationForgotPasswd = "PostConfirmation_ConfirmForgotPassword"
)

const (
	MessageActionSuppress = "SUPPRESS"
	UserStatusConfirmed   = "CONFIRMED"
)

const (
	AttrEmail               = "email"
	AttrEmailVerified       = "email_verified"
	AttrPhoneNumber         = "phone_number"
	AttrPhoneNumberVerified = "phone_number_verified"
)

// structs below declared locally so an untouched response serializes without
// zero-value fields cognito would try to apply

type UserMigrationEvent struct {
	events.CognitoEventUserPoolsHeader
	Request  UserMigrationRequest  `json:"request"`
	Response UserMigrationResponse `json:"response"`
}

type UserMigrationRequest struct {
	Password       string            `json:"password,omitempty"`
	ValidationData map[string]string `json:"validationData,omitempty"`
	ClientMetadata map[string]string `json:"clientMetadata,omitempty"`
}

type UserMigrationResponse struct {
	UserAttributes         map[string]string `json:"userAttributes,omitempty"`
	FinalUserStatus        string            `json:"finalUserStatus,omitempty"`
	MessageAction          string            `json:"messageAction,omitempty"`
	DesiredDeliveryMediums []string          `json:"desiredDeliveryMediums,omitempty"`
	ForceAliasCreation     bool              `json:"forceAliasCreation,omitempty"`
}
