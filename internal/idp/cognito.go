package idp

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
	"github.com/dnys1/lambda-migration/internal/config"
)

type cognitoAPI interface {
	AdminGetUser(ctx context.Context, params *cip.AdminGetUserInput, optFns ...func(*cip.Options)) (*cip.AdminGetUserOutput, error)
	AdminSetUserMFAPreference(ctx context.Context, params *cip.AdminSetUserMFAPreferenceInput, optFns ...func(*cip.Options)) (*cip.AdminSetUserMFAPreferenceOutput, error)
}

type CognitoDirectory struct {
	api cognitoAPI
}

func NewCognitoDirectory(api cognitoAPI) *CognitoDirectory {
	return &CognitoDirectory{api: api}
}

// NewCognitoClient builds a Cognito client for cfg.Region. When
// cfg.AWSEndpointURL is set (LocalStack) all traffic goes to that endpoint.
func NewCognitoClient(ctx context.Context, cfg *config.Config) (*cip.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	clientOpts := []func(*cip.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *cip.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}

	return cip.NewFromConfig(awsCfg, clientOpts...), nil
}

func (d *CognitoDirectory) GetUser(ctx context.Context, userPoolID, username string) (*User, error) {
	out, err := d.api.AdminGetUser(ctx, &cip.AdminGetUserInput{
		UserPoolId: aws.String(userPoolID),
		Username:   aws.String(username),
	})
	if err != nil {
		var nf *types.UserNotFoundException
		if errors.As(err, &nf) {
			return nil, ErrUserNotFound
		}
		return nil, providerError("get", userPoolID, username, err)
	}

	u := &User{
		Username:   aws.ToString(out.Username),
		Status:     string(out.UserStatus),
		Enabled:    out.Enabled,
		Attributes: make(map[string]string, len(out.UserAttributes)),
	}
	for _, a := range out.UserAttributes {
		u.Attributes[aws.ToString(a.Name)] = aws.ToString(a.Value)
	}
	return u, nil
}

func (d *CognitoDirectory) SetSMSMFAPreference(ctx context.Context, userPoolID, username string, pref SMSMFAPreference) error {
	_, err := d.api.AdminSetUserMFAPreference(ctx, &cip.AdminSetUserMFAPreferenceInput{
		UserPoolId: aws.String(userPoolID),
		Username:   aws.String(username),
		SMSMfaSettings: &types.SMSMfaSettingsType{
			Enabled:      pref.Enabled,
			PreferredMfa: pref.Preferred,
		},
	})
	if err != nil {
		return providerError("set mfa preference for", userPoolID, username, err)
	}
	return nil
}

func providerError(op, userPoolID, username string, err error) *ProviderError {
	pe := &ProviderError{Op: op, UserPoolID: userPoolID, Username: username, Err: err}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		pe.Code = apiErr.ErrorCode()
	}
	return pe
}
