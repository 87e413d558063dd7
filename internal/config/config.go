package config

import (
	"os"
	"strings"
)

type Config struct {
	AppLogLevel                     string
	AppLogFormat                    string
	DebugEnabled                    bool
	DebugDataPath                   string
	DebugDirectoryPath              string
	Region                          string
	OldUserPoolID                   string
	AWSEndpointURL                  string // empty in prod, LocalStack URL in dev
	AWSAccessKeyID                  string
	AWSSecretAccessKey              string
	EmailVerificationEnabled        bool
	EmailVerificationWhitelist      *[]string
	SendGridApiHost                 string
	SendGridEmailVerificationApiKey string
}

func New() (*Config, error) {
	cfg := &Config{
		AppLogLevel:                     os.Getenv("APP_LOG_LEVEL"),
		AppLogFormat:                    os.Getenv("APP_LOG_FORMAT"),
		DebugEnabled:                    os.Getenv("APP_DEBUG_ENABLED") == "true",
		DebugDataPath:                   os.Getenv("APP_DEBUG_DATA_PATH"),
		DebugDirectoryPath:              os.Getenv("APP_DEBUG_DIRECTORY_PATH"),
		Region:                          strings.TrimSpace(os.Getenv("APP_REGION")),
		OldUserPoolID:                   strings.TrimSpace(os.Getenv("APP_OLD_USER_POOL_ID")),
		AWSEndpointURL:                  os.Getenv("APP_AWS_ENDPOINT_URL"),
		AWSAccessKeyID:                  os.Getenv("APP_AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey:              os.Getenv("APP_AWS_SECRET_ACCESS_KEY"),
		EmailVerificationEnabled:        os.Getenv("APP_EMAIL_VERIFICATION_ENABLED") == "true",
		SendGridApiHost:                 os.Getenv("APP_SENDGRID_API_HOST"),
		SendGridEmailVerificationApiKey: os.Getenv("APP_SENDGRID_EMAIL_VERIFICATION_API_KEY"),
	}

	// lambda always sets AWS_REGION
	if cfg.Region == "" {
		cfg.Region = os.Getenv("AWS_REGION")
	}

	evWhitelistStr := strings.TrimSpace(os.Getenv("APP_EMAIL_VERIFICATION_WHITELIST"))
	if evWhitelistStr != "" {
		evWhitelist := strings.Split(evWhitelistStr, ",")
		for i, x := range evWhitelist {
			evWhitelist[i] = strings.ToLower(strings.TrimSpace(x))
		}
		cfg.EmailVerificationWhitelist = &evWhitelist
	}

	if cfg.SendGridApiHost == "" {
		cfg.SendGridApiHost = "https://api.sendgrid.com"
	}

	if cfg.DebugEnabled {
		cfg.AppLogLevel = "debug"
	}

	return cfg, nil
}
