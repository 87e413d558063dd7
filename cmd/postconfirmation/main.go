package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/dnys1/lambda-migration/internal/config"
	"github.com/dnys1/lambda-migration/internal/handlers"
	"github.com/dnys1/lambda-migration/internal/log"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	log.SetFormat(cfg.AppLogFormat)
	log.SetLevel(cfg.AppLogLevel)
	log.MakeDefault()

	h, err := handlers.NewPostConfirmationHandler(cfg)
	if err != nil {
		log.Error("failed to init handler", "error", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}
