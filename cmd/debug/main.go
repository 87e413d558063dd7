package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-lambda-go/events"
	"github.com/dnys1/lambda-migration/internal/cognito"
	"github.com/dnys1/lambda-migration/internal/config"
	"github.com/dnys1/lambda-migration/internal/handlers"
	"github.com/dnys1/lambda-migration/internal/idp"
	"github.com/dnys1/lambda-migration/internal/log"
	"github.com/joho/godotenv"
)

var (
	trigger       string
	dataPath      string
	directoryPath string
)

func init() {
	flag.StringVar(&trigger, "trigger", "usermigration", "hook to run: usermigration or postconfirmation")
	flag.StringVar(&dataPath, "data", "", "path to JSON file with test event data")
	flag.StringVar(&directoryPath, "directory", "", "path to JSON file seeding an in-memory directory; cognito is used when empty")
	flag.Parse()
}

func NewDebugConfig() (*config.Config, error) {
	envpath := filepath.Join(".env")
	if _, err := os.Stat(envpath); err == nil {
		_ = godotenv.Load(envpath)
	}

	cfg, err := config.New()
	if err != nil {
		return nil, err
	}

	if cfg.DebugDataPath == "" {
		cfg.DebugDataPath = filepath.Join("fixtures", "debug-"+trigger+".json")
	}
	if dataPath != "" {
		cfg.DebugDataPath = dataPath
	}

	if directoryPath != "" {
		cfg.DebugDirectoryPath = directoryPath
	}

	if cfg.OldUserPoolID == "" && cfg.DebugDirectoryPath != "" {
		cfg.OldUserPoolID = "local_old"
	}

	return cfg, nil
}

func directory(cfg *config.Config) (idp.Directory, error) {
	if cfg.DebugDirectoryPath == "" {
		return idp.NewLazyDirectory(cfg), nil
	}
	return idp.LoadMemoryDirectory(cfg.DebugDirectoryPath)
}

func main() {
	cfg, err := NewDebugConfig()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	log.SetFormat(cfg.AppLogFormat)
	log.SetLevel(cfg.AppLogLevel)
	log.MakeDefault()

	dir, err := directory(cfg)
	if err != nil {
		log.Error("failed to init directory", "error", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(cfg.DebugDataPath)
	if err != nil {
		log.Error("failed to read data file", "path", cfg.DebugDataPath, "error", err)
		os.Exit(1)
	}

	switch trigger {
	case "usermigration":
		err = runUserMigration(cfg, dir, data)
	case "postconfirmation":
		err = runPostConfirmation(cfg, dir, data)
	default:
		err = fmt.Errorf("unknown trigger %q", trigger)
	}
	if err != nil {
		log.Error("integration test aborted", "error", err)
		os.Exit(1)
	}

	log.Info("integration test completed")
}

func runUserMigration(cfg *config.Config, dir idp.Directory, data []byte) error {
	h, err := handlers.NewUserMigrationHandler(cfg)
	if err != nil {
		return fmt.Errorf("failed to init handler: %w", err)
	}
	h.Directory = dir

	evts := []cognito.UserMigrationEvent{}
	if err := json.Unmarshal(data, &evts); err != nil {
		return fmt.Errorf("failed to parse event file: %w", err)
	}

	for i, e := range evts {
		r, err := h.Handle(context.Background(), e)
		logResult(i, r.Response, err)
	}
	return nil
}

func runPostConfirmation(cfg *config.Config, dir idp.Directory, data []byte) error {
	h, err := handlers.NewPostConfirmationHandler(cfg)
	if err != nil {
		return fmt.Errorf("failed to init handler: %w", err)
	}
	h.Directory = dir

	evts := []events.CognitoEventUserPoolsPostConfirmation{}
	if err := json.Unmarshal(data, &evts); err != nil {
		return fmt.Errorf("failed to parse event file: %w", err)
	}

	for i, e := range evts {
		r, err := h.Handle(context.Background(), e)
		logResult(i, r.Response, err)
	}

	if mem, ok := dir.(*idp.MemoryDirectory); ok {
		log.Info("mfa preference calls", "calls", mem.MFACalls())
	}
	return nil
}

func logResult(i int, response any, err error) {
	rErr := ""
	if err != nil {
		rErr = err.Error()
		log.Error("integration test failed", "index", i, "error", err)
	}
	rJSON, err := json.Marshal(response)
	if err != nil {
		log.Error("failed to parse response", "error", err)
	}
	log.Info("event handled", "index", i, "error", rErr, "response", string(rJSON))
}
