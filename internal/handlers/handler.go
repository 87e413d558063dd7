package handlers

import (
	"encoding/json"

	"github.com/dnys1/lambda-migration/internal/config"
	"github.com/dnys1/lambda-migration/internal/log"
)

// debugEvent dumps the raw trigger event when debug is enabled. Events carry
// user attributes, so this stays off in production.
func debugEvent(cfg *config.Config, evt any) {
	if !cfg.DebugEnabled {
		return
	}
	evtJSON, err := json.Marshal(evt)
	if err != nil {
		log.Warn("failed to marshal triggered event", "error", err)
		return
	}
	log.Debug(string(evtJSON))
}
