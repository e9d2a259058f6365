package loader

import (
	"encoding/json"
	"log/slog"

	"github.com/Veraticus/bankdash/internal/api"
)

// parseResponse decodes the response island some pages carry after a form
// submit. Unreadable islands are logged and ignored.
func parseResponse(raw []byte) *api.Envelope {
	var env api.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		slog.Warn("Ignoring unreadable response island", "error", err)
		return nil
	}
	if env.Success == nil && env.Error == nil {
		return nil
	}
	return &env
}
