package api

import (
	"strings"

	"github.com/five82/backlog/internal/game"
)

// CatalogDocument is the persisted catalog shape.
type CatalogDocument struct {
	Games []game.Raw `json:"games"`
}

// SaveRequest is the body posted to the save endpoint.
type SaveRequest struct {
	Games []game.Game `json:"games"`
}

// SaveResponse is the save endpoint's reply. Error bodies may carry either
// field name for the message.
type SaveResponse struct {
	OK      bool   `json:"ok"`
	Saved   int    `json:"saved"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func (r SaveResponse) messageOr(fallback string) string {
	if msg := strings.TrimSpace(r.Error); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(r.Message); msg != "" {
		return msg
	}
	return fallback
}
