package engine

import (
	"github.com/Veraticus/bankdash/internal/banks"
	"github.com/Veraticus/bankdash/internal/contracts"
	"github.com/Veraticus/bankdash/internal/dashboard"
	"github.com/Veraticus/bankdash/internal/loader"
	"github.com/Veraticus/bankdash/internal/settings"
	"github.com/Veraticus/bankdash/internal/table"
)

// Client defines every backend call a session makes. *api.Client satisfies it.
type Client interface {
	table.Actions
	table.Fetcher
	contracts.Actions
	dashboard.Fetcher
	loader.Fetcher
	banks.Actions
	settings.Actions
}

// Store persists the remembered page and the language. *state.Store satisfies it.
type Store interface {
	loader.Store
}
