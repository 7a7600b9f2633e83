package handlers

import (
	"github.com/google/wire"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Item    *ItemHandler
	Voice   *VoiceHandler
	Account *AccountHandler
	Stream  *StreamHandler
}

// NewProvider constructs the handler provider.
func NewProvider(item *ItemHandler, voice *VoiceHandler, account *AccountHandler, stream *StreamHandler) *Provider {
	return &Provider{
		Item:    item,
		Voice:   voice,
		Account: account,
		Stream:  stream,
	}
}

// Shutdown closes the long-lived stream connections.
func (p *Provider) Shutdown() {
	if p.Stream != nil {
		p.Stream.Shutdown()
	}
}

// HandlerProvider is the wire set for every handler.
var HandlerProvider = wire.NewSet(
	NewItemHandler,
	NewVoiceHandler,
	NewAccountHandler,
	NewStreamHandler,
	NewProvider,
)
