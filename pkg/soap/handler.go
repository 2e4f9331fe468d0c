package soap

import (
	"encoding/xml"
	"errors"
	"fmt"
)

var ErrChainAborted = errors.New("soap handler chain aborted")

// MessageContext is the per-exchange state handed to every handler.
// The same context is reused for the request and the response; Outbound tells them apart.
type MessageContext struct {
	Outbound bool
	Action   string
	Endpoint string
	Message  Message
}

// Handler is a hook in the message pipeline. Returning false from HandleMessage or HandleFault
// stops the exchange.
type Handler interface {
	HandleMessage(mc *MessageContext) bool
	HandleFault(mc *MessageContext) bool
	Close(mc *MessageContext)
	Headers() []xml.Name
}

// Chain runs handlers in order for outbound messages and in reverse for inbound ones.
type Chain struct {
	handlers []Handler
}

func NewChain(handlers ...Handler) *Chain {
	return &Chain{handlers: handlers}
}

// Process runs the chain for mc. fault selects HandleFault instead of HandleMessage.
func (ch *Chain) Process(mc *MessageContext, fault bool) error {
	n := len(ch.handlers)
	for i := 0; i < n; i++ {
		idx := i
		if !mc.Outbound {
			idx = n - 1 - i
		}
		h := ch.handlers[idx]
		var proceed bool
		if fault {
			proceed = h.HandleFault(mc)
		} else {
			proceed = h.HandleMessage(mc)
		}
		if !proceed {
			return fmt.Errorf("%w: handler %d (%T)", ErrChainAborted, idx, h)
		}
	}
	return nil
}

// Close calls Close on every handler, last one first.
func (ch *Chain) Close(mc *MessageContext) {
	for i := len(ch.handlers) - 1; i >= 0; i-- {
		ch.handlers[i].Close(mc)
	}
}

// Headers returns the header names understood by any handler of the chain.
func (ch *Chain) Headers() []xml.Name {
	var out []xml.Name
	for _, h := range ch.handlers {
		out = append(out, h.Headers()...)
	}
	return out
}
