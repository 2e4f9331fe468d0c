package soap

import (
	"bytes"
	"encoding/xml"
	"errors"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	outboundPrefix = "Outbound message: "
	inboundPrefix  = "Inbound message: "
)

var errNoMessage = errors.New("message context carries no soap message")

// LoggingHandler writes every message passing through the chain to the debug log.
// It never stops the exchange: write failures are logged and swallowed.
type LoggingHandler struct {
	logger *zap.Logger
}

func NewLoggingHandler(logger *zap.Logger) *LoggingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingHandler{logger: logger}
}

func (h *LoggingHandler) HandleMessage(mc *MessageContext) bool {
	h.logMessage(mc)
	return true
}

func (h *LoggingHandler) HandleFault(mc *MessageContext) bool {
	h.logMessage(mc)
	return true
}

// Close has nothing to release.
func (h *LoggingHandler) Close(*MessageContext) {}

func (h *LoggingHandler) Headers() []xml.Name { return nil }

func (h *LoggingHandler) logMessage(mc *MessageContext) {
	if !h.logger.Core().Enabled(zapcore.DebugLevel) {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("error while writing soap message", zap.Any("panic", r), zap.Stack("stacktrace"))
		}
	}()

	var buf bytes.Buffer
	if mc.Outbound {
		buf.WriteString(outboundPrefix)
	} else {
		buf.WriteString(inboundPrefix)
	}
	if mc.Message == nil {
		h.logger.Error("error while writing soap message", zap.Error(errNoMessage))
		return
	}
	if _, err := mc.Message.WriteTo(&buf); err != nil {
		h.logger.Error("error while writing soap message", zap.Error(err))
		return
	}
	h.logger.Debug(buf.String())
}
