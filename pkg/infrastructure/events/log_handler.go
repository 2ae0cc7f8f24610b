package events

import (
	"strings"

	"go.uber.org/zap"
)

// LogHandler writes plan lifecycle events to a logger
type LogHandler struct {
	logger *zap.Logger
}

// NewLogHandler creates a handler that logs every plan.* event
func NewLogHandler(logger *zap.Logger) *LogHandler {
	return &LogHandler{logger: logger}
}

func (h *LogHandler) Handle(event Event) error {
	h.logger.Info("mrp event",
		zap.String("event_type", event.Type()),
		zap.String("stream", event.StreamID()),
		zap.Int("version", event.Version()),
		zap.Any("data", event.Data()))
	return nil
}

func (h *LogHandler) CanHandle(eventType string) bool {
	return strings.HasPrefix(eventType, "plan.")
}
