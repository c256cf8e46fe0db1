package insureAuth

import (
	"io"

	internalaudit "github.com/MrEthical07/insureAuth/internal/audit"
	"github.com/rs/zerolog"
)

type (
	// AuditEvent is one audit record emitted by the engine.
	AuditEvent = internalaudit.Event
	// AuditSink receives audit events from the engine's dispatcher goroutine.
	AuditSink = internalaudit.Sink
	NoOpSink  = internalaudit.NoOpSink
)

// NewChannelSink returns a sink that buffers events in a channel, mainly for tests.
func NewChannelSink(buffer int) *internalaudit.ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink writes one JSON object per event to w.
func NewJSONWriterSink(w io.Writer) *internalaudit.JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

// NewLoggerSink writes events through logger.
func NewLoggerSink(logger zerolog.Logger) *internalaudit.LoggerSink {
	return internalaudit.NewLoggerSink(logger)
}
