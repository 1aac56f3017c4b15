package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds connection-scoped logging context for an AO session.
type LogContext struct {
	TraceID     string    // OpenTelemetry trace ID
	SpanID      string    // OpenTelemetry span ID
	Command     string    // AO command code currently being handled (MS, CH, ...)
	ClientIP    string    // Client IP address (without port)
	SlotID      int       // Registry slot index assigned to this connection
	IdentityID  int64     // Persistent identity id resolved for the client's ip
	CharacterID int       // Currently selected character_id, -1 if none
	StartTime   time.Time // For duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext with the given client IP
func NewLogContext(clientIP string) *LogContext {
	return &LogContext{
		ClientIP:    clientIP,
		CharacterID: -1,
		StartTime:   time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	return &LogContext{
		TraceID:     lc.TraceID,
		SpanID:      lc.SpanID,
		Command:     lc.Command,
		ClientIP:    lc.ClientIP,
		SlotID:      lc.SlotID,
		IdentityID:  lc.IdentityID,
		CharacterID: lc.CharacterID,
		StartTime:   lc.StartTime,
	}
}

// WithCommand returns a copy with the command code set
func (lc *LogContext) WithCommand(command string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Command = command
	}
	return clone
}

// WithSlot returns a copy with the registry slot id set
func (lc *LogContext) WithSlot(slotID int) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.SlotID = slotID
	}
	return clone
}

// WithIdentity returns a copy with identity and character info set
func (lc *LogContext) WithIdentity(identityID int64, characterID int) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.IdentityID = identityID
		clone.CharacterID = characterID
	}
	return clone
}

// WithTrace returns a copy with trace info set
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TraceID = traceID
		clone.SpanID = spanID
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
