package logger

import "log/slog"

// Structured logging keys, grouped by the part of the server they describe.
const (
	// Tracing
	KeyTraceID = "trace_id"
	KeySpanID  = "span_id"

	// Protocol / command dispatch
	KeyCommand  = "command"
	KeyArgCount = "arg_count"
	KeyRawLen   = "raw_len"

	// Connection / session
	KeyClientIP      = "client_ip"
	KeyClientAddr    = "client_addr"
	KeySlotID        = "slot_id"
	KeyIdentityID    = "identity_id"
	KeyHDID          = "hdid"
	KeyCharacterID   = "character_id"
	KeyCharacterName = "character_name"

	// Errors / outcomes
	KeyErr       = "error"
	KeyErrorKind = "error_kind"
	KeyDuration  = "duration_ms"

	// Registry / population
	KeyPlayerCount = "player_count"
	KeyMaxPlayers  = "max_players"

	// Persistence
	KeyStoreDriver = "store_driver"
	KeyQuery       = "query"

	// Evidence / music / case data
	KeyEvidenceID = "evidence_id"
	KeySongName   = "song_name"
	KeyAreaID     = "area_id"

	// Admin API
	KeyRequestID = "request_id"
	KeyRoute     = "route"
	KeyStatus    = "status"
)

// TraceID returns a slog.Attr for an OpenTelemetry trace ID.
func TraceID(v string) slog.Attr { return slog.String(KeyTraceID, v) }

// SpanID returns a slog.Attr for an OpenTelemetry span ID.
func SpanID(v string) slog.Attr { return slog.String(KeySpanID, v) }

// Command returns a slog.Attr for the AO wire command code.
func Command(v string) slog.Attr { return slog.String(KeyCommand, v) }

// ArgCount returns a slog.Attr for the number of decoded arguments.
func ArgCount(v int) slog.Attr { return slog.Int(KeyArgCount, v) }

// RawLen returns a slog.Attr for the byte length of a raw wire message.
func RawLen(v int) slog.Attr { return slog.Int(KeyRawLen, v) }

// ClientIP returns a slog.Attr for a client's IP address without port.
func ClientIP(v string) slog.Attr { return slog.String(KeyClientIP, v) }

// ClientAddr returns a slog.Attr for a client's full network address.
func ClientAddr(v string) slog.Attr { return slog.String(KeyClientAddr, v) }

// SlotID returns a slog.Attr for a registry slot index.
func SlotID(v int) slog.Attr { return slog.Int(KeySlotID, v) }

// IdentityID returns a slog.Attr for a persisted ipid.
func IdentityID(v int64) slog.Attr { return slog.Int64(KeyIdentityID, v) }

// HDID returns a slog.Attr for a hardware id.
func HDID(v string) slog.Attr { return slog.String(KeyHDID, v) }

// CharacterID returns a slog.Attr for a selected character index.
func CharacterID(v int) slog.Attr { return slog.Int(KeyCharacterID, v) }

// CharacterName returns a slog.Attr for a character's display name.
func CharacterName(v string) slog.Attr { return slog.String(KeyCharacterName, v) }

// Err returns a slog.Attr wrapping a Go error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyErr, "")
	}
	return slog.String(KeyErr, err.Error())
}

// ErrorKind returns a slog.Attr for the classified error kind.
func ErrorKind(v string) slog.Attr { return slog.String(KeyErrorKind, v) }

// DurationMs returns a slog.Attr for an elapsed duration in milliseconds.
func DurationMs(v float64) slog.Attr { return slog.Float64(KeyDuration, v) }

// PlayerCount returns a slog.Attr for the current registry population.
func PlayerCount(v int) slog.Attr { return slog.Int(KeyPlayerCount, v) }

// MaxPlayers returns a slog.Attr for the configured player cap.
func MaxPlayers(v int) slog.Attr { return slog.Int(KeyMaxPlayers, v) }

// StoreDriver returns a slog.Attr naming the active identity store backend.
func StoreDriver(v string) slog.Attr { return slog.String(KeyStoreDriver, v) }

// EvidenceID returns a slog.Attr for an evidence record id.
func EvidenceID(v int) slog.Attr { return slog.Int(KeyEvidenceID, v) }

// SongName returns a slog.Attr for a music list entry.
func SongName(v string) slog.Attr { return slog.String(KeySongName, v) }

// AreaID returns a slog.Attr for a courtroom area index.
func AreaID(v int) slog.Attr { return slog.Int(KeyAreaID, v) }

// RequestID returns a slog.Attr for an admin API request id.
func RequestID(v string) slog.Attr { return slog.String(KeyRequestID, v) }

// Route returns a slog.Attr for an admin API route.
func Route(v string) slog.Attr { return slog.String(KeyRoute, v) }

// Status returns a slog.Attr for an HTTP status code.
func Status(v int) slog.Attr { return slog.Int(KeyStatus, v) }
