package telemetry

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for courtroom-server operations, following OpenTelemetry
// semantic conventions where applicable and this server's own wire
// vocabulary everywhere else.
const (
	// ========================================================================
	// Client/session attributes
	// ========================================================================
	AttrClientIP   = "client.ip"
	AttrClientAddr = "client.address"
	AttrSlotID     = "session.slot"
	AttrIdentityID = "session.identity_id"
	AttrHardwareID = "session.hardware_id"
	AttrCharacter  = "session.character_id"

	// ========================================================================
	// Protocol/command attributes
	// ========================================================================
	AttrCommandCode = "protocol.command_code"
	AttrPage        = "protocol.page"

	// ========================================================================
	// Domain-catalog attributes (characters, evidence, music)
	// ========================================================================
	AttrCharacterID   = "character.id"
	AttrCharacterName = "character.name"
	AttrEvidenceID    = "evidence.id"
	AttrEvidenceName  = "evidence.name"
	AttrSongCategory  = "music.category"
	AttrSongName      = "music.song"

	// ========================================================================
	// Cache attributes (the character/evidence list read-through cache)
	// ========================================================================
	AttrCacheHit    = "cache.hit"
	AttrCacheSource = "cache.source"

	// ========================================================================
	// Storage backend attributes (evidence image store)
	// ========================================================================
	AttrContentID = "content.id"
	AttrBucket    = "storage.bucket"
	AttrKey       = "storage.key"
	AttrRegion    = "storage.region"

	// ========================================================================
	// User/auth attributes (admin API)
	// ========================================================================
	AttrOperator = "auth.operator"
)

// Span names for operations.
// Format: <component>.<operation>
const (
	SpanSessionAdmit    = "session.admit"
	SpanSessionDispatch = "session.dispatch"
	SpanSessionClose    = "session.close"

	SpanCharacterList   = "character.list"
	SpanCharacterSelect = "character.select"
	SpanEvidenceList    = "evidence.list"
	SpanEvidenceAdd     = "evidence.add"
	SpanEvidenceEdit    = "evidence.edit"
	SpanEvidenceDelete  = "evidence.delete"
	SpanMusicList       = "music.list"

	SpanCacheLookup = "cache.lookup"
	SpanCacheWrite  = "cache.write"

	SpanMasterServerSync = "masterserver.sync"
	SpanAdminKick        = "admin.kick"
	SpanAdminBan         = "admin.ban"
)

// ClientIP returns an attribute for client IP address.
func ClientIP(ip string) attribute.KeyValue {
	return attribute.String(AttrClientIP, ip)
}

// ClientAddr returns an attribute for full client address.
func ClientAddr(addr string) attribute.KeyValue {
	return attribute.String(AttrClientAddr, addr)
}

// SlotID returns an attribute for the session's slot number.
func SlotID(slot int) attribute.KeyValue {
	return attribute.Int(AttrSlotID, slot)
}

// IdentityID returns an attribute for the session's persisted identity id.
func IdentityID(id int64) attribute.KeyValue {
	return attribute.Int64(AttrIdentityID, id)
}

// HardwareID returns an attribute for the client's hardware id (hdid).
func HardwareID(hdid string) attribute.KeyValue {
	return attribute.String(AttrHardwareID, hdid)
}

// CharacterSlot returns an attribute for the session's currently selected
// character id.
func CharacterSlot(id int) attribute.KeyValue {
	return attribute.Int(AttrCharacter, id)
}

// CommandCode returns an attribute for the wire command code being
// dispatched (e.g. "MS", "CT", "RC").
func CommandCode(code string) attribute.KeyValue {
	return attribute.String(AttrCommandCode, code)
}

// Page returns an attribute for a paginated list request.
func Page(page uint32) attribute.KeyValue {
	return attribute.Int64(AttrPage, int64(page))
}

// CharacterID returns an attribute for a character catalog row id.
func CharacterID(id int) attribute.KeyValue {
	return attribute.Int(AttrCharacterID, id)
}

// CharacterName returns an attribute for a character's display name.
func CharacterName(name string) attribute.KeyValue {
	return attribute.String(AttrCharacterName, name)
}

// EvidenceID returns an attribute for an evidence catalog row id.
func EvidenceID(id uint) attribute.KeyValue {
	return attribute.String(AttrEvidenceID, strconv.FormatUint(uint64(id), 10))
}

// EvidenceName returns an attribute for an evidence item's display name.
func EvidenceName(name string) attribute.KeyValue {
	return attribute.String(AttrEvidenceName, name)
}

// SongCategory returns an attribute for a music list category.
func SongCategory(category string) attribute.KeyValue {
	return attribute.String(AttrSongCategory, category)
}

// SongName returns an attribute for a song's file name.
func SongName(name string) attribute.KeyValue {
	return attribute.String(AttrSongName, name)
}

// CacheHit returns an attribute for a cache hit/miss outcome.
func CacheHit(hit bool) attribute.KeyValue {
	return attribute.Bool(AttrCacheHit, hit)
}

// CacheSource returns an attribute naming which cache backed a lookup.
func CacheSource(source string) attribute.KeyValue {
	return attribute.String(AttrCacheSource, source)
}

// ContentID returns an attribute for a content-addressed store key.
func ContentID(id string) attribute.KeyValue {
	return attribute.String(AttrContentID, id)
}

// Bucket returns an attribute for an S3 bucket name.
func Bucket(name string) attribute.KeyValue {
	return attribute.String(AttrBucket, name)
}

// StorageKey returns an attribute for an S3 object key.
func StorageKey(key string) attribute.KeyValue {
	return attribute.String(AttrKey, key)
}

// Region returns an attribute for a cloud region.
func Region(region string) attribute.KeyValue {
	return attribute.String(AttrRegion, region)
}

// Operator returns an attribute for the authenticated admin API caller.
func Operator(name string) attribute.KeyValue {
	return attribute.String(AttrOperator, name)
}

// StartSessionSpan starts a span for a per-connection session lifecycle
// event (admit, dispatch, close), tagging it with the session's slot.
func StartSessionSpan(ctx context.Context, name string, slot int, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := append([]attribute.KeyValue{SlotID(slot)}, attrs...)
	return StartSpan(ctx, name, trace.WithAttributes(allAttrs...))
}

// StartDomainSpan starts a span for a domain-handler operation (character,
// evidence, or music list access).
func StartDomainSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, name, trace.WithAttributes(attrs...))
}

// StartCacheSpan starts a span for a listcache lookup or write.
func StartCacheSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, "cache."+operation, trace.WithAttributes(attrs...))
}
