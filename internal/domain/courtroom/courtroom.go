// Package courtroom implements the roleplay-session domain handlers that
// spec.md's data model gives no persisted entity to act on (messages,
// button presses, case preferences, moderator calls). Per SPEC_FULL.md §3,
// no room/area entity is defined, so these handlers observe and
// acknowledge rather than fan a message out to other connections.
package courtroom

import (
	"context"

	"github.com/aoserver/aoserver/internal/aoproto"
	"github.com/aoserver/aoserver/internal/logger"
	"github.com/aoserver/aoserver/internal/session"
)

// Handlers implements the leaf-effect slice of session.Domain that has no
// backing store of its own.
type Handlers struct{}

func (Handlers) ClientVersion(ctx context.Context, s *session.Session, pv uint32, software, version string) error {
	logger.InfoCtx(ctx, "client version reported", logger.SlotID(s.SlotID()), logger.Command(software+" "+version))
	return nil
}

func (Handlers) Ready(ctx context.Context, s *session.Session) error {
	logger.DebugCtx(ctx, "client ready", logger.SlotID(s.SlotID()))
	return nil
}

func (Handlers) ICMessage(ctx context.Context, s *session.Session) error {
	logger.DebugCtx(ctx, "in-character message", logger.SlotID(s.SlotID()), logger.CharacterID(s.CharacterID()))
	return nil
}

// OOCMessage echoes the message back to its own sender; see the package
// doc comment for why this does not broadcast.
func (Handlers) OOCMessage(ctx context.Context, s *session.Session, name, message string) error {
	logger.DebugCtx(ctx, "out-of-character message", logger.SlotID(s.SlotID()))
	return s.Send(aoproto.ServerOOCMessage{Name: name, Message: message})
}

func (Handlers) PlaySong(ctx context.Context, s *session.Session, songIndex, charID uint32) error {
	logger.DebugCtx(ctx, "song played", logger.SlotID(s.SlotID()), logger.ArgCount(int(songIndex)))
	return nil
}

func (Handlers) WTCEButtons(ctx context.Context, s *session.Session, buttonType string) error {
	logger.DebugCtx(ctx, "wtce button pressed", logger.SlotID(s.SlotID()), logger.Command(buttonType))
	return nil
}

func (Handlers) SetCasePreferences(ctx context.Context, s *session.Session, cases string, prefs aoproto.CasePreferences) error {
	logger.DebugCtx(ctx, "case preferences set", logger.SlotID(s.SlotID()), logger.Command(cases))
	return nil
}

func (Handlers) CaseAnnounce(ctx context.Context, s *session.Session, cases string, prefs aoproto.CasePreferences) error {
	logger.InfoCtx(ctx, "case announced", logger.SlotID(s.SlotID()), logger.Command(cases))
	return nil
}

func (Handlers) Penalties(ctx context.Context, s *session.Session, penaltyType, newValue uint32) error {
	logger.DebugCtx(ctx, "penalty updated", logger.SlotID(s.SlotID()), logger.ArgCount(int(newValue)))
	return nil
}

func (Handlers) CallModButton(ctx context.Context, s *session.Session, reason string) error {
	logger.WarnCtx(ctx, "mod call", logger.SlotID(s.SlotID()), logger.Command(reason))
	return nil
}
