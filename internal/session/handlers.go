package session

import (
	"context"

	"github.com/aoserver/aoserver/internal/aoproto"
	"github.com/aoserver/aoserver/internal/logger"
)

// Domain is the set of protocol extension points spec §4.3 calls "external
// collaborators": handlers the core must dispatch to and surface errors
// from, but whose bodies live outside the core packages. Methods write
// their own replies via Session.Send.
type Domain interface {
	CharacterList(ctx context.Context, s *Session, page uint32) error
	EvidenceList(ctx context.Context, s *Session, page uint32) error
	MusicList(ctx context.Context, s *Session) error
	CharacterListAO2(ctx context.Context, s *Session) error
	Ready(ctx context.Context, s *Session) error
	SelectCharacter(ctx context.Context, s *Session, clientID, charID uint32, hdid string) error
	ICMessage(ctx context.Context, s *Session) error
	OOCMessage(ctx context.Context, s *Session, name, message string) error
	PlaySong(ctx context.Context, s *Session, songIndex, charID uint32) error
	WTCEButtons(ctx context.Context, s *Session, buttonType string) error
	SetCasePreferences(ctx context.Context, s *Session, cases string, prefs aoproto.CasePreferences) error
	CaseAnnounce(ctx context.Context, s *Session, cases string, prefs aoproto.CasePreferences) error
	Penalties(ctx context.Context, s *Session, penaltyType, newValue uint32) error
	AddEvidence(ctx context.Context, s *Session, args aoproto.EvidenceArgs) error
	DeleteEvidence(ctx context.Context, s *Session, id uint32) error
	EditEvidence(ctx context.Context, s *Session, id uint32, args aoproto.EvidenceArgs) error
	CallModButton(ctx context.Context, s *Session, reason string) error
	AskListLengths(ctx context.Context, s *Session) error
	AskListCharacters(ctx context.Context, s *Session) error
	ClientVersion(ctx context.Context, s *Session, pv uint32, software, version string) error
}

// Handshake is spec §4.3's HI handler: update hardware id, propagate to
// the registry, persist (identity_id, hardware_id), then reply with
// server version and player count.
func (s *Session) Handshake(hdid string) error {
	ctx := context.Background()

	s.client.HardwareID = hdid
	s.reg.UpdateClient(s.client)

	if err := s.store.AddHdid(ctx, hdid, s.client.IdentityID); err != nil {
		return aoproto.WrapError(aoproto.KindHandler, "persisting hdid", err)
	}

	logger.InfoCtx(ctx, "handshake complete", logger.HDID(hdid), logger.SlotID(s.client.SlotID))

	if err := s.Send(aoproto.ServerVersion{
		SlotID:   uint8(s.client.SlotID),
		Software: s.cfg.Software,
		Version:  s.cfg.Version,
	}); err != nil {
		return err
	}

	return s.Send(aoproto.PlayerCount{
		Count: uint8(s.reg.PlayerCount()),
		Max:   uint8(s.reg.PlayerLimit()),
	})
}

// KeepAlive is spec §4.3's CH handler: ping the supervisor (non-blocking,
// extras dropped) and reply CHECK.
func (s *Session) KeepAlive(_ int32) error {
	s.super.Ping()
	return s.Send(aoproto.KeepAliveAck{})
}

// ClientVersion has no core-mandated behavior beyond dispatch; delegate to
// the domain layer like every other extension point.
func (s *Session) ClientVersion(pv uint32, software, version string) error {
	return s.domain.ClientVersion(context.Background(), s, pv, software, version)
}

func (s *Session) AskListLengths() error {
	return s.domain.AskListLengths(context.Background(), s)
}

func (s *Session) AskListCharacters() error {
	return s.domain.AskListCharacters(context.Background(), s)
}

func (s *Session) CharacterList(page uint32) error {
	return s.domain.CharacterList(context.Background(), s, page)
}

func (s *Session) EvidenceList(page uint32) error {
	return s.domain.EvidenceList(context.Background(), s, page)
}

func (s *Session) MusicList() error {
	return s.domain.MusicList(context.Background(), s)
}

func (s *Session) CharacterListAO2() error {
	return s.domain.CharacterListAO2(context.Background(), s)
}

func (s *Session) Ready() error {
	return s.domain.Ready(context.Background(), s)
}

func (s *Session) SelectCharacter(clientID, charID uint32, hdid string) error {
	return s.domain.SelectCharacter(context.Background(), s, clientID, charID, hdid)
}

func (s *Session) ICMessage() error {
	return s.domain.ICMessage(context.Background(), s)
}

func (s *Session) OOCMessage(name, message string) error {
	return s.domain.OOCMessage(context.Background(), s, name, message)
}

func (s *Session) PlaySong(songIndex, other uint32) error {
	return s.domain.PlaySong(context.Background(), s, songIndex, other)
}

func (s *Session) WTCEButtons(buttonType string) error {
	return s.domain.WTCEButtons(context.Background(), s, buttonType)
}

func (s *Session) SetCasePreferences(cases string, prefs aoproto.CasePreferences) error {
	return s.domain.SetCasePreferences(context.Background(), s, cases, prefs)
}

func (s *Session) CaseAnnounce(cases string, prefs aoproto.CasePreferences) error {
	return s.domain.CaseAnnounce(context.Background(), s, cases, prefs)
}

func (s *Session) Penalties(penaltyType, newValue uint32) error {
	return s.domain.Penalties(context.Background(), s, penaltyType, newValue)
}

func (s *Session) AddEvidence(args aoproto.EvidenceArgs) error {
	return s.domain.AddEvidence(context.Background(), s, args)
}

func (s *Session) DeleteEvidence(id uint32) error {
	return s.domain.DeleteEvidence(context.Background(), s, id)
}

func (s *Session) EditEvidence(id uint32, args aoproto.EvidenceArgs) error {
	return s.domain.EditEvidence(context.Background(), s, id, args)
}

func (s *Session) CallModButton(reason string) error {
	return s.domain.CallModButton(context.Background(), s, reason)
}
