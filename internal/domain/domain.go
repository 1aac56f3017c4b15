// Package domain composes the character, evidence, music, and courtroom
// packages into a single session.Domain implementation, the wiring point
// cmd/aoserver constructs once at startup and hands to every session.
package domain

import (
	"context"

	"github.com/aoserver/aoserver/internal/aoproto"
	"github.com/aoserver/aoserver/internal/domain/character"
	"github.com/aoserver/aoserver/internal/domain/courtroom"
	"github.com/aoserver/aoserver/internal/domain/evidence"
	"github.com/aoserver/aoserver/internal/domain/music"
	"github.com/aoserver/aoserver/internal/session"
)

// Domain wires the concrete catalog/cache/song-list collaborators into
// the session package's extension-point interface.
type Domain struct {
	Characters *character.Store
	Evidence   *evidence.Store
	Music      *music.List
	courtroom.Handlers
}

var _ session.Domain = (*Domain)(nil)

func (d *Domain) CharacterList(ctx context.Context, s *session.Session, page uint32) error {
	return d.Characters.CharacterList(ctx, s, page)
}

func (d *Domain) CharacterListAO2(ctx context.Context, s *session.Session) error {
	return d.Characters.CharacterListAO2(ctx, s)
}

func (d *Domain) SelectCharacter(ctx context.Context, s *session.Session, clientID, charID uint32, hdid string) error {
	return d.Characters.SelectCharacter(ctx, s, clientID, charID, hdid)
}

func (d *Domain) EvidenceList(ctx context.Context, s *session.Session, page uint32) error {
	return d.Evidence.EvidenceList(ctx, s, page)
}

func (d *Domain) AddEvidence(ctx context.Context, s *session.Session, args aoproto.EvidenceArgs) error {
	return d.Evidence.AddEvidence(ctx, s, args)
}

func (d *Domain) DeleteEvidence(ctx context.Context, s *session.Session, id uint32) error {
	return d.Evidence.DeleteEvidence(ctx, s, id)
}

func (d *Domain) EditEvidence(ctx context.Context, s *session.Session, id uint32, args aoproto.EvidenceArgs) error {
	return d.Evidence.EditEvidence(ctx, s, id, args)
}

func (d *Domain) MusicList(ctx context.Context, s *session.Session) error {
	return d.Music.MusicList(ctx, s)
}

// AskListLengths reports the three catalog sizes the client pages
// through next, combining all three collaborators' counts.
func (d *Domain) AskListLengths(ctx context.Context, s *session.Session) error {
	charCount, err := d.Characters.Count(ctx)
	if err != nil {
		return aoproto.WrapError(aoproto.KindHandler, "counting characters", err)
	}
	evidenceCount, err := d.Evidence.Count(ctx)
	if err != nil {
		return aoproto.WrapError(aoproto.KindHandler, "counting evidence", err)
	}
	return s.Send(aoproto.ListLengths{
		CharacterCount: uint32(charCount),
		EvidenceCount:  uint32(evidenceCount),
		MusicCount:     uint32(d.Music.SongCount()),
	})
}

// AskListCharacters is the AO2 request to begin paging through
// characters; it has no state of its own beyond sending the first page.
func (d *Domain) AskListCharacters(ctx context.Context, s *session.Session) error {
	return d.Characters.CharacterList(ctx, s, 0)
}
