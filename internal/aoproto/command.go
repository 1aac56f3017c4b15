package aoproto

import (
	"strconv"
	"strings"
)

// Handler is implemented by whatever owns dispatch for a connection (the
// session state machine). Each method corresponds to one ClientCommand
// variant's `handle` name from the schema in spec §4.1. Handler methods
// return the unified error type via their own logic; the dispatch loop
// does not interpret the error further than logging and terminating.
type Handler interface {
	Handshake(hdid string) error
	ClientVersion(pv uint32, software, version string) error
	KeepAlive(payload int32) error
	AskListLengths() error
	AskListCharacters() error
	CharacterList(page uint32) error
	EvidenceList(page uint32) error
	MusicList() error
	CharacterListAO2() error
	Ready() error
	SelectCharacter(clientID, charID uint32, hdid string) error
	ICMessage() error
	OOCMessage(name, message string) error
	PlaySong(songIndex, other uint32) error
	WTCEButtons(buttonType string) error
	SetCasePreferences(cases string, prefs CasePreferences) error
	CaseAnnounce(cases string, prefs CasePreferences) error
	Penalties(penaltyType, newValue uint32) error
	AddEvidence(args EvidenceArgs) error
	DeleteEvidence(id uint32) error
	EditEvidence(id uint32, args EvidenceArgs) error
	CallModButton(reason string) error
}

// ClientCommand is a decoded client-to-server command, ready for dispatch.
type ClientCommand interface {
	Code() string
	ExtractArgs() []string
	Handle(h Handler) error
}

// ServerCommand is a server-to-client command, ready for encoding.
type ServerCommand interface {
	Code() string
	ExtractArgs() []string
}

// SubRecord is an ordered list of typed fields that flattens into a
// parent variant's argument list instead of occupying one argument slot.
type SubRecord interface {
	FieldCount() int
	ExtractArgs() []string
	FromArgs(args []string) error
}

// EvidenceArgs is the flattened payload shared by AddEvidence and
// EditEvidence, grounded in rusttorney-server's EvidenceArgs.
type EvidenceArgs struct {
	Name        string
	Description string
	Image       string
}

func (EvidenceArgs) FieldCount() int { return 3 }

func (e EvidenceArgs) ExtractArgs() []string {
	return []string{e.Name, e.Description, e.Image}
}

func (e *EvidenceArgs) FromArgs(args []string) error {
	if len(args) != 3 {
		return NewError(KindArity, "evidence args wanted 3 fields, got %d", len(args))
	}
	e.Name, e.Description, e.Image = args[0], args[1], args[2]
	return nil
}

// CasePreferences is the flattened willingness payload shared by
// SetCasePreferences and CaseAnnounce.
type CasePreferences struct {
	CM    bool
	Def   bool
	Pro   bool
	Judge bool
	Jury  bool
	Steno bool
}

func (CasePreferences) FieldCount() int { return 6 }

func (c CasePreferences) ExtractArgs() []string {
	return []string{
		strconv.FormatBool(c.CM),
		strconv.FormatBool(c.Def),
		strconv.FormatBool(c.Pro),
		strconv.FormatBool(c.Judge),
		strconv.FormatBool(c.Jury),
		strconv.FormatBool(c.Steno),
	}
}

func (c *CasePreferences) FromArgs(args []string) error {
	if len(args) != 6 {
		return NewError(KindArity, "case preferences wanted 6 fields, got %d", len(args))
	}
	vals := make([]bool, 6)
	for i, a := range args {
		v, err := strconv.ParseBool(a)
		if err != nil {
			return WrapError(KindParse, "case preference field", err)
		}
		vals[i] = v
	}
	c.CM, c.Def, c.Pro, c.Judge, c.Jury, c.Steno = vals[0], vals[1], vals[2], vals[3], vals[4], vals[5]
	return nil
}

func parseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, WrapError(KindParse, "expected unsigned integer, got "+quote(s), err)
	}
	return uint32(v), nil
}

func parseUint8(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, WrapError(KindParse, "expected unsigned byte, got "+quote(s), err)
	}
	return uint8(v), nil
}

func parseInt32(s string) (int32, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, WrapError(KindParse, "expected integer, got "+quote(s), err)
	}
	return int32(v), nil
}

func quote(s string) string { return strconv.Quote(s) }

func wantArgs(args []string, n int) error {
	if len(args) < n {
		return NewError(KindArity, "missing field: wanted %d args, got %d", n, len(args))
	}
	if len(args) > n {
		return NewError(KindArity, "too many args: wanted %d args, got %d", n, len(args))
	}
	return nil
}

// ---- Handshake (HI) ----

type Handshake struct{ HardwareID string }

func (Handshake) Code() string             { return "HI" }
func (v Handshake) ExtractArgs() []string  { return []string{v.HardwareID} }
func (v Handshake) Handle(h Handler) error { return h.Handshake(v.HardwareID) }

func decodeHandshake(args []string) (ClientCommand, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}
	return Handshake{HardwareID: args[0]}, nil
}

// ---- ClientVersion (ID) ----

type ClientVersion struct {
	ProtocolVersion uint32
	Software        string
	Version         string
}

func (ClientVersion) Code() string { return "ID" }
func (v ClientVersion) ExtractArgs() []string {
	return []string{strconv.FormatUint(uint64(v.ProtocolVersion), 10), v.Software, v.Version}
}
func (v ClientVersion) Handle(h Handler) error {
	return h.ClientVersion(v.ProtocolVersion, v.Software, v.Version)
}

func decodeClientVersion(args []string) (ClientCommand, error) {
	if err := wantArgs(args, 3); err != nil {
		return nil, err
	}
	pv, err := parseUint32(args[0])
	if err != nil {
		return nil, err
	}
	return ClientVersion{ProtocolVersion: pv, Software: args[1], Version: args[2]}, nil
}

// ---- KeepAlive (CH) ----

type KeepAlive struct{ Payload int32 }

func (KeepAlive) Code() string { return "CH" }
func (v KeepAlive) ExtractArgs() []string {
	return []string{strconv.FormatInt(int64(v.Payload), 10)}
}
func (v KeepAlive) Handle(h Handler) error { return h.KeepAlive(v.Payload) }

// decodeKeepAlive accepts any parseable integer and treats an absent or
// empty field as 0, per the Open Question resolution in SPEC_FULL.md §9.
func decodeKeepAlive(args []string) (ClientCommand, error) {
	if len(args) > 1 {
		return nil, NewError(KindArity, "too many args: wanted at most 1 args, got %d", len(args))
	}
	var payload string
	if len(args) == 1 {
		payload = args[0]
	}
	v, err := parseInt32(payload)
	if err != nil {
		return nil, err
	}
	return KeepAlive{Payload: v}, nil
}

// ---- AskListLengths (askchaa) ----

type AskListLengths struct{}

func (AskListLengths) Code() string             { return "askchaa" }
func (AskListLengths) ExtractArgs() []string    { return nil }
func (v AskListLengths) Handle(h Handler) error { return h.AskListLengths() }

func decodeAskListLengths(args []string) (ClientCommand, error) {
	if err := wantArgs(args, 0); err != nil {
		return nil, err
	}
	return AskListLengths{}, nil
}

// ---- AskListCharacters (askchar2) ----

type AskListCharacters struct{}

func (AskListCharacters) Code() string             { return "askchar2" }
func (AskListCharacters) ExtractArgs() []string    { return nil }
func (v AskListCharacters) Handle(h Handler) error { return h.AskListCharacters() }

func decodeAskListCharacters(args []string) (ClientCommand, error) {
	if err := wantArgs(args, 0); err != nil {
		return nil, err
	}
	return AskListCharacters{}, nil
}

// ---- CharacterList (AN) ----

type CharacterList struct{ Page uint32 }

func (CharacterList) Code() string { return "AN" }
func (v CharacterList) ExtractArgs() []string {
	return []string{strconv.FormatUint(uint64(v.Page), 10)}
}
func (v CharacterList) Handle(h Handler) error { return h.CharacterList(v.Page) }

func decodeCharacterList(args []string) (ClientCommand, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}
	page, err := parseUint32(args[0])
	if err != nil {
		return nil, err
	}
	return CharacterList{Page: page}, nil
}

// ---- EvidenceList (AE) ----

type EvidenceList struct{ Page uint32 }

func (EvidenceList) Code() string { return "AE" }
func (v EvidenceList) ExtractArgs() []string {
	return []string{strconv.FormatUint(uint64(v.Page), 10)}
}
func (v EvidenceList) Handle(h Handler) error { return h.EvidenceList(v.Page) }

func decodeEvidenceList(args []string) (ClientCommand, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}
	page, err := parseUint32(args[0])
	if err != nil {
		return nil, err
	}
	return EvidenceList{Page: page}, nil
}

// ---- MusicList (AM) ----
//
// The reference source overloads "AM" across a paginated AskMusicList(page)
// and an argument-less AO2MusicList. Per SPEC_FULL.md §9 Open Question #2
// that overlap is an explicit schema error, so only the argument-less AO2
// form is registered under "AM"; the legacy paginated form is dropped.

type MusicList struct{}

func (MusicList) Code() string             { return "AM" }
func (MusicList) ExtractArgs() []string    { return nil }
func (v MusicList) Handle(h Handler) error { return h.MusicList() }

func decodeMusicList(args []string) (ClientCommand, error) {
	if err := wantArgs(args, 0); err != nil {
		return nil, err
	}
	return MusicList{}, nil
}

// ---- CharacterListAO2 (AC) ----

type CharacterListAO2 struct{}

func (CharacterListAO2) Code() string             { return "AC" }
func (CharacterListAO2) ExtractArgs() []string    { return nil }
func (v CharacterListAO2) Handle(h Handler) error { return h.CharacterListAO2() }

func decodeCharacterListAO2(args []string) (ClientCommand, error) {
	if err := wantArgs(args, 0); err != nil {
		return nil, err
	}
	return CharacterListAO2{}, nil
}

// ---- Ready (RD) ----

type Ready struct{}

func (Ready) Code() string             { return "RD" }
func (Ready) ExtractArgs() []string    { return nil }
func (v Ready) Handle(h Handler) error { return h.Ready() }

func decodeReady(args []string) (ClientCommand, error) {
	if err := wantArgs(args, 0); err != nil {
		return nil, err
	}
	return Ready{}, nil
}

// ---- SelectCharacter (CC) ----

type SelectCharacter struct {
	ClientID    uint32
	CharacterID uint32
	HardwareID  string
}

func (SelectCharacter) Code() string { return "CC" }
func (v SelectCharacter) ExtractArgs() []string {
	return []string{
		strconv.FormatUint(uint64(v.ClientID), 10),
		strconv.FormatUint(uint64(v.CharacterID), 10),
		v.HardwareID,
	}
}
func (v SelectCharacter) Handle(h Handler) error {
	return h.SelectCharacter(v.ClientID, v.CharacterID, v.HardwareID)
}

func decodeSelectCharacter(args []string) (ClientCommand, error) {
	if err := wantArgs(args, 3); err != nil {
		return nil, err
	}
	clientID, err := parseUint32(args[0])
	if err != nil {
		return nil, err
	}
	charID, err := parseUint32(args[1])
	if err != nil {
		return nil, err
	}
	return SelectCharacter{ClientID: clientID, CharacterID: charID, HardwareID: args[2]}, nil
}

// ---- ICMessage (MS) ----
//
// The reference source declares this as a bare unit variant with no typed
// fields (handlers.rs never reads from it); kept that way here rather than
// guessing at the full in-character message field layout.

type ICMessage struct{}

func (ICMessage) Code() string             { return "MS" }
func (ICMessage) ExtractArgs() []string    { return nil }
func (v ICMessage) Handle(h Handler) error { return h.ICMessage() }

func decodeICMessage(args []string) (ClientCommand, error) {
	return ICMessage{}, nil
}

// ---- OOCMessage (CT) ----

type OOCMessage struct {
	Name    string
	Message string
}

func (OOCMessage) Code() string            { return "CT" }
func (v OOCMessage) ExtractArgs() []string { return []string{v.Name, v.Message} }
func (v OOCMessage) Handle(h Handler) error {
	return h.OOCMessage(v.Name, v.Message)
}

func decodeOOCMessage(args []string) (ClientCommand, error) {
	if err := wantArgs(args, 2); err != nil {
		return nil, err
	}
	return OOCMessage{Name: args[0], Message: args[1]}, nil
}

// ---- PlaySong (MC) ----

type PlaySong struct {
	SongIndex uint32
	CharID    uint32
}

func (PlaySong) Code() string { return "MC" }
func (v PlaySong) ExtractArgs() []string {
	return []string{
		strconv.FormatUint(uint64(v.SongIndex), 10),
		strconv.FormatUint(uint64(v.CharID), 10),
	}
}
func (v PlaySong) Handle(h Handler) error { return h.PlaySong(v.SongIndex, v.CharID) }

func decodePlaySong(args []string) (ClientCommand, error) {
	if err := wantArgs(args, 2); err != nil {
		return nil, err
	}
	songIdx, err := parseUint32(args[0])
	if err != nil {
		return nil, err
	}
	charID, err := parseUint32(args[1])
	if err != nil {
		return nil, err
	}
	return PlaySong{SongIndex: songIdx, CharID: charID}, nil
}

// ---- WTCEButtons (RT) ----

type WTCEButtons struct{ ButtonType string }

func (WTCEButtons) Code() string            { return "RT" }
func (v WTCEButtons) ExtractArgs() []string { return []string{v.ButtonType} }
func (v WTCEButtons) Handle(h Handler) error {
	return h.WTCEButtons(v.ButtonType)
}

func decodeWTCEButtons(args []string) (ClientCommand, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}
	return WTCEButtons{ButtonType: args[0]}, nil
}

// ---- SetCasePreferences (SETCASE) ----

type SetCasePreferences struct {
	Cases       string
	Preferences CasePreferences
}

func (SetCasePreferences) Code() string { return "SETCASE" }
func (v SetCasePreferences) ExtractArgs() []string {
	return append([]string{v.Cases}, v.Preferences.ExtractArgs()...)
}
func (v SetCasePreferences) Handle(h Handler) error {
	return h.SetCasePreferences(v.Cases, v.Preferences)
}

func decodeSetCasePreferences(args []string) (ClientCommand, error) {
	if err := wantArgs(args, 1+CasePreferences{}.FieldCount()); err != nil {
		return nil, err
	}
	var prefs CasePreferences
	if err := prefs.FromArgs(args[1:]); err != nil {
		return nil, err
	}
	return SetCasePreferences{Cases: args[0], Preferences: prefs}, nil
}

// ---- CaseAnnounce (CASEA) ----

type CaseAnnounce struct {
	Cases       string
	Preferences CasePreferences
}

func (CaseAnnounce) Code() string { return "CASEA" }
func (v CaseAnnounce) ExtractArgs() []string {
	return append([]string{v.Cases}, v.Preferences.ExtractArgs()...)
}
func (v CaseAnnounce) Handle(h Handler) error {
	return h.CaseAnnounce(v.Cases, v.Preferences)
}

func decodeCaseAnnounce(args []string) (ClientCommand, error) {
	if err := wantArgs(args, 1+CasePreferences{}.FieldCount()); err != nil {
		return nil, err
	}
	var prefs CasePreferences
	if err := prefs.FromArgs(args[1:]); err != nil {
		return nil, err
	}
	return CaseAnnounce{Cases: args[0], Preferences: prefs}, nil
}

// ---- Penalties (HP) ----

type Penalties struct {
	PenaltyType uint32
	NewValue    uint32
}

func (Penalties) Code() string { return "HP" }
func (v Penalties) ExtractArgs() []string {
	return []string{
		strconv.FormatUint(uint64(v.PenaltyType), 10),
		strconv.FormatUint(uint64(v.NewValue), 10),
	}
}
func (v Penalties) Handle(h Handler) error { return h.Penalties(v.PenaltyType, v.NewValue) }

func decodePenalties(args []string) (ClientCommand, error) {
	if err := wantArgs(args, 2); err != nil {
		return nil, err
	}
	typ, err := parseUint32(args[0])
	if err != nil {
		return nil, err
	}
	val, err := parseUint32(args[1])
	if err != nil {
		return nil, err
	}
	return Penalties{PenaltyType: typ, NewValue: val}, nil
}

// ---- AddEvidence (PE) ----

type AddEvidence struct{ Evidence EvidenceArgs }

func (AddEvidence) Code() string             { return "PE" }
func (v AddEvidence) ExtractArgs() []string  { return v.Evidence.ExtractArgs() }
func (v AddEvidence) Handle(h Handler) error { return h.AddEvidence(v.Evidence) }

func decodeAddEvidence(args []string) (ClientCommand, error) {
	if err := wantArgs(args, EvidenceArgs{}.FieldCount()); err != nil {
		return nil, err
	}
	var ev EvidenceArgs
	if err := ev.FromArgs(args); err != nil {
		return nil, err
	}
	return AddEvidence{Evidence: ev}, nil
}

// ---- DeleteEvidence (DE) ----

type DeleteEvidence struct{ ID uint32 }

func (DeleteEvidence) Code() string { return "DE" }
func (v DeleteEvidence) ExtractArgs() []string {
	return []string{strconv.FormatUint(uint64(v.ID), 10)}
}
func (v DeleteEvidence) Handle(h Handler) error { return h.DeleteEvidence(v.ID) }

func decodeDeleteEvidence(args []string) (ClientCommand, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}
	id, err := parseUint32(args[0])
	if err != nil {
		return nil, err
	}
	return DeleteEvidence{ID: id}, nil
}

// ---- EditEvidence (EE) ----

type EditEvidence struct {
	ID       uint32
	Evidence EvidenceArgs
}

func (EditEvidence) Code() string { return "EE" }
func (v EditEvidence) ExtractArgs() []string {
	return append([]string{strconv.FormatUint(uint64(v.ID), 10)}, v.Evidence.ExtractArgs()...)
}
func (v EditEvidence) Handle(h Handler) error { return h.EditEvidence(v.ID, v.Evidence) }

func decodeEditEvidence(args []string) (ClientCommand, error) {
	if err := wantArgs(args, 1+EvidenceArgs{}.FieldCount()); err != nil {
		return nil, err
	}
	id, err := parseUint32(args[0])
	if err != nil {
		return nil, err
	}
	var ev EvidenceArgs
	if err := ev.FromArgs(args[1:]); err != nil {
		return nil, err
	}
	return EditEvidence{ID: id, Evidence: ev}, nil
}

// ---- CallModButton (ZZ) ----

type CallModButton struct{ Reason string }

func (CallModButton) Code() string            { return "ZZ" }
func (v CallModButton) ExtractArgs() []string { return []string{v.Reason} }
func (v CallModButton) Handle(h Handler) error {
	return h.CallModButton(v.Reason)
}

func decodeCallModButton(args []string) (ClientCommand, error) {
	switch len(args) {
	case 0:
		return CallModButton{}, nil
	case 1:
		return CallModButton{Reason: args[0]}, nil
	default:
		return nil, NewError(KindArity, "too many args: wanted at most 1 args, got %d", len(args))
	}
}

// ---- Server-originated commands ----

// ServerHandshake is the server's own "HI" reply, distinct from the
// client's Handshake variant though it shares the wire code.
type ServerHandshake struct{ HardwareID string }

func (ServerHandshake) Code() string            { return "HI" }
func (v ServerHandshake) ExtractArgs() []string { return []string{v.HardwareID} }

// KeepAliveAck is the server's "CHECK" reply to a client CH ping.
type KeepAliveAck struct{}

func (KeepAliveAck) Code() string         { return "CHECK" }
func (KeepAliveAck) ExtractArgs() []string { return nil }

// Decryptor is the fixed preamble sent immediately after accept.
type Decryptor struct{ Value uint32 }

func (Decryptor) Code() string { return "decryptor" }
func (v Decryptor) ExtractArgs() []string {
	return []string{strconv.FormatUint(uint64(v.Value), 10)}
}

// BanReason is sent when admission fails or a ban is enforced.
type BanReason struct{ Reason string }

func (BanReason) Code() string            { return "BD" }
func (v BanReason) ExtractArgs() []string { return []string{v.Reason} }

// ServerVersion answers a client's ID handshake.
type ServerVersion struct {
	SlotID   uint8
	Software string
	Version  string
}

func (ServerVersion) Code() string { return "ID" }
func (v ServerVersion) ExtractArgs() []string {
	return []string{strconv.FormatUint(uint64(v.SlotID), 10), v.Software, v.Version}
}

// PlayerCount reports current/max population after a successful handshake.
type PlayerCount struct {
	Count uint8
	Max   uint8
}

func (PlayerCount) Code() string { return "PN" }
func (v PlayerCount) ExtractArgs() []string {
	return []string{
		strconv.FormatUint(uint64(v.Count), 10),
		strconv.FormatUint(uint64(v.Max), 10),
	}
}

// ListLengths answers AskListLengths with the three list sizes the client
// needs before it starts paging through characters, evidence, and music.
type ListLengths struct {
	CharacterCount uint32
	EvidenceCount  uint32
	MusicCount     uint32
}

func (ListLengths) Code() string { return "SI" }
func (v ListLengths) ExtractArgs() []string {
	return []string{
		strconv.FormatUint(uint64(v.CharacterCount), 10),
		strconv.FormatUint(uint64(v.EvidenceCount), 10),
		strconv.FormatUint(uint64(v.MusicCount), 10),
	}
}

// CharacterPage is one page of the character list, names in slot order.
// Unlike the reference client's 10-names-per-packet batching, this
// implementation sends the whole requested page as a single comma-joined
// argument; the client only ever needs the joined display strings.
type CharacterPage struct {
	Page  uint32
	Names []string
}

func (CharacterPage) Code() string { return "SC" }
func (v CharacterPage) ExtractArgs() []string {
	return []string{strconv.FormatUint(uint64(v.Page), 10), strings.Join(v.Names, ",")}
}

// EvidencePage is one page of the evidence list, each entry flattened in
// order after the page number.
type EvidencePage struct {
	Page    uint32
	Entries []EvidenceArgs
}

func (EvidencePage) Code() string { return "LE" }
func (v EvidencePage) ExtractArgs() []string {
	args := []string{strconv.FormatUint(uint64(v.Page), 10)}
	for _, e := range v.Entries {
		args = append(args, e.ExtractArgs()...)
	}
	return args
}

// SongPage is one page of the music list: a category name followed by its
// comma-joined song names.
type SongPage struct {
	Category string
	Songs    []string
}

func (SongPage) Code() string { return "FM" }
func (v SongPage) ExtractArgs() []string {
	return []string{v.Category, strings.Join(v.Songs, ",")}
}

// CharacterSelected confirms a successful SelectCharacter to the caller.
type CharacterSelected struct {
	CharacterID int32
}

func (CharacterSelected) Code() string { return "CC" }
func (v CharacterSelected) ExtractArgs() []string {
	return []string{strconv.FormatInt(int64(v.CharacterID), 10)}
}

// ServerOOCMessage echoes an out-of-character message back to its own
// sender; without a persisted room/area entity to fan a message out to,
// this implementation loops a message back to its author instead of
// inventing a broadcast entity spec.md's data model never defines.
type ServerOOCMessage struct {
	Name    string
	Message string
}

func (ServerOOCMessage) Code() string            { return "CT" }
func (v ServerOOCMessage) ExtractArgs() []string { return []string{v.Name, v.Message} }
