package aoproto

import "fmt"

// decodeFunc parses a variant's already-split argument slice into a typed
// ClientCommand. It is the from_protocol operation of spec §4.1 for one
// variant; from_protocol as a whole is the byCode table lookup in Decode.
type decodeFunc func(args []string) (ClientCommand, error)

// variantSpec is one row of the command schema: a closed, compile-time
// table a conforming implementation walks once at init() to build the
// dispatch map and to validate the rules in spec §4.1.
type variantSpec struct {
	code   string
	decode decodeFunc
}

// clientSchema is the closed set of client-to-server command variants.
// Every variant here carries a `handle` name implicitly: its decoded
// ClientCommand.Handle method. There is no "enum without a handler" case
// for ClientCommand, so the handler-without-handle rule is enforced
// structurally by the ClientCommand interface rather than by a runtime
// check.
var clientSchema = []variantSpec{
	{"HI", decodeHandshake},
	{"ID", decodeClientVersion},
	{"CH", decodeKeepAlive},
	{"askchaa", decodeAskListLengths},
	{"askchar2", decodeAskListCharacters},
	{"AN", decodeCharacterList},
	{"AE", decodeEvidenceList},
	{"AM", decodeMusicList},
	{"AC", decodeCharacterListAO2},
	{"RD", decodeReady},
	{"CC", decodeSelectCharacter},
	{"MS", decodeICMessage},
	{"CT", decodeOOCMessage},
	{"MC", decodePlaySong},
	{"RT", decodeWTCEButtons},
	{"SETCASE", decodeSetCasePreferences},
	{"CASEA", decodeCaseAnnounce},
	{"HP", decodePenalties},
	{"PE", decodeAddEvidence},
	{"DE", decodeDeleteEvidence},
	{"EE", decodeEditEvidence},
	{"ZZ", decodeCallModButton},
}

var byCode map[string]decodeFunc

func init() {
	byCode = mustBuildSchema(clientSchema)
}

// mustBuildSchema walks a variant table exactly once, applying the
// validation rules spec §4.1 requires of a conforming generator. Any
// violation panics at package init time rather than surfacing at decode
// time, which is as close to "fatal at schema compile time" as a
// table-walker (as opposed to a macro or external code-gen tool) gets.
func mustBuildSchema(table []variantSpec) map[string]decodeFunc {
	seen := make(map[string]bool, len(table))
	out := make(map[string]decodeFunc, len(table))

	for _, v := range table {
		if v.code == "" {
			panic(fmt.Sprintf("aoproto: no code parameter on schema entry %#v", v))
		}
		if v.decode == nil {
			panic(fmt.Sprintf("aoproto: no handle parameter on variant %q", v.code))
		}
		if seen[v.code] {
			panic(fmt.Sprintf("aoproto: duplicate wire code %q across variants", v.code))
		}
		seen[v.code] = true
		out[v.code] = v.decode
	}

	return out
}
