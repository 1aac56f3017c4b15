package aoproto

import (
	"bytes"
	"strings"
)

// MaxMessageSize is the maximum number of bytes a single framed message
// (including its "#%" terminator) may occupy before decoding fails.
const MaxMessageSize = 8192

// terminator is the two-byte sequence that closes every message.
const terminator = "#%"

// Decoder turns a byte stream into a sequence of ClientCommand values. It
// owns an internal buffer and is safe to feed from a single reader goroutine
// at a time; it is not safe for concurrent use from multiple goroutines.
type Decoder struct {
	buf bytes.Buffer
}

// NewDecoder returns a Decoder with an empty internal buffer.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends freshly-read bytes to the internal buffer.
func (d *Decoder) Feed(p []byte) {
	d.buf.Write(p)
}

// Next attempts to decode one complete message from the internal buffer.
// ok is false when more bytes are needed before a full message is
// available; this is not an error. A non-nil error means framing or the
// variant's own codec rejected the message, and the caller should
// terminate the connection per spec §7.
func (d *Decoder) Next() (cmd ClientCommand, ok bool, err error) {
	raw := d.buf.Bytes()

	idx := indexTerminator(raw)
	if idx < 0 {
		if len(raw) > MaxMessageSize {
			return nil, false, NewError(KindFraming, "too much data")
		}
		return nil, false, nil
	}

	frame := raw[:idx]
	if len(frame)+len(terminator) > MaxMessageSize {
		d.buf.Next(idx + len(terminator))
		return nil, false, NewError(KindFraming, "too much data")
	}

	d.buf.Next(idx + len(terminator))

	code, args := splitFrame(frame)
	decode, known := byCode[code]
	if !known {
		return nil, false, NewError(KindUnknownCode, "unknown command code: %s", code)
	}

	cmd, err = decode(args)
	if err != nil {
		return nil, false, err
	}
	return cmd, true, nil
}

// Pending reports whether the buffer holds any unterminated residue. It is
// used when the stream hits clean EOF, per spec §4.2: the residue is
// logged and dropped, not treated as an error.
func (d *Decoder) Pending() bool {
	return d.buf.Len() > 0
}

// indexTerminator scans two-byte windows for the first "#%" occurrence,
// matching spec §4.2's framing contract exactly.
func indexTerminator(b []byte) int {
	for i := 0; i+1 < len(b); i++ {
		if b[i] == '#' && b[i+1] == '%' {
			return i
		}
	}
	return -1
}

// splitFrame separates a terminator-stripped frame into its code and
// lossily-decoded, "#"-delimited argument list. The mandatory separating
// "#" between code and first argument means the empty leading element of
// strings.Split must be discarded.
func splitFrame(frame []byte) (code string, args []string) {
	clean := lossyUTF8(frame)

	sep := strings.IndexByte(clean, '#')
	if sep < 0 {
		return clean, nil
	}

	code = clean[:sep]
	return code, strings.Split(clean[sep+1:], "#")
}

// lossyUTF8 decodes frame as UTF-8, dropping each replacement character
// introduced by invalid byte sequences so that no returned field ever
// contains U+FFFD, per spec §4.2 and §6.
func lossyUTF8(frame []byte) string {
	s := string(frame)
	if !strings.ContainsRune(s, '�') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '�' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Encode renders a ServerCommand as "<code>#<arg>#..#<arg>#%", reserving
// buffer capacity up front per spec §4.2's encode contract.
func Encode(cmd ServerCommand) []byte {
	code := cmd.Code()
	args := cmd.ExtractArgs()

	size := len(code) + 1
	for _, a := range args {
		size += len(a) + 1
	}
	size++ // trailing '%'

	out := make([]byte, 0, size)
	out = append(out, code...)
	out = append(out, '#')
	for _, a := range args {
		out = append(out, a...)
		out = append(out, '#')
	}
	out = append(out, '%')
	return out
}
