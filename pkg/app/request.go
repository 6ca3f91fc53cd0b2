package app

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/birdayz/a85/pkg/codec"
)

// Mode selects the direction of a conversion.
type Mode int

const (
	ModeEncode Mode = iota
	ModeDecode
)

func (m Mode) String() string {
	switch m {
	case ModeEncode:
		return "encode"
	case ModeDecode:
		return "decode"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Run applies c to data in the direction of m.
func (m Mode) Run(c codec.Codec, data []byte) ([]byte, error) {
	if m == ModeDecode {
		return c.Decode(data)
	}
	return c.Encode(data)
}

var (
	ErrTooFewArguments = errors.New("too few arguments provided")
	ErrUnknownMode     = errors.New("unknown ascii85 mode specified")
)

// ParseRequest parses one interactive request line of the form
// "<mode> <payload>", where mode is e/E for encode or d/D for decode. The
// payload is everything after the mode and the single separator
// character following it, without the trailing line ending.
func ParseRequest(line string) (Mode, []byte, error) {
	line = TrimLineEnding(line)

	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, nil, ErrTooFewArguments
	}

	var mode Mode
	switch fields[0] {
	case "e", "E":
		mode = ModeEncode
	case "d", "D":
		mode = ModeDecode
	default:
		return 0, nil, fmt.Errorf("%w: %q", ErrUnknownMode, fields[0])
	}

	rest := strings.TrimLeftFunc(line, unicode.IsSpace)[1:]
	_, sep := utf8.DecodeRuneInString(rest)
	return mode, []byte(rest[sep:]), nil
}

// TrimLineEnding strips one trailing "\n" and then one trailing "\r".
func TrimLineEnding(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
