// Package bc3 implements parsing of FIEBDC-3 ("BC3") construction budget
// exchange files. It covers the flat concept record type (~C) only; the
// hierarchical record types (~V, ~D, ~T) are out of scope.
//
// The package is pure: it turns bytes into lines and lines into concepts,
// with no database or framework dependencies.
package bc3

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrUndecodable is returned when the payload decodes under none of the
// supported encodings.
var ErrUndecodable = errors.New("file encoding could not be determined, save the file as Windows-1252 (ANSI) or UTF-8")

// encodingAttempt is one entry in the ordered decode attempt list.
// decode reports ok=false when the payload is not representable in
// the attempt's encoding.
type encodingAttempt struct {
	name   string
	decode func(data []byte) (text string, ok bool)
}

// attempts is the fixed decode order. Windows-1252 goes first: the dominant
// source locale for BC3 files writes ANSI, and a 1252 success is final even
// when the same bytes would also be valid UTF-8.
var attempts = []encodingAttempt{
	{name: "windows-1252", decode: decodeWindows1252},
	{name: "utf-8", decode: decodeUTF8},
}

// win1252Undefined holds the five byte values Windows-1252 leaves unassigned.
// Their presence is the only way a 1252 decode can fail.
var win1252Undefined = []byte{0x81, 0x8D, 0x8F, 0x90, 0x9D}

// DecodeLines decodes a raw BC3 payload into physical lines.
//
// Encodings are tried in the order of the attempt list; the first success
// wins. Empty input yields no lines and no error. Line breaks may be \n,
// \r\n, or bare \r.
func DecodeLines(raw []byte) ([]string, error) {
	raw = stripBOM(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	for _, attempt := range attempts {
		if text, ok := attempt.decode(raw); ok {
			return splitLines(text), nil
		}
	}

	return nil, ErrUndecodable
}

func decodeWindows1252(data []byte) (string, bool) {
	for _, b := range win1252Undefined {
		if bytes.IndexByte(data, b) >= 0 {
			return "", false
		}
	}
	text, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	return string(text), true
}

func decodeUTF8(data []byte) (string, bool) {
	if !utf8.Valid(data) {
		return "", false
	}
	return string(data), true
}

// stripBOM removes a leading UTF-8 byte order mark. Some Windows editors
// prepend one when re-saving BC3 files.
func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
}

// splitLines splits decoded text on any of the three line break styles.
// A trailing break does not produce a phantom empty line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
