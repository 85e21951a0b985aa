package listing

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/unicode/norm"
)

// DecodeName converts a raw, possibly NUL-padded name to a string.
// Valid UTF-8 is kept as is; anything else is decoded as Shift-JIS, the
// encoding legacy archive tools wrote names in. The result is NFC-normalised
// so it can be compared and used as a file name.
func DecodeName(raw []byte) (string, error) {
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	if utf8.Valid(raw) {
		return norm.NFC.String(string(raw)), nil
	}
	decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode name %x: %w", raw, err)
	}
	return norm.NFC.String(string(decoded)), nil
}
