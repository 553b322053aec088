package wordlist

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var boms = [][]byte{
	{0xEF, 0xBB, 0xBF}, // UTF-8
	{0xFF, 0xFE},       // UTF-16LE
	{0xFE, 0xFF},       // UTF-16BE
}

// DecodeText converts raw file bytes to a UTF-8 string. A byte order mark
// selects the encoding and is removed. Input that is not UTF-8 is read as
// EUC-KR, which is what Korean spreadsheet tools commonly export.
func DecodeText(raw []byte) string {
	for _, bom := range boms {
		if !bytes.HasPrefix(raw, bom) {
			continue
		}
		dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
		if out, _, err := transform.Bytes(dec, raw); err == nil {
			return string(out)
		}
		break
	}

	if utf8.Valid(raw) {
		return string(raw)
	}

	if out, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), raw); err == nil && utf8.Valid(out) {
		return string(out)
	}

	return strings.ToValidUTF8(string(raw), "\uFFFD")
}
