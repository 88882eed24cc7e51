// Package encoding implements the Encoding Bridge (C5): label resolution
// against golang.org/x/text's IANA/codepage tables, recoding arbitrary
// input to UTF-8, and the rune-counting invariant used to enforce field
// size limits in Unicode scalar values rather than bytes.
package encoding

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Resolve looks up an encoding by label, the way an external iconv would:
// first as an IANA/MIME name (e.g. "latin1", "utf-16", "shift_jis"), then —
// if label is purely numeric — as a Windows/IBM codepage number ("1252" ->
// "CP1252" / "windows-1252"). Resolve never guesses; an unrecognized label
// is an error the caller should surface as tabkit.EncodingError.
func Resolve(label string) (encoding.Encoding, error) {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return unicode.UTF8, nil
	}
	if enc, err := ianaindex.IANA.Encoding(trimmed); err == nil && enc != nil {
		return enc, nil
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		for _, prefix := range []string{"CP" + strconv.Itoa(n), "windows-" + strconv.Itoa(n), "IBM" + strconv.Itoa(n)} {
			if enc, err := ianaindex.IANA.Encoding(prefix); err == nil && enc != nil {
				return enc, nil
			}
		}
	}
	return nil, fmt.Errorf("unrecognized encoding label %q", label)
}

// ToUTF8 recodes b from the named encoding to UTF-8. A BOM, if present, is
// consumed and does not appear in the output.
func ToUTF8(b []byte, label string) ([]byte, error) {
	if label == "" || strings.EqualFold(label, "utf-8") || strings.EqualFold(label, "utf8") {
		return StripBOM(b), nil
	}
	enc, err := Resolve(label)
	if err != nil {
		return nil, err
	}
	reader := transform.NewReader(bytes.NewReader(b), enc.NewDecoder())
	out, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("recoding from %s: %w", label, err)
	}
	return out, nil
}

// StripBOM removes a leading UTF-8 BOM if present.
func StripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}

// DetectUTF16 inspects the leading bytes for a UTF-16 BOM and, if found,
// returns the decoded UTF-8 bytes and true. It uses
// unicode.BOMOverride/UTF8BOM semantics via golang.org/x/text/encoding/unicode,
// generalizing the hand-rolled decodeUTF16All helper it replaces.
func DetectUTF16(b []byte) (utf8Bytes []byte, matched bool, err error) {
	switch {
	case bytes.HasPrefix(b, []byte{0xFF, 0xFE}), bytes.HasPrefix(b, []byte{0xFE, 0xFF}):
	default:
		return b, false, nil
	}
	e := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	reader := transform.NewReader(bytes.NewReader(b), e)
	out, err := io.ReadAll(reader)
	if err != nil {
		return nil, true, fmt.Errorf("decoding UTF-16: %w", err)
	}
	return out, true, nil
}

// RuneCount implements the field-size-limit invariant:
// Σ[byte & 0xC0 != 0x80] over b — the number of UTF-8 lead/ASCII bytes,
// i.e. the number of Unicode scalar values regardless of validity.
func RuneCount(b []byte) int {
	n := 0
	for _, c := range b {
		if c&0xC0 != 0x80 {
			n++
		}
	}
	return n
}

// Validate reports whether b is well-formed UTF-8, surfacing the byte
// offset of the first invalid sequence for error messages.
func Validate(b []byte) (ok bool, offset int) {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return false, i
		}
		i += size
	}
	return true, -1
}
