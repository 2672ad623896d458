package dataset

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// DefaultEncoding is used when no encoding hint is given.
const DefaultEncoding = "utf-8"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Names the WHATWG index does not carry but Korean spreadsheets are saved with.
var legacyAliases = map[string]encoding.Encoding{
	"cp949": korean.EUCKR,
	"ms949": korean.EUCKR,
	"uhc":   korean.EUCKR,
	"euckr": korean.EUCKR,
}

// EncodingName folds an encoding hint to the form used as a cache key.
func EncodingName(hint string) string {
	name := strings.ToLower(strings.TrimSpace(hint))
	switch name {
	case "", "utf8", "utf-8-sig", "utf_8":
		return DefaultEncoding
	}
	return name
}

func lookupEncoding(hint string) (encoding.Encoding, error) {
	name := EncodingName(hint)
	if name == DefaultEncoding {
		return nil, nil
	}
	if enc, ok := legacyAliases[name]; ok {
		return enc, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, unavailableErr(err, "unknown encoding %q", hint)
	}
	return enc, nil
}

// decode converts raw file bytes to UTF-8 text. A nil enc means UTF-8.
// Undecodable input is rejected rather than replaced.
func decode(raw []byte, enc encoding.Encoding, hint string) (string, error) {
	if enc == nil {
		raw = bytes.TrimPrefix(raw, utf8BOM)
		if !utf8.Valid(raw) {
			return "", unavailable("content is not valid %s", EncodingName(hint))
		}
		return string(raw), nil
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return "", unavailableErr(err, "decode as %s", EncodingName(hint))
	}
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", unavailable("content is not valid %s", EncodingName(hint))
	}
	return string(out), nil
}
