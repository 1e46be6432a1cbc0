package importer

// decode.go normalizes uploaded spreadsheet bytes to UTF-8 before parsing.
// Exported spreadsheets arrive in whatever encoding the user's tooling
// produced: Excel on Windows writes UTF-8 with a BOM or UTF-16LE, older
// tools write Latin-1. The CSV reader only speaks UTF-8.

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decodeToUTF8 detects the encoding of data, strips any BOM, and returns
// UTF-8 bytes. Undecodable input falls back to Latin-1, which never fails
// (every byte maps to a code point), so the error is only for the UTF-16
// transforms.
func decodeToUTF8(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}

	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):], nil

	case bytes.HasPrefix(data, bomUTF16LE):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
		return dec.Bytes(data[len(bomUTF16LE):])

	case bytes.HasPrefix(data, bomUTF16BE):
		dec := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
		return dec.Bytes(data[len(bomUTF16BE):])
	}

	if utf8.Valid(data) {
		return data, nil
	}

	return charmap.ISO8859_1.NewDecoder().Bytes(data)
}
