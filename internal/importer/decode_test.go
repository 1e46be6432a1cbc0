package importer

import (
	"bytes"
	"testing"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

func TestDecodeToUTF8(t *testing.T) {
	utf16le := func(s string) []byte {
		enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
		out, err := enc.Bytes([]byte(s))
		if err != nil {
			t.Fatalf("utf16le encode: %v", err)
		}
		return out
	}
	latin1 := func(s string) []byte {
		out, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
		if err != nil {
			t.Fatalf("latin1 encode: %v", err)
		}
		return out
	}

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"plain utf8", []byte("código,año\n"), "código,año\n"},
		{"utf8 bom stripped", append([]byte{0xEF, 0xBB, 0xBF}, []byte("code\n")...), "code\n"},
		{"utf16 le with bom", utf16le("código\n"), "código\n"},
		{"latin1 fallback", latin1("informática\n"), "informática\n"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeToUTF8(tt.data)
			if err != nil {
				t.Fatalf("decodeToUTF8() error = %v", err)
			}
			if !bytes.Equal(got, []byte(tt.want)) {
				t.Errorf("decodeToUTF8() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRun_AcceptsUTF16Upload(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	data, err := enc.Bytes([]byte("code,name\nA-1,Señora\n"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	res := widgetPipeline().Run(data, nil)
	if len(res.Errors) != 0 {
		t.Fatalf("Errors = %+v, want none", res.Errors)
	}
	if res.Records[0].Name != "Señora" {
		t.Errorf("Name = %q, want Señora", res.Records[0].Name)
	}
}
