package source

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Codec names the text encoding a file was decoded with
type Codec string

const (
	CodecUTF8   Codec = "utf-8"
	CodecLatin1 Codec = "latin-1"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode turns raw file bytes into text. Valid UTF-8 is used as is (minus a
// leading byte order mark); anything else is read as ISO-8859-1, which maps
// every byte to a character and therefore accepts any input. ASCII content
// decodes to the same text under both codecs.
func Decode(data []byte) (string, Codec, error) {
	if utf8.Valid(data) {
		return string(bytes.TrimPrefix(data, utf8BOM)), CodecUTF8, nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", fmt.Errorf("failed to decode as %s: %w", CodecLatin1, err)
	}
	return string(decoded), CodecLatin1, nil
}

// ReadFile reads and decodes a source file
func ReadFile(path string) (string, Codec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read file: %w", err)
	}
	return Decode(data)
}
