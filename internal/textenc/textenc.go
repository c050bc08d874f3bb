// Package textenc decodes statement files into UTF-8 text.
package textenc

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode converts data from the encoding named by label (a WHATWG label
// such as "iso-8859-15", "utf8" or "windows-1252") into a string. An empty
// label means UTF-8.
func Decode(data []byte, label string) (string, error) {
	enc, err := Lookup(label)
	if err != nil {
		return "", err
	}

	if enc == unicode.UTF8 {
		data = bytes.TrimPrefix(data, utf8BOM)
		if !utf8.Valid(data) {
			return "", fmt.Errorf("decoding %s: invalid UTF-8 input", labelOrDefault(label))
		}
		return string(data), nil
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", labelOrDefault(label), err)
	}
	return string(out), nil
}

// Lookup resolves an encoding label.
func Lookup(label string) (encoding.Encoding, error) {
	if strings.TrimSpace(label) == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(strings.TrimSpace(label))
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	return enc, nil
}

func labelOrDefault(label string) string {
	if label == "" {
		return "utf-8"
	}
	return label
}
