package bodyparse

import (
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

func isUTF8(charset string) bool {
	switch normalizeCharsetName(charset) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}

// charsetDecoder returns a func converting strings in charset to UTF-8.
// Uses golang.org/x/text/encoding/htmlindex for the charset lookup.
func charsetDecoder(charset string) (func(string) (string, error), error) {
	if isUTF8(charset) {
		return func(s string) (string, error) { return s, nil }, nil
	}

	enc, err := htmlindex.Get(normalizeCharsetName(charset))
	if err != nil {
		return nil, &Error{Status: http.StatusUnsupportedMediaType, Msg: fmt.Sprintf("unsupported charset %q", charset), Err: err}
	}

	return func(s string) (string, error) {
		result, _, err := transform.String(enc.NewDecoder(), s)
		if err != nil {
			return "", &Error{Status: http.StatusBadRequest, Msg: fmt.Sprintf("failed to decode %s body", charset), Err: err}
		}
		return result, nil
	}, nil
}

// normalizeCharsetName maps common aliases to names htmlindex knows
func normalizeCharsetName(charset string) string {
	normalized := strings.ToLower(strings.TrimSpace(charset))
	switch normalized {
	case "latin1", "latin-1", "iso8859-1", "iso_8859-1":
		return "iso-8859-1"
	case "latin9", "latin-9", "iso8859-15", "iso_8859-15":
		return "iso-8859-15"
	case "cp1252":
		return "windows-1252"
	}
	return normalized
}
