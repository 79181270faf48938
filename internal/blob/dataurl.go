package blob

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrInvalidDataURL is returned for anything that is not a base64 data URL.
var ErrInvalidDataURL = errors.New("invalid data URL")

// EncodeDataURL returns data as a base64 data URL.
func EncodeDataURL(mime string, data []byte) string {
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// IsDataURL reports whether s looks like a data URL.
func IsDataURL(s string) bool { return strings.HasPrefix(s, "data:") }

// DecodeDataURL parses a base64 data URL into its MIME type and bytes.
func DecodeDataURL(s string) (string, []byte, error) {
	if !IsDataURL(s) {
		return "", nil, ErrInvalidDataURL
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	mime, isB64 := strings.CutSuffix(meta, ";base64")
	if !isB64 {
		return "", nil, ErrInvalidDataURL
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, errors.Join(ErrInvalidDataURL, err)
	}
	return mime, data, nil
}
