package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const dataURLScheme = "data:"

// EncodeDataURL packs raw image bytes into a data:<mime>;base64,<data> URI,
// the form image parts carry through the whole system.
func EncodeDataURL(mimeType string, data []byte) string {
	return dataURLScheme + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL parses a base64 data URI back into its declared MIME type and
// raw payload.
func DecodeDataURL(uri string) (string, []byte, error) {
	if !strings.HasPrefix(uri, dataURLScheme) {
		return "", nil, fmt.Errorf("not a data URI")
	}

	rest := uri[len(dataURLScheme):]
	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return "", nil, fmt.Errorf("data URI has no payload separator")
	}

	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("data URI is not base64 encoded")
	}
	if mimeType == "" {
		return "", nil, fmt.Errorf("data URI has no media type")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decoding data URI payload: %w", err)
	}

	return mimeType, data, nil
}
