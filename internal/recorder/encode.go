package recorder

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// fallbackMIME is assumed when the payload bytes are not recognizable; the
// capture pipeline produces webm-encoded audio by default.
const fallbackMIME = "audio/webm"

// EncodePayload wraps raw audio bytes in a self-describing base64 data URI.
// The MIME type is sniffed from the bytes so the stored payload is directly
// playable without further decoding.
func EncodePayload(raw []byte) string {
	mime := fallbackMIME
	if detected := mimetype.Detect(raw); !detected.Is("application/octet-stream") {
		mime = detected.String()
	}

	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(raw))
}

// DecodePayload splits a data URI back into MIME type and raw bytes. Used by
// playback and by tests asserting round-trip integrity.
func DecodePayload(payload string) (mime string, raw []byte, err error) {
	if !strings.HasPrefix(payload, "data:") {
		return "", nil, fmt.Errorf("not a data uri")
	}

	rest := strings.TrimPrefix(payload, "data:")
	head, encoded, found := strings.Cut(rest, ",")
	if !found {
		return "", nil, fmt.Errorf("malformed data uri")
	}

	mime = strings.TrimSuffix(head, ";base64")

	raw, err = base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode payload: %w", err)
	}

	return mime, raw, nil
}
