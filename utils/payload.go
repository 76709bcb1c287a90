package utils

import (
	"encoding/base64"
	"fmt"
	"strings"

	"armario-virtual/models"
)

// DecodeImagePayload accepts a data URL ("data:image/jpeg;base64,...") or bare base64
// and returns the raw bytes
func DecodeImagePayload(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: image is required", models.ErrInvalidInput)
	}

	if strings.HasPrefix(s, "data:") {
		header, data, ok := strings.Cut(s, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, fmt.Errorf("%w: data URL must be base64 encoded", models.ErrDecode)
		}
		s = data
	}

	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(s)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %w", models.ErrDecode, err)
	}
	return raw, nil
}

// EncodeDataURL returns payload as a JPEG data URL
func EncodeDataURL(payload []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(payload)
}
