package session

import (
	"encoding/base64"
	"strings"
)

const encodedPrefix = "enc_"

// Encode tags v and base64-encodes it.
func Encode(v string) string {
	return encodedPrefix + base64.StdEncoding.EncodeToString([]byte(v))
}

// Decode reverses Encode. Untagged values, and tagged values whose payload
// is not valid base64, are returned unchanged.
func Decode(v string) string {
	payload, ok := strings.CutPrefix(v, encodedPrefix)
	if !ok {
		return v
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return v
	}
	return string(raw)
}
