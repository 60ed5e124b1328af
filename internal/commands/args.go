package commands

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// decodeArgs unmarshals raw into dst after checking that every required
// key is present. Keys may hold empty values.
func decodeArgs(command string, raw json.RawMessage, dst any, required ...string) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return &ArgsError{Command: command, Reason: err.Error()}
	}
	var missing []string
	for _, key := range required {
		if _, ok := keys[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &ArgsError{Command: command, Reason: "missing required key " + strings.Join(missing, ", ")}
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return &ArgsError{Command: command, Reason: err.Error()}
	}
	return nil
}

// AudioBytes accepts either a base64 string or an array of byte values.
type AudioBytes []byte

func (b *AudioBytes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*b = nil
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return fmt.Errorf("bytes is not valid base64: %w", err)
		}
		*b = decoded
		return nil
	}

	var values []int
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("bytes must be a base64 string or an array of bytes: %w", err)
	}
	out := make([]byte, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return fmt.Errorf("bytes[%d] = %d is out of range", i, v)
		}
		out[i] = byte(v)
	}
	*b = out
	return nil
}
