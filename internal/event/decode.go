package event

import (
	"encoding/json"
	"fmt"
)

// DecodePayload converts an event payload into T. In-process publishers pass
// the payload struct (or a pointer to it) directly; payloads replayed from the
// dead-letter file arrive as generic JSON maps and are re-decoded.
func DecodePayload[T any](input any) (T, error) {
	var result T
	switch v := input.(type) {
	case T:
		return v, nil
	case *T:
		if v == nil {
			return result, fmt.Errorf("%s: nil %T", ErrMsgPayloadDecode, v)
		}
		return *v, nil
	}
	data, err := json.Marshal(input)
	if err != nil {
		return result, fmt.Errorf("%s: %w", ErrMsgPayloadDecode, err)
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("%s into %T: %w", ErrMsgPayloadDecode, result, err)
	}
	return result, nil
}
