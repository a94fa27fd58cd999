package event

import (
	"encoding/json"
	"fmt"
)

// DecodePayload returns an event payload as T. In-process publishers put
// T or *T straight on the event; anything else (a map read back from the
// dead-letter file, say) goes through a JSON round trip.
func DecodePayload[T any](input interface{}) (T, error) {
	var result T
	switch v := input.(type) {
	case T:
		return v, nil
	case *T:
		if v == nil {
			return result, fmt.Errorf("nil %T payload", v)
		}
		return *v, nil
	case nil:
		return result, fmt.Errorf("empty payload, want %T", result)
	}

	data, err := json.Marshal(input)
	if err != nil {
		return result, fmt.Errorf("failed to encode payload: %w", err)
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("failed to decode payload as %T: %w", result, err)
	}
	return result, nil
}
