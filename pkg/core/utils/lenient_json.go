package utils

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// DecodeLenient decodes data into v, trying progressively more forgiving parsers.
// Order of attempts:
// 1. Standard JSON
// 2. JSON repair (truncated files, trailing commas, single quotes)
// 3. Hjson (comments, unquoted keys)
func DecodeLenient(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err == nil {
		return nil
	}

	if repaired, err := jsonrepair.RepairJSON(string(data)); err == nil {
		if err := json.Unmarshal([]byte(repaired), v); err == nil {
			return nil
		}
	}

	if err := DecodeHJSON(data, v); err == nil {
		return nil
	}

	return fmt.Errorf("decode: all parsing strategies failed")
}

// DecodeHJSON parses human-written Hjson into v. Hjson allows comments,
// unquoted keys and optional commas.
//
// The document is normalised through standard JSON so that struct json tags apply.
func DecodeHJSON(data []byte, v any) error {
	var generic any
	if err := hjson.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("hjson parse: %w", err)
	}
	raw, err := json.Marshal(generic)
	if err != nil {
		return fmt.Errorf("hjson normalise: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("hjson decode: %w", err)
	}
	return nil
}
