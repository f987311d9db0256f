// Package codec encodes the session state as a versioned, opaque blob.
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/hololoop/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

type envelope struct {
	Version int                  `json:"version"`
	State   *domain.SessionState `json:"state"`
}

type rawEnvelope struct {
	Version int            `json:"version"`
	State   map[string]any `json:"state"`
}

// Encode serializes s into a versioned blob.
func Encode(s *domain.SessionState) ([]byte, error) {
	if s == nil {
		s = domain.NewSessionState()
	}
	data, err := json.Marshal(envelope{Version: domain.StateVersion, State: s})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}
	return data, nil
}

// Decode parses a blob produced by Encode.
// Fields absent from the blob keep the values of domain.NewSessionState, and scalar
// fields are decoded leniently ("true", 1 and true are all accepted for a flag).
// Any structural problem yields an error wrapping domain.ErrMalformedState.
func Decode(blob []byte) (*domain.SessionState, error) {
	if len(blob) == 0 {
		return nil, fmt.Errorf("%w: empty blob", domain.ErrMalformedState)
	}

	var raw rawEnvelope
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedState, err)
	}

	if raw.Version < 1 || raw.Version > domain.StateVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", domain.ErrMalformedState, raw.Version)
	}

	state := domain.NewSessionState()
	if raw.State == nil {
		return state, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           state,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build state decoder: %w", err)
	}
	if err := decoder.Decode(raw.State); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedState, err)
	}

	return state, nil
}
