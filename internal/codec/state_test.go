package codec

import (
	"testing"

	"github.com/aretw0/hololoop/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	state := &domain.SessionState{
		RepositionPending: true,
		Placement: domain.Placement{
			Position: domain.Vec3{X: 0.5, Y: 1.25, Z: -1.5},
			Placed:   true,
		},
		Repositions: 3,
	}

	blob, err := Encode(state)
	require.NoError(t, err)
	assert.Contains(t, string(blob), `"version":1`)

	decoded, err := Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, state, decoded)
}

func TestEncode_NilUsesDefaults(t *testing.T) {
	blob, err := Encode(nil)
	require.NoError(t, err)

	decoded, err := Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, domain.NewSessionState(), decoded)
}

func TestDecode_MissingFieldsKeepDefaults(t *testing.T) {
	tests := []struct {
		name string
		blob string
		want func(*domain.SessionState)
	}{
		{
			name: "empty state object",
			blob: `{"version":1,"state":{}}`,
			want: func(*domain.SessionState) {},
		},
		{
			name: "no state key",
			blob: `{"version":1}`,
			want: func(*domain.SessionState) {},
		},
		{
			name: "partial placement",
			blob: `{"version":1,"state":{"placement":{"placed":true}}}`,
			want: func(s *domain.SessionState) { s.Placement.Placed = true },
		},
		{
			name: "weakly typed flag",
			blob: `{"version":1,"state":{"reposition_pending":"true","repositions":"2"}}`,
			want: func(s *domain.SessionState) {
				s.RepositionPending = true
				s.Repositions = 2
			},
		},
		{
			name: "unknown fields ignored",
			blob: `{"version":1,"state":{"future_field":42,"reposition_pending":true}}`,
			want: func(s *domain.SessionState) { s.RepositionPending = true },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expected := domain.NewSessionState()
			tt.want(expected)

			got, err := Decode([]byte(tt.blob))
			require.NoError(t, err)
			assert.Equal(t, expected, got)
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	blobs := map[string]string{
		"empty":          ``,
		"not json":       `\x00\x01garbage`,
		"truncated":      `{"version":1,"state":{"reposition_pending":tr`,
		"no version":     `{"state":{"reposition_pending":true}}`,
		"future version": `{"version":99,"state":{}}`,
		"state is array": `{"version":1,"state":[1,2,3]}`,
		"bad placement":  `{"version":1,"state":{"placement":"over there"}}`,
	}

	for name, blob := range blobs {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(blob))
			assert.ErrorIs(t, err, domain.ErrMalformedState)
		})
	}
}
