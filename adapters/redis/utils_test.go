package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventLike struct {
	Kind string
	At   time.Time
	Tags []string
}

func TestEncodeDecodeMessage(t *testing.T) {
	input := eventLike{
		Kind: "created",
		At:   time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		Tags: []string{"a", "b"},
	}
	entry, err := EncodeMessage(input)
	require.NoError(t, err)
	require.Contains(t, entry, messageField)
	assert.IsType(t, "", entry[messageField])

	got, err := decodeMessage[eventLike](entry)
	require.NoError(t, err)
	assert.Equal(t, input.Kind, got.Kind)
	assert.Equal(t, input.Tags, got.Tags)
	assert.True(t, input.At.Equal(got.At))
}

func TestEncodeMessage_Pointer(t *testing.T) {
	_, err := EncodeMessage(&eventLike{})
	assert.ErrorIs(t, err, ErrPointerType)
}

func TestDecodeMessageErrors(t *testing.T) {
	tests := []struct {
		name  string
		entry map[string]any
		want  error
	}{
		{name: "empty entry", entry: map[string]any{}, want: errInvalidEntry},
		{name: "wrong type", entry: map[string]any{messageField: 42}, want: errInvalidEntry},
		{name: "bad base64", entry: map[string]any{messageField: "%%%"}},
		{name: "bad msgpack", entry: map[string]any{messageField: "/w=="}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeMessage[eventLike](tt.entry)
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}

	_, err := decodeMessage[*eventLike](map[string]any{})
	assert.ErrorIs(t, err, ErrPointerType)
}
