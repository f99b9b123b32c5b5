package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestStore_Load(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(mock redismock.ClientMock)
		expected map[string]string
		wantErr  bool
	}{
		{
			name: "existing session",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectHGetAll("gavel:session:s1").SetVal(map[string]string{
					"user_id": "0b6c8f0e-3f2a-4c55-9d1e-0d9b0c1f2a3b",
					"flash":   "Auction created successfully.",
				})
			},
			expected: map[string]string{
				"user_id": "0b6c8f0e-3f2a-4c55-9d1e-0d9b0c1f2a3b",
				"flash":   "Auction created successfully.",
			},
		},
		{
			name: "missing session",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectHGetAll("gavel:session:s1").SetVal(map[string]string{})
			},
			expected: map[string]string{},
		},
		{
			name: "redis error",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectHGetAll("gavel:session:s1").SetErr(errors.New("redis connection error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mock, cleanup := setupTest(t)
			defer cleanup()
			tt.setup(mock)

			store := NewStore(client, WithStorePrefix("gavel:session:"))
			got, err := store.Load(context.Background(), "s1")

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestStore_Save(t *testing.T) {
	tests := []struct {
		name    string
		ttl     time.Duration
		data    map[string]string
		setup   func(mock redismock.ClientMock)
		wantErr bool
	}{
		{
			name: "with ttl",
			ttl:  24 * time.Hour,
			data: map[string]string{"user_id": "u1"},
			setup: func(mock redismock.ClientMock) {
				mock.ExpectEvalSha(
					saveScript.Hash(),
					[]string{"gavel:session:s1"},
					[]interface{}{int64(86400), "user_id", "u1"},
				).SetVal(int64(1))
			},
		},
		{
			name: "without ttl",
			data: map[string]string{"user_id": "u1"},
			setup: func(mock redismock.ClientMock) {
				mock.ExpectEvalSha(
					saveScript.Hash(),
					[]string{"gavel:session:s1"},
					[]interface{}{int64(0), "user_id", "u1"},
				).SetVal(int64(1))
			},
		},
		{
			name: "empty data clears the session",
			ttl:  time.Hour,
			data: map[string]string{},
			setup: func(mock redismock.ClientMock) {
				mock.ExpectEvalSha(
					saveScript.Hash(),
					[]string{"gavel:session:s1"},
					[]interface{}{int64(3600)},
				).SetVal(int64(1))
			},
		},
		{
			name: "redis error",
			data: map[string]string{"user_id": "u1"},
			setup: func(mock redismock.ClientMock) {
				mock.ExpectEvalSha(
					saveScript.Hash(),
					[]string{"gavel:session:s1"},
					[]interface{}{int64(0), "user_id", "u1"},
				).SetErr(redis.ErrClosed)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mock, cleanup := setupTest(t)
			defer cleanup()
			tt.setup(mock)

			store := NewStore(client, WithStorePrefix("gavel:session:"), WithStoreTTL(tt.ttl))
			err := store.Save(context.Background(), "s1", tt.data)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
