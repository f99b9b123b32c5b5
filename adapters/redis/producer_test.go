package redis

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestNewProducer(t *testing.T) {
	tests := []struct {
		name    string
		client  *redis.Client
		stream  string
		opts    []ProducerOption[TestMessage]
		wantErr string
	}{
		{
			name:   "valid configuration",
			client: redis.NewClient(&redis.Options{}),
			stream: "auction-events",
		},
		{
			name:    "nil client",
			stream:  "auction-events",
			wantErr: "redis client cannot be nil",
		},
		{
			name:    "empty stream",
			client:  redis.NewClient(&redis.Options{}),
			wantErr: "stream cannot be empty",
		},
		{
			name:   "with custom options",
			client: redis.NewClient(&redis.Options{}),
			stream: "auction-events",
			opts: []ProducerOption[TestMessage]{
				WithProducerLogger[TestMessage](discardLogger),
				WithProducerBufferSize[TestMessage](200),
				WithProducerMaxLen[TestMessage](1000),
				withProducerParseFunc[TestMessage](func(TestMessage) (map[string]any, error) {
					return map[string]any{"test": "value"}, nil
				}),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer goleak.VerifyNone(t)

			producer, err := NewProducer[TestMessage](tt.client, tt.stream, tt.opts...)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				assert.Nil(t, producer)
			} else {
				require.NoError(t, err)
				producer.Close()
			}
			if tt.client != nil {
				tt.client.Close()
			}
		})
	}
}

func TestProducer_StartClose(t *testing.T) {
	defer goleak.VerifyNone(t)
	client, _, cleanup := setupTest(t)
	defer cleanup()

	producer, err := NewProducer[TestMessage](client, "auction-events", WithProducerLogger[TestMessage](discardLogger))
	require.NoError(t, err)

	producer.Start()
	producer.Start()
	producer.Close()
	producer.Close()

	// 關閉後可以再次啟動
	producer.Start()
	producer.Close()
}

func TestProducer_Publish(t *testing.T) {
	msg := TestMessage{ID: "1", Data: "created"}

	t.Run("publishes to stream", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		client, mock, cleanup := setupTest(t)
		defer cleanup()

		values, err := EncodeMessage(msg)
		require.NoError(t, err)
		mock.ExpectXAdd(&redis.XAddArgs{Stream: "auction-events", Values: values}).SetVal("1-0")

		producer, err := NewProducer[TestMessage](client, "auction-events", WithProducerLogger[TestMessage](discardLogger))
		require.NoError(t, err)
		producer.Start()
		assert.NoError(t, producer.Publish(msg))
		assert.Eventually(t, func() bool { return mock.ExpectationsWereMet() == nil }, time.Second, 10*time.Millisecond)
		producer.Close()
	})

	t.Run("trims stream when max length is set", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		client, mock, cleanup := setupTest(t)
		defer cleanup()

		values, err := EncodeMessage(msg)
		require.NoError(t, err)
		mock.ExpectXAdd(&redis.XAddArgs{Stream: "auction-events", Values: values, MaxLen: 500, Approx: true}).SetVal("1-0")

		producer, err := NewProducer[TestMessage](client, "auction-events",
			WithProducerLogger[TestMessage](discardLogger),
			WithProducerMaxLen[TestMessage](500),
		)
		require.NoError(t, err)
		producer.Start()
		assert.NoError(t, producer.Publish(msg))
		assert.Eventually(t, func() bool { return mock.ExpectationsWereMet() == nil }, time.Second, 10*time.Millisecond)
		producer.Close()
	})

	t.Run("redis error is logged, not returned", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		client, mock, cleanup := setupTest(t)
		defer cleanup()

		values, err := EncodeMessage(msg)
		require.NoError(t, err)
		mock.ExpectXAdd(&redis.XAddArgs{Stream: "auction-events", Values: values}).SetErr(redis.ErrClosed)

		producer, err := NewProducer[TestMessage](client, "auction-events", WithProducerLogger[TestMessage](discardLogger))
		require.NoError(t, err)
		producer.Start()
		assert.NoError(t, producer.Publish(msg))
		assert.Eventually(t, func() bool { return mock.ExpectationsWereMet() == nil }, time.Second, 10*time.Millisecond)
		producer.Close()
	})

	t.Run("closed producer", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		client, _, cleanup := setupTest(t)
		defer cleanup()

		producer, err := NewProducer[TestMessage](client, "auction-events", WithProducerLogger[TestMessage](discardLogger))
		require.NoError(t, err)
		assert.ErrorIs(t, producer.Publish(msg), ErrProducerClosed)

		producer.Start()
		producer.Close()
		assert.ErrorIs(t, producer.Publish(msg), ErrProducerClosed)
	})

	t.Run("parse error", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		client, _, cleanup := setupTest(t)
		defer cleanup()

		producer, err := NewProducer[TestMessage](client, "auction-events",
			WithProducerLogger[TestMessage](discardLogger),
			withProducerParseFunc[TestMessage](func(TestMessage) (map[string]any, error) {
				return nil, fmt.Errorf("parse error")
			}),
		)
		require.NoError(t, err)
		producer.Start()
		assert.ErrorContains(t, producer.Publish(msg), "parse error")
		producer.Close()
	})
}
