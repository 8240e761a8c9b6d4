package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamRelay_OneEntryPerPhone(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	relay := NewStreamRelay(client, "sms:fallback")
	relay.now = func() time.Time { return dispatchTime }

	err := relay.Relay(context.Background(), FallbackAlert{
		SenderEmail: "ravi@example.com",
		Phones:      []string{"9000000098", "9000000099"},
		Message:     "EMERGENCY: Ravi needs help!",
	})
	require.NoError(t, err)

	entries, err := client.XRange(context.Background(), "sms:fallback", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "9000000098", entries[0].Values["phone"])
	assert.Equal(t, "9000000099", entries[1].Values["phone"])
	assert.Equal(t, "ravi@example.com", entries[1].Values["sender"])
	assert.Equal(t, "EMERGENCY: Ravi needs help!", entries[1].Values["message"])
}

func TestStreamRelay_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	err := NewStreamRelay(client, "sms:fallback").Relay(context.Background(), FallbackAlert{Phones: []string{"9000000099"}})
	assert.Error(t, err)
}
