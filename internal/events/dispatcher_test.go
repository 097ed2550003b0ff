package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestInMemoryDispatcherRunsAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")

	var seen []string
	d.Subscribe(EventLoginSucceeded, func(_ context.Context, e Event) error {
		seen = append(seen, "first:"+e.SubjectID)
		return boom
	})
	d.Subscribe(EventLoginSucceeded, func(_ context.Context, e Event) error {
		seen = append(seen, "second:"+e.SubjectID)
		return nil
	})
	d.Subscribe(EventUserDeleted, func(context.Context, Event) error {
		t.Fatal("unrelated handler invoked")
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventLoginSucceeded, "u1", time.Now()))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first:u1", "second:u1"}, seen)
}

func TestNewEvent(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.FixedZone("x", 3600))
	a := NewEvent(EventPasswordChanged, "u1", at)
	b := NewEvent(EventPasswordChanged, "u1", at)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, time.UTC, a.Timestamp.Location())
	assert.True(t, at.Equal(a.Timestamp))
}

func TestRedisDispatcherPublishesJSON(t *testing.T) {
	_, client := newTestRedis(t)
	ctx := context.Background()

	sub := client.Subscribe(ctx, "auth.events")
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	d := NewRedisDispatcher(client, "auth.events", nil)
	assert.Equal(t, "auth.events", d.Channel())

	var local []Event
	d.Subscribe(EventTokenRefreshed, func(_ context.Context, e Event) error {
		local = append(local, e)
		return nil
	})

	event := NewEvent(EventTokenRefreshed, "u1", time.Now())
	require.NoError(t, d.Publish(ctx, event))
	require.Len(t, local, 1)

	select {
	case msg := <-sub.Channel():
		var got Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, event.ID, got.ID)
		assert.Equal(t, EventTokenRefreshed, got.Type)
		assert.Equal(t, "u1", got.SubjectID)
	case <-time.After(2 * time.Second):
		t.Fatal("no message received from redis")
	}
}

func TestRedisDispatcherDeliversLocallyWhenRedisDown(t *testing.T) {
	mr, client := newTestRedis(t)
	mr.Close()

	d := NewRedisDispatcher(client, "auth.events", nil)
	delivered := false
	d.Subscribe(EventUserCreated, func(context.Context, Event) error {
		delivered = true
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventUserCreated, "u1", time.Now()))
	assert.Error(t, err)
	assert.True(t, delivered)
}

func TestInMemoryDispatcherContainsPanics(t *testing.T) {
	d := NewInMemoryDispatcher()

	var count int
	SubscribeAll(d, func(context.Context, Event) error {
		panic("audit sink exploded")
	})
	SubscribeAll(d, func(context.Context, Event) error {
		count++
		return nil
	})

	for _, eventType := range AllEventTypes {
		err := d.Publish(context.Background(), NewEvent(eventType, "u1", time.Now()))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "panicked")
	}
	assert.Equal(t, len(AllEventTypes), count)
}
