package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherDeliversInOrder(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string
	d.Subscribe(EventUserLoggedIn, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.UserID)
		return nil
	})
	d.Subscribe(EventUserLoggedIn, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.UserID)
		return nil
	})
	d.Subscribe(EventUserDeleted, func(context.Context, Event) error {
		calls = append(calls, "wrong")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventUserLoggedIn, UserID: "u1"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"first:u1", "second:u1"}, calls)
}

func TestDispatcherJoinsErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")
	ran := false
	d.Subscribe(EventUserDeleted, func(context.Context, Event) error { return boom })
	d.Subscribe(EventUserDeleted, func(context.Context, Event) error { ran = true; return nil })

	err := d.Publish(context.Background(), Event{Type: EventUserDeleted})
	assert.ErrorIs(t, err, boom)
	assert.True(t, ran)
}

func TestDispatcherNoListeners(t *testing.T) {
	assert.NoError(t, NewInMemoryDispatcher().Publish(context.Background(), Event{Type: EventLoginFailed}))
}
