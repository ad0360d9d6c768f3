package bus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent_StampsTimestamp(t *testing.T) {
	ev := NewEvent("combat.hit", "payload")
	assert.Equal(t, "combat.hit", ev.Type)
	assert.Equal(t, "payload", ev.Data)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestBus_PublishInOrder(t *testing.T) {
	b := New()
	var got []string

	b.Subscribe("combat.hit", func(e Event) error {
		got = append(got, e.Data.(string))
		return nil
	})

	require.NoError(t, b.PublishBatch(
		NewEvent("combat.hit", "first"),
		NewEvent("combat.hit", "second"),
		NewEvent("combat.hit", "third"),
	))
	assert.Equal(t, []string{"first", "second", "third"}, got)
}

func TestBus_TypeRouting(t *testing.T) {
	b := New()
	hits, all := 0, 0

	b.Subscribe("combat.hit", func(Event) error { hits++; return nil })
	b.Subscribe(TypeAll, func(Event) error { all++; return nil })

	require.NoError(t, b.Publish(NewEvent("combat.hit", nil)))
	require.NoError(t, b.Publish(NewEvent("crop.planted", nil)))

	assert.Equal(t, 1, hits)
	assert.Equal(t, 2, all)
}

func TestBus_CancelStopsDelivery(t *testing.T) {
	b := New()
	n := 0
	sub := b.Subscribe("tick", func(Event) error { n++; return nil })
	require.True(t, sub.IsActive())

	require.NoError(t, b.Publish(NewEvent("tick", nil)))
	require.NoError(t, sub.Cancel())
	require.NoError(t, sub.Cancel()) // repeat cancel is safe
	require.NoError(t, b.Publish(NewEvent("tick", nil)))

	assert.Equal(t, 1, n)
	assert.False(t, sub.IsActive())
	assert.Zero(t, b.SubscriberCount("tick"))
	assert.NoError(t, b.Unsubscribe(nil))
}

func TestBus_HandlerErrorsAreJoinedNotFatal(t *testing.T) {
	b := New()
	errBoom := errors.New("boom")
	delivered := 0

	b.Subscribe("tick", func(Event) error { return errBoom })
	b.Subscribe("tick", func(Event) error { delivered++; return nil })

	err := b.Publish(NewEvent("tick", nil))
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, delivered, "an erroring handler must not block later handlers")
}
