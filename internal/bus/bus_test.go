package bus

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish_DeliversInSubscriptionOrder(t *testing.T) {
	b := New()
	var order []string
	b.Subscribe("post_published", func(Payload) { order = append(order, "first") })
	b.Subscribe("post_published", func(Payload) { order = append(order, "second") })
	b.Subscribe("post_published", func(Payload) { order = append(order, "third") })

	b.Publish("post_published", Payload{"postId": "p1"})

	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestPublish_NoSubscribersIsNoOp(t *testing.T) {
	b := New()
	assert.NotPanics(t, func() {
		b.Publish("meta:like", Payload{"mediaId": "m1"})
	})
}

func TestPublish_OnlyMatchingEventType(t *testing.T) {
	b := New()
	var got int
	b.Subscribe("new_comment", func(Payload) { got++ })

	b.Publish("new_like", Payload{})
	assert.Equal(t, 0, got)

	b.Publish("new_comment", Payload{})
	assert.Equal(t, 1, got)
}

func TestUnsubscribe_RemovesOnlyOwnHandler(t *testing.T) {
	b := New()
	var first, second int
	sub := b.Subscribe("new_like", func(Payload) { first++ })
	b.Subscribe("new_like", func(Payload) { second++ })

	sub.Unsubscribe()
	b.Publish("new_like", Payload{})

	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
	assert.Equal(t, 1, b.SubscriberCount("new_like"))
}

func TestUnsubscribe_Idempotent(t *testing.T) {
	b := New()
	sub := b.Subscribe("new_like", func(Payload) {})

	sub.Unsubscribe()
	assert.NotPanics(t, sub.Unsubscribe)
	assert.Equal(t, 0, b.SubscriberCount("new_like"))
}

func TestUnsubscribeAll_ClearsEventType(t *testing.T) {
	b := New()
	var calls int
	b.Subscribe("new_comment", func(Payload) { calls++ })
	b.Subscribe("new_comment", func(Payload) { calls++ })
	b.Subscribe("new_like", func(Payload) { calls++ })

	b.UnsubscribeAll("new_comment")
	b.Publish("new_comment", Payload{})
	b.Publish("new_like", Payload{})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, b.SubscriberCount("new_comment"))
	assert.Equal(t, 1, b.SubscriberCount("new_like"))
}

func TestPublish_HandlerMaySubscribeDuringDelivery(t *testing.T) {
	b := New()
	var late int
	b.Subscribe("post_published", func(Payload) {
		b.Subscribe("post_published", func(Payload) { late++ })
	})

	b.Publish("post_published", Payload{})
	assert.Equal(t, 0, late, "late subscriber sees the next publish, not this one")

	b.Publish("post_published", Payload{})
	assert.Equal(t, 1, late)
}

func TestPublish_HandlerMayUnsubscribeSelf(t *testing.T) {
	b := New()
	var calls int
	var sub *Subscription
	sub = b.Subscribe("post_published", func(Payload) {
		calls++
		sub.Unsubscribe()
	})

	b.Publish("post_published", Payload{})
	b.Publish("post_published", Payload{})

	assert.Equal(t, 1, calls)
}

func TestPublish_ConcurrentPublishers(t *testing.T) {
	b := New()
	var mu sync.Mutex
	var calls int
	b.Subscribe("new_like", func(Payload) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Publish("new_like", Payload{})
		}()
	}
	wg.Wait()

	assert.Equal(t, 16, calls)
}

func TestSubscription_EventType(t *testing.T) {
	b := New()
	sub := b.Subscribe("meta:comment", func(Payload) {})
	assert.Equal(t, "meta:comment", sub.EventType())
}

func TestPayload_Number(t *testing.T) {
	p := Payload{
		"f64": float64(3.5),
		"f32": float32(2),
		"i":   7,
		"i64": int64(9),
		"u64": uint64(11),
		"s":   "not a number",
	}

	testCases := []struct {
		key  string
		want float64
		ok   bool
	}{
		{"f64", 3.5, true},
		{"f32", 2, true},
		{"i", 7, true},
		{"i64", 9, true},
		{"u64", 11, true},
		{"s", 0, false},
		{"absent", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.key, func(t *testing.T) {
			got, ok := p.Number(tc.key)
			require.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPayload_String(t *testing.T) {
	p := Payload{"platform": "instagram", "count": 3}
	assert.Equal(t, "instagram", p.String("platform"))
	assert.Equal(t, "", p.String("count"))
	assert.Equal(t, "", p.String("absent"))
}
