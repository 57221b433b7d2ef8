package realtime

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesSubscribers(t *testing.T) {
	hub := NewHub(4)
	a, stopA := hub.Subscribe()
	b, stopB := hub.Subscribe()
	defer stopA()
	defer stopB()

	hub.Publish(Event{Entity: "project", Action: ActionCreate, ID: "p1"})

	for _, ch := range []<-chan Event{a, b} {
		select {
		case e := <-ch:
			assert.Equal(t, "project", e.Entity)
			assert.Equal(t, ActionCreate, e.Action)
			assert.False(t, e.At.IsZero())
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub(1)
	ch, stop := hub.Subscribe()
	defer stop()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			hub.Publish(Event{Entity: "allocation", Action: ActionUpdate})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
	assert.Len(t, ch, 1)
}

func TestHub_UnsubscribeAndClose(t *testing.T) {
	hub := NewHub(1)
	ch, stop := hub.Subscribe()
	require.Equal(t, 1, hub.Subscribers())

	stop()
	stop()
	assert.Equal(t, 0, hub.Subscribers())
	_, open := <-ch
	assert.False(t, open)

	other, _ := hub.Subscribe()
	hub.Close()
	_, open = <-other
	assert.False(t, open)

	late, _ := hub.Subscribe()
	_, open = <-late
	assert.False(t, open)
}

func TestRequireUpgrade_RejectsPlainHTTP(t *testing.T) {
	app := fiber.New()
	app.Get("/api/ws/changes", RequireUpgrade(), NewHub(1).Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/ws/changes", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
