package realtime

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

// RequireUpgrade rejects plain HTTP requests to a websocket route.
func RequireUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{
			"error": "Websocket upgrade required",
		})
	}
}

// Handler streams hub events to the connected client as JSON until either side closes.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(h.serve)
}

func (h *Hub) serve(c *websocket.Conn) {
	defer c.Close()

	events, unsubscribe := h.Subscribe()
	defer unsubscribe()

	// Clients only listen; reading detects when they hang up.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := c.WriteJSON(e); err != nil {
				logrus.WithError(err).Debug("Change feed client write failed")
				return
			}
		}
	}
}
