package ws

import (
	"context"
	"encoding/json"

	websocketdto "bus-tracking/internal/trip-service/core/domain/websocket_dto"

	"github.com/gorilla/websocket"
)

type Client struct {
	ctx    context.Context
	conn   *websocket.Conn
	dis    *Dispatcher
	egress chan websocketdto.Event
	tripID string
}

func NewClient(ctx context.Context, conn *websocket.Conn, dis *Dispatcher, tripID string) *Client {
	return &Client{
		ctx:    ctx,
		conn:   conn,
		dis:    dis,
		egress: make(chan websocketdto.Event, 8),
		tripID: tripID,
	}
}

// ReadMessages drains the connection so close frames are processed. The
// tracking stream is one-way: inbound payloads are ignored.
func (c *Client) ReadMessages() {
	defer c.dis.removeClient(c)

	c.conn.SetReadLimit(1024)

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WriteMessages() {
	defer c.dis.removeClient(c)

	for {
		select {
		case <-c.ctx.Done():
			return
		case event, ok := <-c.egress:
			if !ok {
				return
			}

			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}
