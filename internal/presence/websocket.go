package presence

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// WebSocketPublisher sends presence as JSON frames over a websocket,
// redialing after any failure.
type WebSocketPublisher struct {
	url   string
	token string

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewWebSocketPublisher(url, token string) *WebSocketPublisher {
	return &WebSocketPublisher{url: url, token: token}
}

type presenceMessage struct {
	Type string   `json:"type"`
	Data Presence `json:"data"`
}

func (w *WebSocketPublisher) Publish(ctx context.Context, p Presence) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn == nil {
		header := http.Header{}
		if w.token != "" {
			header.Set("Authorization", "Bearer "+w.token)
		}
		conn, _, err := websocket.Dial(ctx, w.url, &websocket.DialOptions{HTTPHeader: header})
		if err != nil {
			return fmt.Errorf("dial presence socket: %w", err)
		}
		w.conn = conn
	}

	if err := wsjson.Write(ctx, w.conn, presenceMessage{Type: "presence", Data: p}); err != nil {
		_ = w.conn.Close(websocket.StatusInternalError, "write failed")
		w.conn = nil
		return fmt.Errorf("write presence: %w", err)
	}
	return nil
}

func (w *WebSocketPublisher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn == nil {
		return nil
	}
	err := w.conn.Close(websocket.StatusNormalClosure, "")
	w.conn = nil
	return err
}
