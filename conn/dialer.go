package conn

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Socket is the subset of a websocket connection the Manager drives. The
// gorilla *websocket.Conn satisfies it; tests substitute scripted sockets.
type Socket interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Dialer establishes sockets. The returned *http.Response carries the
// handshake response when the upgrade was refused; it is how authentication
// rejections are told apart from transient faults.
type Dialer interface {
	Dial(ctx context.Context, url string) (Socket, *http.Response, error)
}

// WebsocketDialer is the production Dialer, backed by gorilla/websocket.
type WebsocketDialer struct {
	HandshakeTimeout time.Duration
}

// Dial performs the GET-upgrade handshake.
func (d *WebsocketDialer) Dial(ctx context.Context, url string) (Socket, *http.Response, error) {
	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: d.HandshakeTimeout,
	}

	sock, resp, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, resp, err
	}
	return sock, resp, nil
}
