package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// clientConn serialises writes on one gorilla connection; gorilla allows a
// single concurrent writer only.
type clientConn struct {
	id      string
	rawConn *websocket.Conn
	mu      sync.Mutex

	closeOnce sync.Once
	done      chan struct{}
}

func newClientConn(rawConn *websocket.Conn) *clientConn {
	return &clientConn{
		id:      uuid.NewString(),
		rawConn: rawConn,
		done:    make(chan struct{}),
	}
}

func (c *clientConn) ID() string { return c.id }

// Send writes one text frame.
func (c *clientConn) Send(data []byte) error {
	return c.write(websocket.TextMessage, data)
}

func (c *clientConn) write(mt int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.rawConn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.rawConn.WriteMessage(mt, data) // Text/Binary only
}

func (c *clientConn) ping() error {
	return c.rawConn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Close is idempotent; it unblocks the reader loop and stops the pinger.
func (c *clientConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.rawConn.Close()
	})
	return err
}
