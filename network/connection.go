// network/connection.go
package network

import (
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Connection is the capability the game engine needs from a transport: send a
// frame, know whether the peer is still there. The engine never sees a
// concrete websocket type.
type Connection interface {
	Send(data []byte) error
	ReadMessage() ([]byte, error)
	Close() error
	RemoteAddr() net.Addr
	IsOpen() bool
}

type WSConnection struct {
	conn      *websocket.Conn
	sendMutex sync.Mutex
	stateMux  sync.RWMutex
	closed    bool
}

func NewWSConnection(conn *websocket.Conn) *WSConnection {
	return &WSConnection{conn: conn}
}

// Send writes a single JSON text frame. Writes are serialized because
// gorilla/websocket allows at most one concurrent writer.
func (c *WSConnection) Send(data []byte) error {
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()

	if !c.IsOpen() {
		return websocket.ErrCloseSent
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *WSConnection) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		c.markClosed()
		return nil, err
	}
	return data, nil
}

func (c *WSConnection) SetReadDeadline(d time.Duration) {
	c.conn.SetReadDeadline(time.Now().Add(d))
}

func (c *WSConnection) Close() error {
	c.markClosed()
	return c.conn.Close()
}

func (c *WSConnection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *WSConnection) IsOpen() bool {
	c.stateMux.RLock()
	defer c.stateMux.RUnlock()
	return !c.closed
}

func (c *WSConnection) markClosed() {
	c.stateMux.Lock()
	defer c.stateMux.Unlock()
	c.closed = true
}
