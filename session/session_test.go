package session

import (
	"net"
	"testing"
)

type fakeConn struct {
	sent   [][]byte
	closed bool
}

func (c *fakeConn) Send(data []byte) error      { c.sent = append(c.sent, data); return nil }
func (c *fakeConn) ReadMessage() ([]byte, error) { return nil, nil }
func (c *fakeConn) Close() error                { c.closed = true; return nil }
func (c *fakeConn) RemoteAddr() net.Addr        { return &net.TCPAddr{} }
func (c *fakeConn) IsOpen() bool                { return !c.closed }

func TestSession_BindAndBound(t *testing.T) {
	s := NewSession("sess_1", &fakeConn{})

	gameID, playerID := s.Bound()
	if gameID != "" || playerID != "" {
		t.Errorf("Fresh session should be unbound, got (%q, %q)", gameID, playerID)
	}

	s.Bind("ABC123", "p1")
	gameID, playerID = s.Bound()
	if gameID != "ABC123" || playerID != "p1" {
		t.Errorf("Expected (ABC123, p1), got (%q, %q)", gameID, playerID)
	}
}

func TestSession_SendTouchesLastActive(t *testing.T) {
	conn := &fakeConn{}
	s := NewSession("sess_1", conn)
	before := s.LastActive

	if err := s.Send([]byte("hello")); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(conn.sent) != 1 || string(conn.sent[0]) != "hello" {
		t.Errorf("Payload not delivered to the connection: %v", conn.sent)
	}
	if s.LastActive.Before(before) {
		t.Error("Send should refresh LastActive")
	}
}

func TestSession_CloseClosesConnection(t *testing.T) {
	conn := &fakeConn{}
	s := NewSession("sess_1", conn)

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !conn.closed {
		t.Error("Close should close the underlying connection")
	}
}

func TestManager_AddGetRemove(t *testing.T) {
	m := NewManager()

	s1 := NewSession("sess_1", &fakeConn{})
	s2 := NewSession("sess_2", &fakeConn{})
	m.Add(s1)
	m.Add(s2)

	if m.Count() != 2 {
		t.Errorf("Expected 2 sessions, got %d", m.Count())
	}

	got, exists := m.Get("sess_1")
	if !exists || got != s1 {
		t.Error("Get should return the added session")
	}
	if _, exists := m.Get("nosuch"); exists {
		t.Error("Get should miss on an unknown id")
	}

	m.Remove("sess_1")
	if _, exists := m.Get("sess_1"); exists {
		t.Error("Removed session should be gone")
	}
	m.Remove("sess_1") // removing twice is a no-op
	if m.Count() != 1 {
		t.Errorf("Expected 1 session left, got %d", m.Count())
	}
}
