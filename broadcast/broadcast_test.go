package broadcast

import (
	"net"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wfunc/ludo/game"
	"github.com/wfunc/ludo/logger"
	"github.com/wfunc/ludo/network"
	"github.com/wfunc/ludo/session"
	"github.com/wfunc/ludo/timer"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type recordingConn struct {
	mutex  sync.Mutex
	sent   []string
	closed bool
}

func (c *recordingConn) Send(data []byte) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.sent = append(c.sent, string(data))
	return nil
}

func (c *recordingConn) ReadMessage() ([]byte, error) { return nil, nil }
func (c *recordingConn) Close() error                { c.closed = true; return nil }
func (c *recordingConn) RemoteAddr() net.Addr        { return &net.TCPAddr{} }

func (c *recordingConn) IsOpen() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return !c.closed
}

func (c *recordingConn) received(msgType string) int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	n := 0
	for _, payload := range c.sent {
		if strings.Contains(payload, msgType) {
			n++
		}
	}
	return n
}

func setup(t *testing.T) (*game.Manager, *GameBroadcaster, *game.Game, *recordingConn, *recordingConn) {
	t.Helper()
	m := game.NewManager(timer.NewManager(), time.Hour)
	b := NewGameBroadcaster(m)
	m.SetBroadcaster(b)

	g := m.CreateGame()
	c1, c2 := &recordingConn{}, &recordingConn{}
	if _, err := g.Join("p1", session.NewSession("sess_1", c1)); err != nil {
		t.Fatalf("Join p1 failed: %v", err)
	}
	if _, err := g.Join("p2", session.NewSession("sess_2", c2)); err != nil {
		t.Fatalf("Join p2 failed: %v", err)
	}
	return m, b, g, c1, c2
}

func TestPublishState_FansOutToEveryConnection(t *testing.T) {
	_, b, g, c1, c2 := setup(t)

	if err := b.PublishState(g.ID, g.View()); err != nil {
		t.Fatalf("PublishState failed: %v", err)
	}

	// Each join already broadcast a state snapshot; the explicit publish adds
	// one more for both connections.
	if c1.received(network.MsgTypeGameState) < 2 {
		t.Errorf("p1 connection saw %d GAME_STATE messages, want at least 2", c1.received(network.MsgTypeGameState))
	}
	if c2.received(network.MsgTypeGameState) < 2 {
		t.Errorf("p2 connection saw %d GAME_STATE messages, want at least 2", c2.received(network.MsgTypeGameState))
	}
}

func TestBroadcast_SkipsClosedConnections(t *testing.T) {
	_, b, g, c1, c2 := setup(t)

	c2.Close()
	before := c2.received(network.MsgTypeWinner)
	if err := b.Broadcast(g.ID, []byte(`{"type":"WINNER"}`)); err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}

	if c1.received(network.MsgTypeWinner) != 1 {
		t.Errorf("Open connection should receive the payload, got %d", c1.received(network.MsgTypeWinner))
	}
	if c2.received(network.MsgTypeWinner) != before {
		t.Error("Closed connection should be skipped")
	}
}

func TestBroadcast_UnknownGame(t *testing.T) {
	m := game.NewManager(timer.NewManager(), time.Hour)
	b := NewGameBroadcaster(m)

	if err := b.Broadcast("nosuch", []byte("{}")); err != game.ErrGameNotFound {
		t.Errorf("Expected ErrGameNotFound, got %v", err)
	}
	if err := b.SendToPlayer("nosuch", "p1", []byte("{}")); err != game.ErrGameNotFound {
		t.Errorf("Expected ErrGameNotFound, got %v", err)
	}
}

func TestSendToPlayer_TargetsOneConnection(t *testing.T) {
	_, b, g, c1, c2 := setup(t)

	if err := b.SendToPlayer(g.ID, "p2", []byte(`{"type":"KNOCKOUT"}`)); err != nil {
		t.Fatalf("SendToPlayer failed: %v", err)
	}

	if c2.received(network.MsgTypeKnockout) != 1 {
		t.Errorf("Target connection saw %d KNOCKOUT messages, want 1", c2.received(network.MsgTypeKnockout))
	}
	if c1.received(network.MsgTypeKnockout) != 0 {
		t.Error("Other connections must not receive a direct payload")
	}

	// Unknown participant is quietly ignored.
	if err := b.SendToPlayer(g.ID, "ghost", []byte("{}")); err != nil {
		t.Errorf("Send to unknown participant should not error, got %v", err)
	}
}
