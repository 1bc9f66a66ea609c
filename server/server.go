package server

import (
	"net/http"
	"net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wfunc/ludo/broadcast"
	"github.com/wfunc/ludo/config"
	"github.com/wfunc/ludo/game"
	"github.com/wfunc/ludo/logger"
	"github.com/wfunc/ludo/monitor"
	"github.com/wfunc/ludo/network"
	"github.com/wfunc/ludo/persistence"
	ludo_rpc "github.com/wfunc/ludo/rpc"
	"github.com/wfunc/ludo/services"
	"github.com/wfunc/ludo/session"
	"github.com/wfunc/ludo/timer"
)

type GameServer struct {
	addr           string
	metricsAddr    string
	upgrader       websocket.Upgrader
	gameManager    *game.Manager
	sessionManager *session.Manager
	matchService   *services.MatchService
	monitor        *monitor.Monitor
	rpcServer      *ludo_rpc.Server
	shutdownChan   chan struct{}
}

func NewGameServer(cfg *config.Config, store persistence.Store) *GameServer {
	timers := timer.NewManager()

	s := &GameServer{
		addr:           cfg.Server.HTTPAddress,
		metricsAddr:    cfg.Server.MetricsAddress,
		gameManager:    game.NewManager(timers, cfg.Game.TurnTimeout),
		sessionManager: session.NewManager(),
		matchService:   services.NewMatchService(store),
		monitor:        monitor.NewMonitor("ludo"),
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // allow all origins, the frontend runs elsewhere
			},
		},
	}

	// Wire the outbound side into the game registry.
	s.gameManager.SetBroadcaster(broadcast.NewGameBroadcaster(s.gameManager))
	s.gameManager.SetRecorder(s.matchService)

	rpcServer, err := ludo_rpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer
	rpc.Register(ludo_rpc.NewStatsService(s.matchService))

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()
	s.monitor.StartServer(s.metricsAddr)

	http.HandleFunc("/ws", s.handleWebSocket)
	http.HandleFunc("/create-game", s.handleCreateGame)
	http.HandleFunc("/game", s.handleGetGame)

	logger.Log.Infof("Game server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.rpcServer.Stop()
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	s.monitor.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.monitor.DecOnlinePlayers()
		s.sessionManager.Remove(sess.GetID())
		s.handleDisconnect(sess)
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			data, err := wsConn.ReadMessage()
			if err != nil {
				return
			}

			start := time.Now()
			s.monitor.IncMessagesReceived()
			s.handleMessage(sess, data)
			s.monitor.ObserveMessageLatency(time.Since(start))
		}
	}
}

// handleDisconnect removes the participant from whatever game held its
// connection. The registry scan only happens here.
func (s *GameServer) handleDisconnect(sess *session.Session) {
	g, playerID, ok := s.gameManager.FindBySession(sess.GetID())
	if !ok {
		return
	}

	logger.Log.Infof("Participant %s left game %s on disconnect", playerID, g.ID)
	g.Leave(playerID)
	s.monitor.SetActiveGames(s.gameManager.Count())
}
