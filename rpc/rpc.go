package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/ludo/logger"
	"github.com/wfunc/ludo/services"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if the error is due to the listener being closed.
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// StatsService exposes match-history queries over net/rpc for admin tooling.
type StatsService struct {
	matchService *services.MatchService
}

func NewStatsService(ms *services.MatchService) *StatsService {
	return &StatsService{matchService: ms}
}

type PlayerSummaryArgs struct {
	PlayerID string
}

type PlayerSummaryReply struct {
	Data map[string]interface{}
}

// GetPlayerSummary follows the net/rpc method shape: exported method,
// exported argument types, pointer reply, error return.
func (ss *StatsService) GetPlayerSummary(args *PlayerSummaryArgs, reply *PlayerSummaryReply) error {
	data, err := ss.matchService.GetPlayerSummary(args.PlayerID)
	if err != nil {
		return err
	}
	reply.Data = data
	return nil
}

type MatchArgs struct {
	GameID string
}

type MatchReply struct {
	Winner   string
	Duration int
}

// GetMatch returns the settled result of one finished game.
func (ss *StatsService) GetMatch(args *MatchArgs, reply *MatchReply) error {
	record, err := ss.matchService.GetMatch(args.GameID)
	if err != nil {
		return err
	}
	reply.Winner = record.Winner
	reply.Duration = record.Duration
	return nil
}
