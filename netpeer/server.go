package netpeer

import (
	"fmt"
	"log"
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/embertrack/ember"
)

// SessionOptions configures where a Server listens or a Client connects,
// matching original_source/src/gui/net/session_options.h's
// NetSessionOptions (connect.address defaulting to 127.0.0.1, host.port
// defaulting to 7826).
type SessionOptions struct {
	ConnectAddress string
	HostPort       int
}

// DefaultSessionOptions mirrors the original's defaults.
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{ConnectAddress: "127.0.0.1:7826", HostPort: 7826}
}

// serverClient is one connected client's state from the server's point of
// view: its Peer and its generated ID. Edits from every client go onto the
// Server's single shared UndoStack.
type serverClient struct {
	id   uuid.UUID
	peer *Peer
}

// Server accepts connections, replicates a shared Song, and exec's incoming
// Commands against it, broadcasting each successful edit to every other
// connected client. Grounded on original_source/src/gui/net/server.h's
// NetServer (connectedClients set, currentClient exclusion state,
// lastRequestId) and shared.cpp's handleRequest dispatch.
type Server struct {
	Song  *ember.Song
	Undo  *ember.UndoStack

	mu      sync.Mutex
	clients map[uuid.UUID]*serverClient

	ln net.Listener
}

// NewServer wraps song and undo for replication. song and undo are mutated
// directly by incoming commands; the caller's own local edits should go
// through the same pair so local and remote edits interleave correctly.
func NewServer(song *ember.Song, undo *ember.UndoStack) *Server {
	return &Server{
		Song:    song,
		Undo:    undo,
		clients: make(map[uuid.UUID]*serverClient),
	}
}

// ListenAndServe listens on opts.HostPort (0 picks an OS-assigned port,
// retrievable via Addr once this call has started) and serves connections
// until ln is closed or accept fails.
func (s *Server) ListenAndServe(opts SessionOptions) error {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", opts.HostPort))
	if err != nil {
		return fmt.Errorf("netpeer: Server.ListenAndServe: %w", err)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go s.handleConn(conn)
	}
}

// Addr returns the server's listen address, valid once ListenAndServe has
// started listening.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		return nil
	}
	return ln.Close()
}

func (s *Server) handleConn(conn net.Conn) {
	id := uuid.New()
	peer := NewPeer(conn)

	peer.Handle(MethodGetFile, s.handleGetFile)
	peer.Handle(MethodDoAction, s.makeHandleDoAction(id))

	s.mu.Lock()
	s.clients[id] = &serverClient{id: id, peer: peer}
	s.mu.Unlock()

	stop := make(chan struct{})
	defer func() {
		close(stop)
		s.mu.Lock()
		delete(s.clients, id)
		s.mu.Unlock()
		peer.Close()
	}()

	go peer.Queue.Run(stop)

	if err := peer.Serve(); err != nil {
		log.Printf("netpeer: Server: client %s disconnected: %v", id, err)
	}
}

func (s *Server) handleGetFile(args []byte) ([]byte, StatusCode) {
	return encodeArgs(s.Song.Copy()), StatusOK
}

// makeHandleDoAction returns the execCommand handler for one specific client,
// closing over its id so successful edits are broadcast to every other
// connected client, matching the original's currentClient exclusion: the
// client whose own action this was does not receive an echo of it.
func (s *Server) makeHandleDoAction(origin uuid.UUID) Handler {
	return func(args []byte) ([]byte, StatusCode) {
		var env ember.Envelope
		if err := decodeArgs(args, &env); err != nil {
			return nil, StatusMethodWrongArgs
		}
		cmd, ok := ember.DeserializeCommand(env)
		if !ok {
			return nil, StatusMethodWrongArgs
		}

		s.mu.Lock()
		modified := cmd.Exec(s.Song, ember.OriginRemote)
		if modified {
			s.Undo.Push(ember.UndoStep{Cmd: cmd})
		}
		s.mu.Unlock()

		if modified {
			s.broadcastExcept(origin, cmd.Serialize())
		}
		return nil, StatusOK
	}
}

// broadcastExcept re-issues env as an execCommand request to every connected
// client other than origin.
func (s *Server) broadcastExcept(origin uuid.UUID, env ember.Envelope) {
	s.mu.Lock()
	targets := make([]*Peer, 0, len(s.clients))
	for id, c := range s.clients {
		if id == origin {
			continue
		}
		targets = append(targets, c.peer)
	}
	s.mu.Unlock()

	for _, peer := range targets {
		go func(peer *Peer) {
			if status, err := peer.Call(MethodDoAction, env, nil); err != nil || status != StatusOK {
				log.Printf("netpeer: Server.broadcastExcept: %v (status %d)", err, status)
			}
		}(peer)
	}
}
