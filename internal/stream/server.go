// Package stream publishes simulation frames to websocket clients and
// accepts spawn requests from them.
package stream

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"sandfall/internal/catalog"
	"sandfall/internal/core"
	"sandfall/internal/sims/sand"

	"github.com/gorilla/websocket"
)

var (
	ErrUnknownMessage  = errors.New("stream: unknown message type")
	ErrUnknownMaterial = errors.New("stream: unknown material")
)

// Sim is the engine surface the server needs.
type Sim interface {
	Size() core.Size
	Iteration() uint64
	Config() sand.Config
	Spawn(sand.SpawnRequest) error
	Reset(seed int64) error
	CopyCells(dst []uint8) []uint8
}

// Server is an http.Handler that upgrades requests to websocket sessions.
type Server struct {
	sim       Sim
	materials *catalog.Catalog
	upgrader  websocket.Upgrader

	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex

	frameMu sync.Mutex
	cells   []uint8
}

// NewServer creates a server for sim. Any origin may connect.
func NewServer(sim Sim, materials *catalog.Catalog) *Server {
	return &Server{
		sim:       sim,
		materials: materials,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("websocket upgrade:", err)
		return
	}
	defer conn.Close()

	connMu := &sync.Mutex{}
	s.mu.Lock()
	s.clients[conn] = connMu
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
	}()

	connMu.Lock()
	err = conn.WriteJSON(newHello(s.sim.Size().W, s.materials))
	if err == nil {
		err = conn.WriteJSON(s.Frame())
	}
	connMu.Unlock()
	if err != nil {
		log.Println("websocket write:", err)
		return
	}

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Println("websocket read:", err)
			}
			return
		}
		if err := s.Handle(msg); err != nil {
			log.Println("websocket message:", err)
		}
	}
}

// Handle applies one client message to the simulation.
func (s *Server) Handle(msg Message) error {
	switch msg.Type {
	case TypeSpawn:
		m, ok := s.materials.Lookup(msg.Material)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownMaterial, msg.Material)
		}
		radius := msg.Radius
		if radius == 0 {
			radius = s.sim.Config().Params.SpawnRadius
		}
		return s.sim.Spawn(sand.SpawnRequest{
			U:        msg.U,
			V:        msg.V,
			Radius:   radius,
			Material: sand.MaterialRef{ID: m.ID, Weight: m.Weight},
		})
	case TypeReset:
		return s.sim.Reset(msg.Seed)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
}

// Frame snapshots the current display buffer.
func (s *Server) Frame() Frame {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	s.cells = s.sim.CopyCells(s.cells)
	return Frame{
		Type:      TypeFrame,
		Iteration: s.sim.Iteration(),
		Dimension: s.sim.Size().W,
		Cells:     append([]byte(nil), s.cells...),
	}
}

// Broadcast sends the current frame to every client and drops those whose
// write fails. It returns the number of clients reached.
func (s *Server) Broadcast() int {
	frame := s.Frame()

	var failed []*websocket.Conn
	sent := 0
	s.mu.RLock()
	for conn, connMu := range s.clients {
		connMu.Lock()
		err := conn.WriteJSON(frame)
		connMu.Unlock()
		if err != nil {
			log.Println("websocket write:", err)
			conn.Close()
			failed = append(failed, conn)
			continue
		}
		sent++
	}
	s.mu.RUnlock()

	if len(failed) > 0 {
		s.mu.Lock()
		for _, conn := range failed {
			delete(s.clients, conn)
		}
		s.mu.Unlock()
	}
	return sent
}
