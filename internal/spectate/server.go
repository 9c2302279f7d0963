package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Versifine/walker/internal/event"
	"github.com/Versifine/walker/internal/game"
	"github.com/Versifine/walker/internal/logger"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	clientBuffer   = 16
	writeTimeout   = 2 * time.Second
	shutdownPeriod = 3 * time.Second
)

type client struct {
	conn   *websocket.Conn
	remote string
	send   chan []byte
}

// Server streams frame snapshots to websocket spectators.
type Server struct {
	addr     string
	bus      *event.Bus
	router   *mux.Router
	upgrader websocket.Upgrader

	log       *slog.Logger
	mu        sync.Mutex
	clients   map[*client]struct{}
	latest    []byte
	latestSeq uint64
}

func NewServer(addr string, bus *event.Bus) *Server {
	s := &Server{
		addr: addr,
		bus:  bus,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
		log:     logger.Component("spectate"),
	}
	r := mux.NewRouter()
	r.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWS).Methods(http.MethodGet)
	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Attach subscribes the server to frame events and returns the unsubscribe func.
func (s *Server) Attach() func() {
	return s.bus.Subscribe(event.EventFrame, func(raw any) {
		snap, ok := raw.(game.Snapshot)
		if !ok {
			return
		}
		s.broadcast(snap)
	})
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	detach := s.Attach()
	defer detach()

	srv := &http.Server{Addr: s.addr, Handler: s.Handler()}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Spectate server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("spectate listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)
	defer cancel()
	s.log.Info("Spectate server stopping", "clients", s.ClientCount())
	s.closeClients()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("spectate shutdown: %w", err)
	}
	return nil
}

func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) broadcast(snap game.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		s.log.Warn("Failed to encode snapshot", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Handlers run concurrently, so frames can arrive out of order.
	if snap.Frame < s.latestSeq {
		return
	}
	s.latestSeq = snap.Frame
	s.latest = data

	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			s.log.Debug("Dropping slow spectator", "remote", c.remote)
			s.removeLocked(c)
		}
	}
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	data := s.latest
	s.mu.Unlock()

	if data == nil {
		http.Error(w, "no frame yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("Websocket upgrade failed", "error", err)
		return
	}
	c := &client{conn: conn, remote: conn.RemoteAddr().String(), send: make(chan []byte, clientBuffer)}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.log.Debug("Spectator connected", "remote", c.remote)

	go s.writeLoop(c)
	s.readLoop(c)
}

// readLoop only watches for the peer going away.
func (s *Server) readLoop(c *client) {
	defer s.remove(c)
	for {
		mt, _, err := c.conn.ReadMessage()
		if err != nil || mt == websocket.CloseMessage {
			return
		}
	}
}

func (s *Server) writeLoop(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			s.remove(c)
			return
		}
	}
	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeTimeout),
	)
}

func (s *Server) remove(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(c)
}

func (s *Server) removeLocked(c *client) {
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	close(c.send)
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		s.removeLocked(c)
	}
}
