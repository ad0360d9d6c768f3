package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/tickforge/tickforge/internal/core/action"
	"github.com/tickforge/tickforge/internal/core/engine"
	"github.com/tickforge/tickforge/internal/core/events/bus"
	"github.com/tickforge/tickforge/internal/core/observability/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ActionRequest is the inbound frame: one opaque action invocation.
type ActionRequest struct {
	ID      string         `json:"id,omitempty"`
	Type    string         `json:"type"`
	Payload action.Payload `json:"payload,omitempty"`
}

// ActionResponse is the outbound frame answering one request.
type ActionResponse struct {
	ID     string        `json:"id,omitempty"`
	Result action.Result `json:"result"`
}

// EventFrame is the outbound frame carrying a broadcast event.
type EventFrame struct {
	Event bus.Event `json:"event"`
}

// Gateway is the network edge: it maps authenticated websocket callers to
// action invocations on the engine and fans engine events back out to every
// connected session. It holds no gameplay state of its own.
type Gateway struct {
	engine *engine.Engine
	config Config
	auth   AuthFunc
	logger log.Log

	sessions    sync.Map // map[string]*session
	clientCount int64    // atomic

	httpServer *http.Server
	eventSub   bus.Subscription
	closed     atomic.Bool
}

// session is one connected caller. mu guards closed and the send channel's
// lifecycle: a broadcast that raced the disconnect must never write to a
// closed channel.
type session struct {
	id     string
	caller string
	conn   *websocket.Conn

	mu     sync.Mutex
	closed bool
	send   chan []byte
}

// NewGateway creates a gateway over an engine.
func NewGateway(eng *engine.Engine, config Config, auth AuthFunc, logger log.Log) *Gateway {
	g := &Gateway{
		engine: eng,
		config: config,
		auth:   auth,
		logger: logger,
	}
	// all engine events fan out to connected sessions for the gateway's
	// lifetime
	g.eventSub = eng.On(bus.TypeAll, g.broadcast)
	return g
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (g *Gateway) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", g.handleWebSocket)
	mux.HandleFunc("/healthz", g.handleHealth)

	g.httpServer = &http.Server{
		Addr:    g.config.ListenAddr,
		Handler: mux,
	}

	defer func() {
		_ = g.eventSub.Cancel()
	}()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		g.logger.Info("gateway listening", log.String("addr", g.config.ListenAddr))
		if err := g.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		g.closed.Store(true)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return g.httpServer.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

// ClientCount returns the number of connected sessions.
func (g *Gateway) ClientCount() int64 {
	return atomic.LoadInt64(&g.clientCount)
}

func (g *Gateway) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"running":  g.engine.Running(),
		"ticks":    g.engine.Ticks(),
		"entities": g.engine.EntityCount(),
		"clients":  g.ClientCount(),
	})
}

func (g *Gateway) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if g.closed.Load() {
		http.Error(w, ErrGatewayClosed.Error(), http.StatusServiceUnavailable)
		return
	}
	caller, err := g.auth(r)
	if err != nil {
		http.Error(w, ErrUnauthorized.Error(), http.StatusUnauthorized)
		return
	}
	if atomic.LoadInt64(&g.clientCount) >= int64(g.config.MaxClients) {
		http.Error(w, ErrMaxClientsReached.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", log.Error(err))
		return
	}
	conn.SetReadLimit(g.config.ReadLimit)

	s := &session{
		id:     uuid.NewString(),
		caller: caller,
		conn:   conn,
		send:   make(chan []byte, g.config.SendBuffer),
	}
	g.sessions.Store(s.id, s)
	atomic.AddInt64(&g.clientCount, 1)
	g.logger.Info("client connected",
		log.String("session", s.id),
		log.String("caller", caller),
	)

	go g.writeLoop(s)
	g.readLoop(s)
}

// readLoop decodes action requests and answers each with the engine's result.
func (g *Gateway) readLoop(s *session) {
	defer g.dropSession(s)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		var req ActionRequest
		if err := json.Unmarshal(data, &req); err != nil || req.Type == "" {
			g.reply(s, ActionResponse{
				ID:     req.ID,
				Result: action.Result{Success: false, Code: action.CodeInvalidPayload, Message: ErrInvalidEnvelope.Error()},
			})
			continue
		}

		res := g.engine.ExecuteAction(req.Type, req.Payload, s.caller)
		g.reply(s, ActionResponse{ID: req.ID, Result: res})
	}
}

func (g *Gateway) writeLoop(s *session) {
	for data := range s.send {
		_ = s.conn.SetWriteDeadline(time.Now().Add(g.config.WriteTimeout))
		if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

func (g *Gateway) reply(s *session, resp ActionResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		g.logger.Error("encode response", log.Error(err))
		return
	}
	g.enqueue(s, data)
}

// broadcast fans one engine event out to every connected session.
func (g *Gateway) broadcast(ev bus.Event) error {
	data, err := json.Marshal(EventFrame{Event: ev})
	if err != nil {
		return err
	}
	g.sessions.Range(func(_, value any) bool {
		g.enqueue(value.(*session), data)
		return true
	})
	return nil
}

// enqueue drops the frame when a session's buffer is full or already closed;
// a slow or departing consumer must not stall dispatch or other sessions.
func (g *Gateway) enqueue(s *session, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.send <- data:
	default:
		g.logger.Warn("send buffer full, dropping frame",
			log.String("session", s.id),
			log.String("caller", s.caller),
		)
	}
}

func (g *Gateway) dropSession(s *session) {
	if _, loaded := g.sessions.LoadAndDelete(s.id); !loaded {
		return
	}
	atomic.AddInt64(&g.clientCount, -1)
	s.mu.Lock()
	s.closed = true
	close(s.send)
	s.mu.Unlock()
	_ = s.conn.Close()
	g.logger.Info("client disconnected",
		log.String("session", s.id),
		log.String("caller", s.caller),
	)
}
