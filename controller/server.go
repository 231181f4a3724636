package controller

import (
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"rct/pkg/config"
	rcterrors "rct/pkg/errors"
	"rct/pkg/logger"
	"rct/pkg/protocol"
	"rct/pkg/storage"
	"rct/pkg/transport"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Consoles connect straight to the roboRIO over the robot network;
	// there is no browser origin to check.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server hosts the controller's RCT endpoint. Each accepted console
// connection gets its own transport connection and receive goroutine;
// instructions from all of them funnel into one Executor.
type Server struct {
	cfg      *config.ControllerConfig
	log      *logger.Logger
	executor *Executor
	store    storage.Store

	engine    *gin.Engine
	startTime time.Time

	mu       sync.Mutex
	consoles map[*transport.Conn]string // conn -> remote address
}

// NewServer opens the instruction log and wires the HTTP routes. The
// registries are owned by the robot program and supplied here.
func NewServer(cfg *config.ControllerConfig, subsystems *Registry[*Subsystem], devices *Registry[*Device]) (*Server, error) {
	store, err := storage.NewStore(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening instruction log: %w", err)
	}

	s := &Server{
		cfg:       cfg,
		log:       logger.Get().With("side", "controller"),
		executor:  NewExecutor(subsystems, devices, store),
		store:     store,
		startTime: time.Now(),
		consoles:  make(map[*transport.Conn]string),
	}

	gin.SetMode(gin.ReleaseMode)
	s.engine = gin.New()
	s.engine.Use(gin.Recovery())
	s.engine.GET("/rct", s.handleRCT)
	s.engine.GET("/healthz", s.handleHealthz)

	return s, nil
}

// Handler exposes the route tree for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the listener fails.
func (s *Server) Run() error {
	s.log.Info("RCT server listening", "address", s.cfg.Address)
	return s.engine.Run(s.cfg.Address)
}

// Close releases the instruction log and drops active consoles.
func (s *Server) Close() error {
	s.mu.Lock()
	conns := make([]*transport.Conn, 0, len(s.consoles))
	for conn := range s.consoles {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close()
	}
	return s.store.Close()
}

// handleRCT upgrades one console connection and starts its receive loop.
func (s *Server) handleRCT(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.ErrorWithErr("websocket upgrade failed", err, "remote", c.Request.RemoteAddr)
		return
	}

	remote := c.Request.RemoteAddr
	conn := transport.Attach(ws)

	s.mu.Lock()
	s.consoles[conn] = remote
	s.mu.Unlock()

	conn.OnFault(func(cause error) {
		s.mu.Lock()
		delete(s.consoles, conn)
		s.mu.Unlock()
		s.log.Info("console disconnected", "remote", remote, "cause", cause)
	})

	conn.Start(func(msg *protocol.Message) {
		s.handleMessage(conn, remote, msg)
	})

	s.log.Info("console connected", "remote", remote)
}

// handleMessage runs on the connection's receive goroutine.
func (s *Server) handleMessage(conn *transport.Conn, remote string, msg *protocol.Message) {
	switch msg.Kind {
	case protocol.KindInstruction:
		var payload protocol.InstructionPayload
		if err := msg.ParsePayload(&payload); err != nil {
			conn.Fault(fmt.Errorf("malformed instruction payload: %w", err))
			return
		}

		resp := s.executor.Execute(msg.ID, payload.Line, remote)
		respMsg, err := protocol.NewMessage(protocol.KindResponse, resp)
		if err != nil {
			s.log.ErrorWithErr("failed to build response", err)
			return
		}
		if err := conn.Send(respMsg); err != nil {
			// The receive loop will observe the same fault and close.
			s.log.ErrorWithErr("failed to send response", err, "remote", remote)
		}

	case protocol.KindPing:
		pong, err := protocol.NewMessage(protocol.KindPong, &protocol.PongPayload{PingID: msg.ID})
		if err != nil {
			s.log.ErrorWithErr("failed to build pong", err)
			return
		}
		if err := conn.Send(pong); err != nil {
			s.log.ErrorWithErr("failed to send pong", err, "remote", remote)
		}

	default:
		// The controller must only ever see instructions and pings.
		conn.Fault(fmt.Errorf("%w: controller received a %q message", rcterrors.ErrProtocolFault, msg.Kind))
	}
}

func (s *Server) handleHealthz(c *gin.Context) {
	s.mu.Lock()
	active := len(s.consoles)
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"uptime_seconds":  int64(time.Since(s.startTime).Seconds()),
		"goroutines":      runtime.NumGoroutine(),
		"active_consoles": active,
	})
}
