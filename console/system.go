package console

import (
	"fmt"
	"sync"
	"time"

	rcterrors "rct/pkg/errors"
	"rct/pkg/logger"
	"rct/pkg/protocol"
	"rct/pkg/transport"
)

// LocalSystem carries one console session: the connection to the
// controller, the instructions still awaiting a response, and the
// liveness probing the health monitor drives. It is passed explicitly
// to everything that needs session state; there is no process-wide
// instance.
type LocalSystem struct {
	console Manager
	log     *logger.Logger
	teamNum int
	port    int

	mu       sync.Mutex
	conn     *transport.Conn
	pending  map[string]string        // instruction ID -> raw line
	pongs    map[string]chan struct{} // ping ID -> answered signal
	shutdown bool
}

// NewLocalSystem creates a session for the given team. It does not
// connect; call Connect.
func NewLocalSystem(consoleMgr Manager, teamNum, port int) *LocalSystem {
	return &LocalSystem{
		console: consoleMgr,
		log:     logger.Get().With("side", "console"),
		teamNum: teamNum,
		port:    port,
		pending: make(map[string]string),
		pongs:   make(map[string]chan struct{}),
	}
}

// TeamNumber returns the configured team number.
func (s *LocalSystem) TeamNumber() int {
	return s.teamNum
}

// Connect dials the controller at the address derived from the team
// number. A session whose connection has closed must call Connect again
// to obtain a fresh one; connections are never reused.
func (s *LocalSystem) Connect() error {
	return s.ConnectURL(protocol.ServerURL(s.teamNum, s.port))
}

// ConnectURL dials an explicit endpoint URL.
func (s *LocalSystem) ConnectURL(url string) error {
	conn, err := transport.Dial(url)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.conn = conn
	s.shutdown = false
	s.mu.Unlock()

	conn.OnFault(s.handleFault)
	conn.Start(s.handleMessage)

	s.log.Info("connected to controller", "url", url)
	return nil
}

// Connected reports whether a live connection exists.
func (s *LocalSystem) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil && !s.conn.IsClosed()
}

// Close shuts the session down deliberately. The resulting read fault
// on our own receive loop is expected and not reported to the operator.
func (s *LocalSystem) Close() {
	s.mu.Lock()
	conn := s.conn
	s.shutdown = true
	s.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

// SendInstruction forwards one raw command line to the controller. The
// correlated response arrives asynchronously and is printed by the
// receive path; if the connection faults first, the failure is surfaced
// to the operator rather than silently dropped.
func (s *LocalSystem) SendInstruction(line string) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil || conn.IsClosed() {
		return rcterrors.ErrNotConnected
	}

	msg, err := protocol.NewMessage(protocol.KindInstruction, &protocol.InstructionPayload{Line: line})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.pending[msg.ID] = line
	s.mu.Unlock()

	if err := conn.Send(msg); err != nil {
		s.mu.Lock()
		delete(s.pending, msg.ID)
		s.mu.Unlock()
		return err
	}
	return nil
}

// Probe implements health.Prober with a ping/pong round trip, bounded
// by timeout so a UI refresh loop is never stalled past one interval.
func (s *LocalSystem) Probe(timeout time.Duration) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil || conn.IsClosed() {
		return rcterrors.ErrNotConnected
	}

	msg, err := protocol.NewMessage(protocol.KindPing, nil)
	if err != nil {
		return err
	}

	answered := make(chan struct{})
	s.mu.Lock()
	s.pongs[msg.ID] = answered
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.pongs, msg.ID)
		s.mu.Unlock()
	}()

	if err := conn.Send(msg); err != nil {
		return err
	}

	select {
	case <-answered:
		return nil
	case <-time.After(timeout):
		if conn.IsClosed() {
			return rcterrors.ErrNotConnected
		}
		return rcterrors.ErrProbeTimeout
	}
}

// handleMessage runs on the receive goroutine; invocations never overlap.
func (s *LocalSystem) handleMessage(msg *protocol.Message) {
	switch msg.Kind {
	case protocol.KindResponse:
		s.handleResponse(msg)

	case protocol.KindPong:
		var payload protocol.PongPayload
		if err := msg.ParsePayload(&payload); err != nil {
			s.log.ErrorWithErr("malformed pong payload", err)
			return
		}
		s.mu.Lock()
		answered, ok := s.pongs[payload.PingID]
		if ok {
			delete(s.pongs, payload.PingID)
		}
		s.mu.Unlock()
		if ok {
			close(answered)
		}

	default:
		// The console must only ever see responses and pongs.
		s.mu.Lock()
		conn := s.conn
		s.mu.Unlock()
		if conn != nil {
			conn.Fault(fmt.Errorf("%w: console received a %q message", rcterrors.ErrProtocolFault, msg.Kind))
		}
	}
}

func (s *LocalSystem) handleResponse(msg *protocol.Message) {
	var payload protocol.ResponsePayload
	if err := msg.ParsePayload(&payload); err != nil {
		s.log.ErrorWithErr("malformed response payload", err)
		return
	}

	s.mu.Lock()
	delete(s.pending, payload.InstructionID)
	s.mu.Unlock()

	for _, line := range payload.Lines {
		Println(s.console, line)
	}
	if payload.ErrorText != "" {
		PrintlnErr(s.console, payload.ErrorText)
	}
}

// handleFault runs exactly once per connection, after the transport has
// closed it. Every instruction still awaiting a response is failed
// visibly so nothing hangs silently.
func (s *LocalSystem) handleFault(cause error) {
	s.mu.Lock()
	failed := make([]string, 0, len(s.pending))
	for _, line := range s.pending {
		failed = append(failed, line)
	}
	s.pending = make(map[string]string)
	wasShutdown := s.shutdown
	s.mu.Unlock()

	if wasShutdown {
		return
	}

	s.log.ErrorWithErr("connection fault", cause)
	PrintlnErr(s.console, fmt.Sprintf("Connection to the controller was lost: %v", cause))
	for _, line := range failed {
		PrintlnErr(s.console, fmt.Sprintf("No response will arrive for: %s", line))
	}
}
