package bank

import (
	"log"
	"reflect"

	"github.com/sarchlab/piggybank/sim"
)

// ConnectionState tells whether the application is talking to the bank.
type ConnectionState int

// The connection states.
const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
)

func (s ConnectionState) String() string {
	switch s {
	case Disconnected:
		return "Disconnected"
	case Connecting:
		return "Connecting"
	case Connected:
		return "Connected"
	default:
		return "Unknown"
	}
}

// MarshalText renders the state by name.
func (s ConnectionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// HookPosConnectionStateChange is triggered after the connection state
// changes. The hook item is a StateTransition.
var HookPosConnectionStateChange = &sim.HookPos{Name: "ConnectionStateChange"}

// A StateTransition records a connection state change.
type StateTransition struct {
	From, To ConnectionState
}

// A Gate tells if connection-only activity may proceed.
type Gate interface {
	IsConnected() bool
}

// A ConnectionListener is told when the connection goes up or down.
type ConnectionListener interface {
	OnConnected()
	OnDisconnected()
}

type connectCompleteEvent struct {
	*sim.EventBase
}

// ConnectionController runs the connection state machine. Every other
// simulated activity is gated on it.
type ConnectionController struct {
	*sim.ComponentBase

	engine       sim.Engine
	activityLog  *ActivityLog
	connectDelay sim.VTimeInSec

	state     ConnectionState
	pending   *connectCompleteEvent
	listeners []ConnectionListener
}

// NewConnectionController creates a disconnected controller.
func NewConnectionController(
	name string,
	engine sim.Engine,
	activityLog *ActivityLog,
	connectDelay sim.VTimeInSec,
) *ConnectionController {
	return &ConnectionController{
		ComponentBase: sim.NewComponentBase(name),
		engine:        engine,
		activityLog:   activityLog,
		connectDelay:  connectDelay,
	}
}

// AddListener registers a listener for connection changes.
func (c *ConnectionController) AddListener(l ConnectionListener) {
	c.listeners = append(c.listeners, l)
}

// State returns the current state.
func (c *ConnectionController) State() ConnectionState {
	return c.state
}

// IsConnected is true only in the Connected state.
func (c *ConnectionController) IsConnected() bool {
	return c.state == Connected
}

// RequestToggle starts connecting when disconnected. In any other state it
// disconnects at once and cancels everything that is scheduled.
func (c *ConnectionController) RequestToggle() {
	if c.state == Disconnected {
		c.connect()
		return
	}

	c.disconnect()
}

func (c *ConnectionController) connect() {
	c.setState(Connecting)
	c.activityLog.Append(MsgConnecting)

	evt := &connectCompleteEvent{
		EventBase: sim.NewEventBase(
			c.engine.CurrentTime()+c.connectDelay, c),
	}
	c.pending = evt
	c.engine.Schedule(evt)
}

func (c *ConnectionController) disconnect() {
	c.pending = nil
	c.engine.CancelAll()
	c.setState(Disconnected)
	c.activityLog.Append(MsgDisconnected)

	for _, l := range c.listeners {
		l.OnDisconnected()
	}
}

// Handle completes a connection attempt.
func (c *ConnectionController) Handle(e sim.Event) error {
	switch evt := e.(type) {
	case *connectCompleteEvent:
		c.completeConnection(evt)
	default:
		log.Panicf("cannot handle event of type %s", reflect.TypeOf(e))
	}

	return nil
}

func (c *ConnectionController) completeConnection(evt *connectCompleteEvent) {
	if c.state != Connecting || evt != c.pending {
		return
	}

	c.pending = nil
	c.setState(Connected)
	c.activityLog.Append(MsgConnected)

	for _, l := range c.listeners {
		l.OnConnected()
	}
}

func (c *ConnectionController) setState(s ConnectionState) {
	from := c.state
	c.state = s

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosConnectionStateChange,
		Item:   StateTransition{From: from, To: s},
	})
}
