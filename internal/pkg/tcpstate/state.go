// Package tcpstate implements the classical 11-state TCP state machine as a
// pure value type, independent of any socket or packet I/O.
package tcpstate

// State is one of the 11 classical TCP connection states.
type State int

const (
	Closed State = iota
	Listen
	SynSent
	SynReceived
	Established
	FinWait1
	FinWait2
	CloseWait
	Closing
	LastAck
	TimeWait
)

func (s State) String() string {
	switch s {
	case Closed:
		return "CLOSED"
	case Listen:
		return "LISTEN"
	case SynSent:
		return "SYN_SENT"
	case SynReceived:
		return "SYN_RECEIVED"
	case Established:
		return "ESTABLISHED"
	case FinWait1:
		return "FIN_WAIT_1"
	case FinWait2:
		return "FIN_WAIT_2"
	case CloseWait:
		return "CLOSE_WAIT"
	case Closing:
		return "CLOSING"
	case LastAck:
		return "LAST_ACK"
	case TimeWait:
		return "TIME_WAIT"
	default:
		return "UNKNOWN"
	}
}

// Machine holds the current state and applies the transition table.
// Transitions not listed here leave the state unchanged (a no-op), mirroring
// the advisory, non-enforcing nature of this tracker: it records what
// happened, it does not gate what a caller is allowed to send.
type Machine struct {
	state State
}

// New returns a Machine starting in CLOSED.
func New() *Machine { return &Machine{state: Closed} }

func (m *Machine) State() State { return m.state }

// ForceState overrides the current state unconditionally; used by tests and
// by unconditional resets.
func (m *Machine) ForceState(s State) { m.state = s }

func (m *Machine) transition(from, to State) bool {
	if m.state == from {
		m.state = to
		return true
	}
	return false
}

// SendSYN: CLOSED -> SYN_SENT.
func (m *Machine) SendSYN() { m.transition(Closed, SynSent) }

// ReceiveSYNACK: SYN_SENT -> ESTABLISHED (the SYN+ACK implicitly completes
// the handshake once this engine replies with its own ACK).
func (m *Machine) ReceiveSYNACK() { m.transition(SynSent, Established) }

// SendACK: SYN_RECEIVED -> ESTABLISHED.
func (m *Machine) SendACK() { m.transition(SynReceived, Established) }

// Established forces ESTABLISHED regardless of the current state.
func (m *Machine) Established() { m.state = Established }

// SendFIN: ESTABLISHED -> FIN_WAIT_1.
func (m *Machine) SendFIN() { m.transition(Established, FinWait1) }

// ReceiveFIN applies the three distinct FIN-arrival transitions depending on
// current state: ESTABLISHED -> CLOSE_WAIT, FIN_WAIT_1 -> CLOSING,
// FIN_WAIT_2 -> TIME_WAIT.
func (m *Machine) ReceiveFIN() {
	switch m.state {
	case Established:
		m.state = CloseWait
	case FinWait1:
		m.state = Closing
	case FinWait2:
		m.state = TimeWait
	}
}

// ReceiveACK applies the three distinct ACK-arrival transitions depending on
// current state: FIN_WAIT_1 -> FIN_WAIT_2, CLOSING -> TIME_WAIT,
// LAST_ACK -> CLOSED.
func (m *Machine) ReceiveACK() {
	switch m.state {
	case FinWait1:
		m.state = FinWait2
	case Closing:
		m.state = TimeWait
	case LastAck:
		m.state = Closed
	}
}

// Close forces CLOSED unconditionally (e.g. on a local error abort).
func (m *Machine) Close() { m.state = Closed }

// Reset forces CLOSED unconditionally, representing receipt of an RST.
func (m *Machine) Reset() { m.state = Closed }

// CanTransition is advisory only; this tracker never vetoes a send, it only
// records what a caller reports happened.
func (m *Machine) CanTransition(State) bool { return true }
