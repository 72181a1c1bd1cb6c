package component

import "github.com/ucflo/microflo/packet"

// ToggleBoolean flips a latched boolean on every data packet received,
// regardless of port, and emits the new state.
type ToggleBoolean struct {
	Base
	current bool
}

func (c *ToggleBoolean) Process(in packet.Packet, port int) {
	if in.IsSetup() {
		c.current = false
		return
	}
	if in.IsData() {
		c.current = !c.current
		c.Send(packet.FromBool(c.current), 0)
	}
}

// InvertBoolean emits the logical negation of every data packet's
// AsBool() reading.
type InvertBoolean struct {
	Base
}

func (c *InvertBoolean) Process(in packet.Packet, port int) {
	if in.IsData() {
		c.Send(packet.FromBool(!in.AsBool()), 0)
	}
}

// HysteresisLatchPorts enumerates HysteresisLatch's input ports.
var HysteresisLatchPorts = struct {
	In   int
	Low  int
	High int
}{In: 0, Low: 1, High: 2}

// HysteresisLatch is a Schmitt-trigger boolean latch: it flips from
// true to false once the input drops to or below the low threshold,
// and back once it rises to or above the high threshold.
type HysteresisLatch struct {
	Base
	low, high float32
	state     bool
}

// NewHysteresisLatch returns a latch with sensible hard-coded defaults,
// applied immediately rather than waiting for Setup, so a newly created
// latch behaves sensibly even if a graph never sends it a Setup packet.
func NewHysteresisLatch() *HysteresisLatch {
	return &HysteresisLatch{low: 24, high: 30, state: true}
}

func (c *HysteresisLatch) Process(in packet.Packet, port int) {
	switch {
	case in.IsSetup():
		c.low, c.high, c.state = 24, 30, true
	case port == HysteresisLatchPorts.Low && in.IsNumber():
		c.low = in.AsFloat()
	case port == HysteresisLatchPorts.High && in.IsNumber():
		c.high = in.AsFloat()
	case port == HysteresisLatchPorts.In && in.IsNumber():
		c.update(in.AsFloat())
	}
}

func (c *HysteresisLatch) update(v float32) {
	if c.state {
		if v <= c.low {
			c.state = false
		}
	} else {
		if v >= c.high {
			c.state = true
		}
	}
	c.Send(packet.FromBool(c.state), 0)
}

// bbmState is BreakBeforeMake's internal state machine.
type bbmState int

const (
	bbmInit bbmState = iota
	bbmWaitFor1On
	bbmWaitFor1Off
	bbmWaitFor2On
	bbmWaitFor2Off
	bbmSettledOn
	bbmSettledOff
)

// BreakBeforeMakePorts enumerates BreakBeforeMake's ports. In,
// Out1Monitor and Out2Monitor are input ports (the monitors carry a
// fed-back reading of each output); Out1 and Out2 are output ports.
// Input and output ports are numbered independently.
var BreakBeforeMakePorts = struct {
	In           int
	Out1Monitor  int
	Out2Monitor  int
	Out1         int
	Out2         int
}{In: 0, Out1Monitor: 1, Out2Monitor: 2, Out1: 0, Out2: 1}

// BreakBeforeMake models a break-before-make switch: selecting the
// other output de-energizes the currently active one and waits for its
// monitored feedback to go low before energizing the new one, ignoring
// all other input while the transition is in progress.
type BreakBeforeMake struct {
	Base
	state bbmState
}

// NewBreakBeforeMake returns a switch in its initial transition state;
// the first Process call (any input) settles it to SettledOff.
func NewBreakBeforeMake() *BreakBeforeMake {
	return &BreakBeforeMake{state: bbmInit}
}

func (c *BreakBeforeMake) Process(in packet.Packet, port int) {
	p := BreakBeforeMakePorts
	switch c.state {
	case bbmInit:
		c.state = bbmSettledOff
	case bbmWaitFor2Off:
		if port == p.Out2Monitor && !in.AsBool() {
			c.Send(packet.FromBool(true), p.Out1)
			c.state = bbmWaitFor1On
		}
	case bbmWaitFor1On:
		if port == p.Out1Monitor && in.AsBool() {
			c.state = bbmSettledOff
		}
	case bbmSettledOff:
		if port == p.In && in.AsBool() {
			c.Send(packet.FromBool(false), p.Out1)
			c.state = bbmWaitFor1Off
		}
	case bbmWaitFor1Off:
		if port == p.Out1Monitor && !in.AsBool() {
			c.Send(packet.FromBool(true), p.Out2)
			c.state = bbmWaitFor2On
		}
	case bbmWaitFor2On:
		if port == p.Out2Monitor && in.AsBool() {
			c.state = bbmSettledOn
		}
	case bbmSettledOn:
		if port == p.In && !in.AsBool() {
			c.Send(packet.FromBool(false), p.Out2)
			c.state = bbmWaitFor2Off
		}
	}
}

// State exposes the current transition state for tests that need to
// assert on it directly.
func (c *BreakBeforeMake) State() int { return int(c.state) }

// SettledOn/SettledOff/WaitFor2Off/WaitFor1On name the transition
// states, exported as constants so a test can compare against
// c.State() without reaching into the unexported enum.
const (
	StateSettledOn  = int(bbmSettledOn)
	StateSettledOff = int(bbmSettledOff)
	StateWaitFor2Off = int(bbmWaitFor2Off)
	StateWaitFor1On  = int(bbmWaitFor1On)
	StateWaitFor1Off = int(bbmWaitFor1Off)
	StateWaitFor2On  = int(bbmWaitFor2On)
)

// SetState forces the switch into a given state, for tests that need
// to start from something other than Init.
func (c *BreakBeforeMake) SetState(s int) { c.state = bbmState(s) }
