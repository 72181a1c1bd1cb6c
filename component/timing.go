package component

import "github.com/ucflo/microflo/packet"

// Timer emits a Void pulse on every Tick once more than interval
// milliseconds (per hwio.TimerCurrentMs) have passed since the last
// pulse. A data packet on port 0 reconfigures the interval and resets
// the reference time.
type Timer struct {
	Base
	previousMs int64
	intervalMs int64
}

func (c *Timer) Process(in packet.Packet, port int) {
	const intervalConfigPort = 0
	switch {
	case in.IsSetup():
		c.previousMs = 0
		c.intervalMs = 1000
	case in.IsTick():
		now := c.IO.TimerCurrentMs()
		if now-c.previousMs > c.intervalMs {
			c.previousMs = now
			c.Send(packet.New(), 0)
		}
	case port == intervalConfigPort && in.IsData():
		c.previousMs = c.IO.TimerCurrentMs()
		c.intervalMs = int64(in.AsInteger())
	}
}

// AdsrEnvelopePorts enumerates AdsrEnvelope's input ports.
var AdsrEnvelopePorts = struct {
	Attack  int
	Decay   int
	Sustain int
	Release int
	Gate    int
}{Attack: 0, Decay: 1, Sustain: 2, Release: 3, Gate: 4}

// AdsrEnvelope is a coarse attack/decay/sustain/release envelope
// generator: it emits an envelope value on every Tick while not idle,
// derived from how long ago the gate last changed.
type AdsrEnvelope struct {
	Base
	attackMs, decayMs, releaseMs int64
	sustainLevel                 int32
	timeOfGateChangeMs           int64
	gateHigh                     bool
	idle                         bool
}

func (c *AdsrEnvelope) Process(in packet.Packet, port int) {
	p := AdsrEnvelopePorts
	switch {
	case in.IsTick():
		if !c.idle {
			c.Send(packet.FromInteger(c.envelope(c.IO.TimerCurrentMs()-c.timeOfGateChangeMs)), 0)
		}
	case port == p.Attack && in.IsData():
		c.attackMs = int64(in.AsInteger())
	case port == p.Decay && in.IsData():
		c.decayMs = int64(in.AsInteger())
	case port == p.Sustain && in.IsData():
		c.sustainLevel = in.AsInteger()
	case port == p.Release && in.IsData():
		c.releaseMs = int64(in.AsInteger())
	case port == p.Gate && in.IsData():
		c.gateHigh = in.AsBool()
		c.timeOfGateChangeMs = c.IO.TimerCurrentMs()
		if c.gateHigh {
			c.idle = false
		}
	}
}

func (c *AdsrEnvelope) envelope(sinceGateChange int64) int32 {
	switch {
	case c.gateHigh && sinceGateChange < c.attackMs:
		return 1000
	case c.gateHigh && sinceGateChange >= c.attackMs && sinceGateChange < c.attackMs+c.decayMs:
		return 500
	case c.gateHigh && sinceGateChange >= c.attackMs+c.decayMs:
		return c.sustainLevel
	case !c.gateHigh && sinceGateChange < c.releaseMs:
		return 100
	case !c.gateHigh && sinceGateChange >= c.releaseMs:
		c.idle = true
		return 0
	default:
		return 0
	}
}
