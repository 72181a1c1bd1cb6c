// Package component defines the component contract: a polymorphic
// processing unit invoked once per received packet, the per-output
// Connection it owns, and the closed ComponentID registry components
// are instantiated from.
package component

import (
	"github.com/ucflo/microflo/hwio"
	"github.com/ucflo/microflo/packet"
)

// MaxPorts bounds the number of output connections a single component
// may own.
const MaxPorts = 20

// Sender is the narrow interface Network exposes to a component so it
// can emit packets without this package importing network, which
// would otherwise create an import cycle (network already depends on
// component).
type Sender interface {
	// Dispatch enqueues pkg addressed at (target, targetPort), recording
	// (sender, senderPort) for observers. target may be Unbound, in which
	// case the message is dropped (mirrors Connection with no target).
	Dispatch(target, targetPort int, pkg packet.Packet, sender, senderPort int)
}

// Connection names a bound output port: the node id and port of the
// downstream component, or Unbound if the output is not wired.
type Connection struct {
	Target     int
	TargetPort int
}

// Unbound is the sentinel for Target on a port that hasn't been wired
// to anything; a real node id is never negative.
const Unbound = -1

// Component is the single capability the dispatcher requires.
type Component interface {
	// Process handles one packet delivered on port. port is -1 for the
	// synthetic Setup and Tick packets.
	Process(in packet.Packet, port int)
}

// Base gives a concrete component its node identity, its output wiring
// and a way to emit: everything the component contract needs beyond
// Process itself. Built-in components embed Base.
type Base struct {
	IO          hwio.HardwareFacade
	sender      Sender
	nodeID      int
	connections [MaxPorts]Connection
}

// Init wires a freshly constructed component into its owning network.
// Called exactly once, by network.AddNode when the component is
// installed, never by a component itself.
func (b *Base) Init(sender Sender, nodeID int, io hwio.HardwareFacade) {
	b.sender = sender
	b.nodeID = nodeID
	b.IO = io
	for i := range b.connections {
		b.connections[i] = Connection{Target: Unbound, TargetPort: -1}
	}
}

// NodeID returns the identifier this component was installed under.
func (b *Base) NodeID() int { return b.nodeID }

// Connect binds output port outPort of this component to
// (target, targetPort). Called by Network.Connect, never directly by a
// component.
func (b *Base) Connect(outPort int, target int, targetPort int) {
	if outPort < 0 || outPort >= MaxPorts {
		return
	}
	b.connections[outPort] = Connection{Target: target, TargetPort: targetPort}
}

// Send emits out on output port port. If the port is unbound,
// the emission is silently dropped. Only ever call Send from within
// Process; a constructor must not emit.
func (b *Base) Send(out packet.Packet, port int) {
	if port < 0 || port >= MaxPorts {
		return
	}
	conn := b.connections[port]
	if conn.Target == Unbound || conn.TargetPort < 0 {
		return
	}
	b.sender.Dispatch(conn.Target, conn.TargetPort, out, b.nodeID, port)
}
