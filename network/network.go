// Package network implements the dispatcher: the fixed node table, the
// bounded message ring and the setup/tick scheduling loop that drives
// components.
package network

import (
	"log"
	"sync/atomic"

	"github.com/ucflo/microflo/component"
	"github.com/ucflo/microflo/hwio"
	"github.com/ucflo/microflo/packet"
)

// Default node table and message ring sizes. A Network built with New
// uses these unless overridden with WithCapacity; a test exercising
// ring-wrap behavior typically wants a much smaller ring than a real
// target would ship with.
const (
	DefaultMaxNodes    = 20
	DefaultMaxMessages = 50
)

// Message is one pending delivery: a target node/port and the packet
// bound for it. A nil-ish target (TargetNode < 0) is skipped silently
// on delivery, matching a Connection with no target.
type Message struct {
	TargetNode int
	TargetPort int
	Packet     packet.Packet
}

// Observers are four optional callback hooks a caller can install to
// watch graph mutations and message traffic. Any of them may be nil.
// They are invoked synchronously on the goroutine calling into
// Network, and must not mutate the graph.
type Observers struct {
	OnAddNode func(nodeID int)
	OnConnect func(srcID, srcPort, targetID, targetPort int)
	OnSend    func(slot int, msg Message, sender, senderPort int)
	OnDeliver func(slot int, msg Message)
}

// Option configures a Network at construction time.
type Option func(*Network)

// WithObservers installs the observer hooks.
func WithObservers(o Observers) Option {
	return func(n *Network) { n.observers = o }
}

// WithLogger installs a logger used to trace ring overflow and other
// conditions a developer debugging a live graph would want visibility
// into. Nil (the default) disables tracing entirely.
func WithLogger(l *log.Logger) Option {
	return func(n *Network) { n.logger = l }
}

// WithCapacity overrides the node table and message ring sizes. Port
// capacity (MAX_PORTS) lives on component.Base and is not configurable
// per network.
func WithCapacity(maxNodes, maxMessages int) Option {
	return func(n *Network) {
		n.maxNodes = maxNodes
		n.maxMessages = maxMessages
	}
}

// Network holds the node table and the bounded message ring, and runs
// the setup/tick scheduling loop.
type Network struct {
	io       hwio.HardwareFacade
	registry *component.Registry
	logger   *log.Logger

	maxNodes    int
	maxMessages int

	nodes              []component.Component
	lastAddedNodeIndex int

	messages     []Message
	writeIndex   atomic.Int64
	readIndex    int

	observers Observers
}

// New constructs a Network around io, using registry to resolve
// CreateComponent ids. registry may be nil, in which case
// component.NewRegistry()'s default catalog is used.
func New(io hwio.HardwareFacade, registry *component.Registry, opts ...Option) *Network {
	if registry == nil {
		registry = component.NewRegistry()
	}
	n := &Network{
		io:          io,
		registry:    registry,
		maxNodes:    DefaultMaxNodes,
		maxMessages: DefaultMaxMessages,
	}
	for _, opt := range opts {
		opt(n)
	}
	n.nodes = make([]component.Component, n.maxNodes)
	n.messages = make([]Message, n.maxMessages)
	return n
}

// Registry returns the component registry this network resolves
// CreateComponent ids against.
func (n *Network) Registry() *component.Registry { return n.registry }

// NodeCount returns the number of occupied node slots
// (lastAddedNodeIndex in spec terms).
func (n *Network) NodeCount() int { return n.lastAddedNodeIndex }

// Node returns the component installed at id, or nil if id is out of
// range or unoccupied.
func (n *Network) Node(id int) component.Component {
	if id < 0 || id >= n.lastAddedNodeIndex {
		return nil
	}
	return n.nodes[id]
}

// AddNode appends node to the table and wires it into this network.
// It returns the assigned node id and true on success; when the table
// is full it is a silent no-op and returns (-1, false).
func (n *Network) AddNode(node component.Component) (int, bool) {
	if n.lastAddedNodeIndex >= n.maxNodes {
		return -1, false
	}
	id := n.lastAddedNodeIndex
	n.nodes[id] = node
	if initer, ok := node.(interface {
		Init(component.Sender, int, hwio.HardwareFacade)
	}); ok {
		initer.Init(n, id, n.io)
	}
	n.lastAddedNodeIndex++
	if n.observers.OnAddNode != nil {
		n.observers.OnAddNode(id)
	}
	return id, true
}

// CreateNode resolves id through the registry and installs the result,
// exactly what the GraphStreamer's CreateComponent command needs.
// Returns (-1, false) if the id is unknown/reserved or the table is
// full.
func (n *Network) CreateNode(id component.ComponentID) (int, bool) {
	c, ok := n.registry.Create(id)
	if !ok {
		return -1, false
	}
	return n.AddNode(c)
}

// Connect wires output port srcPort of node src to (target, targetPort).
// Invalid ids (negative, or >= the current node count) are a silent
// no-op.
func (n *Network) Connect(src, srcPort, target, targetPort int) {
	if src < 0 || src >= n.lastAddedNodeIndex || target < 0 || target >= n.lastAddedNodeIndex {
		return
	}
	connector, ok := n.nodes[src].(interface {
		Connect(outPort, target, targetPort int)
	})
	if !ok {
		return
	}
	connector.Connect(srcPort, target, targetPort)
	if n.observers.OnConnect != nil {
		n.observers.OnConnect(src, srcPort, target, targetPort)
	}
}

// SendMessage enqueues pkg addressed at (targetNode, targetPort). It
// always enqueues, even when the ring is full: the write index wraps
// around, silently overwriting the oldest undelivered slot.
// senderID/senderPort are -1 when there is no sender (e.g. an
// externally injected packet from the graph streamer).
func (n *Network) SendMessage(targetNode, targetPort int, pkg packet.Packet, senderID, senderPort int) {
	seq := n.writeIndex.Add(1)
	slot := int(seq-1) % n.maxMessages
	if slot < 0 {
		slot += n.maxMessages
	}
	if int(seq) > n.maxMessages {
		n.logf("network: ring overflow, overwriting undelivered slot %d", slot)
	}
	msg := Message{TargetNode: targetNode, TargetPort: targetPort, Packet: pkg}
	n.messages[slot] = msg
	if n.observers.OnSend != nil {
		n.observers.OnSend(slot, msg, senderID, senderPort)
	}
}

// Dispatch implements component.Sender for the components this network
// owns.
func (n *Network) Dispatch(target, targetPort int, pkg packet.Packet, sender, senderPort int) {
	if target == component.Unbound {
		return
	}
	n.SendMessage(target, targetPort, pkg, sender, senderPort)
}

// RunSetup delivers a synthetic Setup packet to every occupied node at
// port -1, in node-id order. The host is expected to call this exactly
// once after the graph is loaded; the runtime does not guard against
// repeated calls.
func (n *Network) RunSetup() {
	setup := packet.Control(packet.Setup)
	for i := 0; i < n.lastAddedNodeIndex; i++ {
		if n.nodes[i] != nil {
			n.nodes[i].Process(setup, -1)
		}
	}
}

// RunTick is the cooperative scheduling step: first drain pending
// messages, then broadcast a Tick to every node in insertion order.
func (n *Network) RunTick() {
	n.processMessages()
	tick := packet.Control(packet.Tick)
	for i := 0; i < n.lastAddedNodeIndex; i++ {
		if t := n.nodes[i]; t != nil {
			t.Process(tick, -1)
		}
	}
}

// processMessages snapshots the write index and delivers exactly the
// messages enqueued before this call, in enqueue order, setting
// readIndex to the snapshot afterward, not to whatever writeIndex has
// become by the time delivery finishes. Messages emitted during
// delivery wait for the next RunTick.
func (n *Network) processMessages() {
	wr := int(n.writeIndex.Load()) % n.maxMessages
	if wr < 0 {
		wr += n.maxMessages
	}
	rd := n.readIndex

	switch {
	case rd < wr:
		n.deliverRange(rd, wr)
	case rd > wr:
		n.deliverRange(rd, n.maxMessages)
		n.deliverRange(0, wr)
	default:
		// rd == wr: no messages pending. Also hits when exactly
		// maxMessages were enqueued since the last drain, since the
		// write index has wrapped back onto rd; that batch is not
		// delivered by this call or any later one, and later sends
		// overwrite its slots.
	}
	n.readIndex = wr
}

// deliverRange delivers slots [from, to).
func (n *Network) deliverRange(from, to int) {
	for i := from; i < to; i++ {
		msg := n.messages[i]
		if msg.TargetNode < 0 || msg.TargetNode >= n.lastAddedNodeIndex {
			continue
		}
		target := n.nodes[msg.TargetNode]
		if target == nil {
			continue
		}
		target.Process(msg.Packet, msg.TargetPort)
		if n.observers.OnDeliver != nil {
			n.observers.OnDeliver(i, msg)
		}
	}
}

// logf traces a debug condition if a logger was installed; otherwise a
// silent no-op.
func (n *Network) logf(format string, args ...any) {
	if n.logger != nil {
		n.logger.Printf(format, args...)
	}
}
