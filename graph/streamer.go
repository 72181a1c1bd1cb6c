// Package graph implements the stateful, byte-at-a-time decoder that
// turns the wire protocol into mutations on a live *network.Network:
// creating nodes, wiring connections and injecting packets, in order,
// as bytes arrive from any source (a file, a socket, a serial port).
package graph

import (
	"github.com/ucflo/microflo/component"
	"github.com/ucflo/microflo/network"
	"github.com/ucflo/microflo/packet"
)

const (
	magicSize = 8
	cmdSize   = 8
)

// Magic is the literal header byte sequence every stream must begin
// with.
var Magic = [magicSize]byte{'u', 'C', '/', 'F', 'l', 'o', '0', '1'}

// Opcode is the first byte of every 8-byte command.
type Opcode byte

const (
	OpReset Opcode = iota
	OpCreateComponent
	OpConnectNodes
	OpSendPacket

	// OpInvalid is the sentinel: any opcode byte at or above this value
	// latches the decoder into the terminal Invalid state.
	OpInvalid
)

// State is the streamer's position in the header/command state machine.
type State int

const (
	ParseHeader State = iota
	ParseCmd
	Invalid
)

func (s State) String() string {
	switch s {
	case ParseHeader:
		return "ParseHeader"
	case ParseCmd:
		return "ParseCmd"
	case Invalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}

// Streamer decodes a microflo graph command stream one byte at a time,
// mutating a target Network as complete commands accumulate. A Streamer
// is not safe for concurrent use, matching the single-threaded dispatcher
// it drives.
type Streamer struct {
	target *network.Network
	state  State
	buf    [cmdSize]byte
	cursor int
}

// New returns a Streamer in its initial ParseHeader state, targeting
// net. There is no recovery from a malformed header: once Invalid, a
// Streamer discards all further bytes and must be replaced.
func New(net *network.Network) *Streamer {
	return &Streamer{target: net, state: ParseHeader}
}

// State reports the streamer's current position in the state machine.
func (s *Streamer) State() State { return s.state }

// Feed consumes exactly one byte. Once a full header or command has
// accumulated it is applied immediately, and the internal buffer cursor
// resets to 0.
func (s *Streamer) Feed(b byte) {
	if s.state == Invalid {
		return
	}
	s.buf[s.cursor] = b
	s.cursor++

	switch s.state {
	case ParseHeader:
		if s.cursor < magicSize {
			return
		}
		if s.buf == Magic {
			s.state = ParseCmd
		} else {
			s.state = Invalid
		}
		s.cursor = 0
	case ParseCmd:
		if s.cursor < cmdSize {
			return
		}
		s.applyCommand()
		s.cursor = 0
	}
}

// FeedBytes feeds every byte of bs in order, via repeated Feed calls.
func (s *Streamer) FeedBytes(bs []byte) {
	for _, b := range bs {
		s.Feed(b)
	}
}

func (s *Streamer) applyCommand() {
	op := Opcode(s.buf[0])
	if op >= OpInvalid {
		s.state = Invalid
		return
	}
	switch op {
	case OpReset:
		// No defined semantics on the wire yet: strict no-op.
	case OpCreateComponent:
		id := component.ComponentID(s.buf[1])
		s.target.CreateNode(id)
	case OpConnectNodes:
		src, tgt := int(s.buf[1]), int(s.buf[2])
		srcPort, tgtPort := int(s.buf[3]), int(s.buf[4])
		s.target.Connect(src, srcPort, tgt, tgtPort)
	case OpSendPacket:
		s.applySendPacket()
	}
}

func (s *Streamer) applySendPacket() {
	targetID := int(s.buf[1])
	port := int(s.buf[2])
	tag := packet.Tag(s.buf[3])

	var pkg packet.Packet
	switch tag {
	case packet.BracketStart, packet.BracketEnd, packet.Void:
		pkg = packet.Control(tag)
	case packet.Integer:
		v := int32(s.buf[4]) | int32(s.buf[5])<<8 | int32(s.buf[6])<<16 | int32(s.buf[7])<<24
		pkg = packet.FromInteger(v)
	case packet.Byte:
		pkg = packet.FromByte(s.buf[4])
	case packet.Boolean:
		pkg = packet.FromBool(s.buf[4] != 0)
	default:
		// Float, Ascii and any control tag not listed above have no
		// defined wire layout yet. Ignored rather than latching Invalid,
		// to preserve stream sync for subsequent commands.
		return
	}
	s.target.SendMessage(targetID, port, pkg, -1, -1)
}
