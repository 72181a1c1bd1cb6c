package component

import "github.com/ucflo/microflo/packet"

// Forward relays any data packet it receives, unchanged, on the same
// port number it arrived on.
type Forward struct {
	Base
}

func (c *Forward) Process(in packet.Packet, port int) {
	if in.IsData() {
		c.Send(in, port)
	}
}
