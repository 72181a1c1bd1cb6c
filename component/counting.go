package component

import "github.com/ucflo/microflo/packet"

// CountPorts enumerates Count's input ports.
var CountPorts = struct {
	In    int
	Reset int
}{In: 0, Reset: 1}

// Count increments on every packet received on In and emits the new
// total; a packet on Reset zeroes the total and emits it.
type Count struct {
	Base
	current int32
}

func (c *Count) Process(in packet.Packet, port int) {
	switch port {
	case CountPorts.In:
		c.current++
		c.Send(packet.FromInteger(c.current), 0)
	case CountPorts.Reset:
		c.current = 0
		c.Send(packet.FromInteger(c.current), 0)
	}
}

// MapLinearPorts enumerates MapLinear's input ports.
var MapLinearPorts = struct {
	In     int
	InMin  int
	InMax  int
	OutMin int
	OutMax int
}{In: 0, InMin: 1, InMax: 2, OutMin: 3, OutMax: 4}

// MapLinear affine-remaps a numeric input from [inmin, inmax] to
// [outmin, outmax].
type MapLinear struct {
	Base
	inMin, inMax, outMin, outMax int32
}

func (c *MapLinear) Process(in packet.Packet, port int) {
	switch {
	case in.IsSetup():
		// No defaults: a graph must configure all four bounds before
		// sending data on In.
	case port == MapLinearPorts.InMin && in.IsData():
		c.inMin = in.AsInteger()
	case port == MapLinearPorts.InMax && in.IsData():
		c.inMax = in.AsInteger()
	case port == MapLinearPorts.OutMin && in.IsData():
		c.outMin = in.AsInteger()
	case port == MapLinearPorts.OutMax && in.IsData():
		c.outMax = in.AsInteger()
	case port == MapLinearPorts.In && in.IsNumber():
		c.Send(packet.FromInteger(c.mapValue(in.AsInteger())), 0)
	}
}

// mapValue returns the zero value until the input range has been
// configured to something other than a single point; dividing by
// inMax-inMin while it's still zero (the pre-configuration default)
// would otherwise panic on a perfectly well-formed input packet.
func (c *MapLinear) mapValue(v int32) int32 {
	span := c.inMax - c.inMin
	if span == 0 {
		return 0
	}
	return (v-c.inMin)*(c.outMax-c.outMin)/span + c.outMin
}
