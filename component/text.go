package component

import (
	"fmt"
	"strconv"

	"github.com/ucflo/microflo/packet"
)

// ToString converts a single Integer, Boolean or Float data packet into
// a bracketed stream of Ascii packets: BracketStart, one Ascii packet
// per rune of the formatted value, BracketEnd. Downstream components
// (e.g. Delimit) consume that bracketed stream to build framed output.
type ToString struct {
	Base
}

func (c *ToString) Process(in packet.Packet, port int) {
	var s string
	switch {
	case in.IsInteger():
		s = strconv.FormatInt(int64(in.AsInteger()), 10)
	case in.IsBool():
		if in.AsBool() {
			s = "true"
		} else {
			s = "false"
		}
	case in.IsFloat():
		s = fmt.Sprintf("%.2f", in.AsFloat())
	default:
		return
	}
	c.emitString(s)
}

func (c *ToString) emitString(s string) {
	c.Send(packet.Control(packet.BracketStart), 0)
	for _, r := range []byte(s) {
		c.Send(packet.FromAscii(int8(r)), 0)
	}
	c.Send(packet.Control(packet.BracketEnd), 0)
}

// Delimit re-frames a bracketed packet stream (BracketStart ... data
// ... BracketEnd) onto a single delimiter byte appended after the data,
// and also delimits stray data packets that arrive outside of any
// bracket pair.
type Delimit struct {
	Base
	startBracketReceived bool
	delimiter            int8
}

// NewDelimit returns a Delimit configured with the default delimiter,
// '\r', applied immediately so the component is useful before any
// Setup packet arrives.
func NewDelimit() *Delimit {
	return &Delimit{delimiter: '\r'}
}

func (c *Delimit) Process(in packet.Packet, port int) {
	if in.IsSetup() {
		c.delimiter = '\r'
		return
	}
	if c.startBracketReceived {
		if in.IsEndBracket() {
			c.startBracketReceived = false
			c.Send(packet.FromAscii(c.delimiter), 0)
		} else {
			c.Send(in, 0)
		}
		return
	}
	if in.IsStartBracket() {
		c.startBracketReceived = true
	} else if in.IsData() {
		c.Send(in, 0)
		c.Send(packet.FromAscii(c.delimiter), 0)
	}
}
