package component

import (
	"testing"

	"github.com/ucflo/microflo/hwio"
	"github.com/ucflo/microflo/packet"
)

// recordingSender is a minimal Sender used to unit-test components in
// isolation from package network.
type recordingSender struct {
	dispatched []dispatchCall
}

type dispatchCall struct {
	target, targetPort, sender, senderPort int
	pkg                                    packet.Packet
}

func (r *recordingSender) Dispatch(target, targetPort int, pkg packet.Packet, sender, senderPort int) {
	r.dispatched = append(r.dispatched, dispatchCall{target, targetPort, sender, senderPort, pkg})
}

func newHarness(c Component, nodeID int) (*recordingSender, *hwio.Mock) {
	s := &recordingSender{}
	m := hwio.NewMock()
	type initer interface {
		Init(Sender, int, hwio.HardwareFacade)
	}
	if b, ok := c.(initer); ok {
		b.Init(s, nodeID, m)
	}
	return s, m
}

func TestForwardRelaysData(t *testing.T) {
	c := &Forward{}
	s, _ := newHarness(c, 1)
	c.Connect(0, 2, 0)

	c.Process(packet.FromBool(false), 0)

	if len(s.dispatched) != 1 {
		t.Fatalf("dispatched = %d, want 1", len(s.dispatched))
	}
	got := s.dispatched[0]
	if got.target != 2 || got.targetPort != 0 || !got.pkg.Equal(packet.FromBool(false)) {
		t.Errorf("unexpected dispatch: %+v", got)
	}
}

func TestInvertBoolean(t *testing.T) {
	c := &InvertBoolean{}
	s, _ := newHarness(c, 0)
	c.Connect(0, 1, 0)

	c.Process(packet.FromBool(true), 0)

	if len(s.dispatched) != 1 || s.dispatched[0].pkg.AsBool() != false {
		t.Fatalf("expected a single false dispatch, got %+v", s.dispatched)
	}
}

func TestCountSequence(t *testing.T) {
	c := &Count{}
	s, _ := newHarness(c, 0)
	c.Connect(0, 1, 0)

	for i := 0; i < 3; i++ {
		c.Process(packet.FromInteger(0), CountPorts.In)
	}
	c.Process(packet.FromInteger(0), CountPorts.Reset)

	want := []int32{1, 2, 3, 0}
	if len(s.dispatched) != len(want) {
		t.Fatalf("dispatched = %d, want %d", len(s.dispatched), len(want))
	}
	for i, w := range want {
		if got := s.dispatched[i].pkg.AsInteger(); got != w {
			t.Errorf("dispatch[%d] = %d, want %d", i, got, w)
		}
	}
}

func TestHysteresisLatch(t *testing.T) {
	c := NewHysteresisLatch()
	s, _ := newHarness(c, 0)
	c.Connect(0, 1, 0)
	c.Process(packet.Control(packet.Setup), -1)

	inputs := []float32{25, 23, 29, 30}
	want := []bool{true, false, false, true}

	for _, v := range inputs {
		c.Process(packet.FromFloat(v), HysteresisLatchPorts.In)
	}

	if len(s.dispatched) != len(want) {
		t.Fatalf("dispatched = %d, want %d", len(s.dispatched), len(want))
	}
	for i, w := range want {
		if got := s.dispatched[i].pkg.AsBool(); got != w {
			t.Errorf("dispatch[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestMapLinear(t *testing.T) {
	c := &MapLinear{}
	s, _ := newHarness(c, 0)
	c.Connect(0, 1, 0)

	c.Process(packet.FromInteger(0), MapLinearPorts.InMin)
	c.Process(packet.FromInteger(1023), MapLinearPorts.InMax)
	c.Process(packet.FromInteger(0), MapLinearPorts.OutMin)
	c.Process(packet.FromInteger(100), MapLinearPorts.OutMax)
	c.Process(packet.FromInteger(512), MapLinearPorts.In)

	if len(s.dispatched) != 1 {
		t.Fatalf("dispatched = %d, want 1", len(s.dispatched))
	}
	if got := s.dispatched[0].pkg.AsInteger(); got != 50 {
		t.Errorf("map(512) = %d, want 50", got)
	}
}

func TestBreakBeforeMake(t *testing.T) {
	c := NewBreakBeforeMake()
	s, _ := newHarness(c, 0)
	c.Connect(BreakBeforeMakePorts.Out1, 1, 0)
	c.Connect(BreakBeforeMakePorts.Out2, 1, 1)
	c.SetState(StateSettledOn)

	c.Process(packet.FromBool(false), BreakBeforeMakePorts.In)
	if c.State() != StateWaitFor2Off {
		t.Fatalf("state after in=false: %d, want WaitFor2Off", c.State())
	}
	if len(s.dispatched) != 1 || s.dispatched[0].targetPort != 1 || s.dispatched[0].pkg.AsBool() != false {
		t.Fatalf("expected false on out2, got %+v", s.dispatched)
	}

	c.Process(packet.FromBool(false), BreakBeforeMakePorts.Out2Monitor)
	if c.State() != StateWaitFor1On {
		t.Fatalf("state after out2 monitor=false: %d, want WaitFor1On", c.State())
	}
	if len(s.dispatched) != 2 || s.dispatched[1].targetPort != 0 || s.dispatched[1].pkg.AsBool() != true {
		t.Fatalf("expected true on out1, got %+v", s.dispatched)
	}
}

func TestDelimitFramesDataOutsideBrackets(t *testing.T) {
	c := NewDelimit()
	s, _ := newHarness(c, 0)
	c.Connect(0, 1, 0)

	c.Process(packet.FromAscii('x'), 0)

	if len(s.dispatched) != 2 {
		t.Fatalf("dispatched = %d, want 2", len(s.dispatched))
	}
	if s.dispatched[0].pkg.AsAscii() != 'x' {
		t.Errorf("first packet should be the data byte")
	}
	if s.dispatched[1].pkg.AsAscii() != '\r' {
		t.Errorf("second packet should be the delimiter")
	}
}

func TestDelimitFramesBracketedStream(t *testing.T) {
	c := NewDelimit()
	s, _ := newHarness(c, 0)
	c.Connect(0, 1, 0)

	c.Process(packet.Control(packet.BracketStart), 0)
	c.Process(packet.FromAscii('h'), 0)
	c.Process(packet.FromAscii('i'), 0)
	c.Process(packet.Control(packet.BracketEnd), 0)

	if len(s.dispatched) != 3 {
		t.Fatalf("dispatched = %d, want 3", len(s.dispatched))
	}
	if s.dispatched[0].pkg.AsAscii() != 'h' || s.dispatched[1].pkg.AsAscii() != 'i' {
		t.Fatalf("expected the two data bytes forwarded unchanged, got %+v", s.dispatched)
	}
	if s.dispatched[2].pkg.AsAscii() != '\r' {
		t.Errorf("expected delimiter after bracket end")
	}
}

func TestToStringInteger(t *testing.T) {
	c := &ToString{}
	s, _ := newHarness(c, 0)
	c.Connect(0, 1, 0)

	c.Process(packet.FromInteger(12), 0)

	want := []byte{0, '1', '2', 0} // bracket markers carry no ascii payload
	if len(s.dispatched) != len(want) {
		t.Fatalf("dispatched = %d, want %d", len(s.dispatched), len(want))
	}
	if !s.dispatched[0].pkg.IsStartBracket() {
		t.Error("expected BracketStart first")
	}
	if s.dispatched[1].pkg.AsAscii() != '1' || s.dispatched[2].pkg.AsAscii() != '2' {
		t.Errorf("unexpected digit packets: %+v", s.dispatched[1:3])
	}
	if !s.dispatched[3].pkg.IsEndBracket() {
		t.Error("expected BracketEnd last")
	}
}

func TestRegistryReservedIDsAreNotInstantiable(t *testing.T) {
	r := NewRegistry()
	reserved := []ComponentID{
		IDSerialIn, IDSerialOut, IDDigitalWrite, IDDigitalRead,
		IDMonitorPin, IDPwmWrite, IDAnalogRead, IDReadDallasTemperature,
		IDArduinoUno, IDInvalid, IDMax,
	}
	for _, id := range reserved {
		if _, ok := r.Create(id); ok {
			t.Errorf("Create(%s) should fail: this id is reserved and has no registered factory", id)
		}
	}
}

func TestRegistryKnownIDs(t *testing.T) {
	r := NewRegistry()
	known := []ComponentID{
		IDForward, IDToggleBoolean, IDInvertBoolean, IDCount, IDMapLinear,
		IDHysteresisLatch, IDBreakBeforeMake, IDTimer, IDAdsrEnvelope,
		IDToString, IDDelimit,
	}
	for _, id := range known {
		c, ok := r.Create(id)
		if !ok || c == nil {
			t.Errorf("Create(%s) should succeed", id)
		}
	}
}
