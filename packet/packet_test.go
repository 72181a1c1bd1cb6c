package packet

import "testing"

func TestControlAccessorsSentinels(t *testing.T) {
	for _, tag := range []Tag{Void, Setup, Tick, BracketStart, BracketEnd} {
		p := Control(tag)
		if got := p.AsBool(); got != false {
			t.Errorf("%s.AsBool() = %v, want false", tag, got)
		}
		if got := p.AsInteger(); got != sentinelInteger {
			t.Errorf("%s.AsInteger() = %d, want %d", tag, got, sentinelInteger)
		}
		wantFloat := sentinelFloat
		if tag == Void {
			wantFloat = 0
		}
		if got := p.AsFloat(); got != wantFloat {
			t.Errorf("%s.AsFloat() = %v, want %v", tag, got, wantFloat)
		}
		if got := p.AsAscii(); got != 0 {
			t.Errorf("%s.AsAscii() = %v, want 0", tag, got)
		}
		if got := p.AsByte(); got != 0 {
			t.Errorf("%s.AsByte() = %v, want 0", tag, got)
		}
	}
}

func TestNewIsVoid(t *testing.T) {
	p := New()
	if !p.IsVoid() {
		t.Fatalf("New() tag = %s, want Void", p.Tag())
	}
}

func TestPredicates(t *testing.T) {
	if !FromBool(true).IsData() {
		t.Error("boolean packet should be data")
	}
	if Control(Setup).IsData() {
		t.Error("setup packet should not be data")
	}
	if !Control(Setup).IsSpecial() {
		t.Error("setup packet should be special")
	}
	if !FromInteger(1).IsNumber() {
		t.Error("integer packet should be number")
	}
	if !FromFloat(1).IsNumber() {
		t.Error("float packet should be number")
	}
	if FromBool(true).IsNumber() {
		t.Error("boolean packet should not be number")
	}
}

func TestCoercionRoundTrip(t *testing.T) {
	// FromX(p.AsX()).AsX() == p.AsX() for every scalar and control tag.
	cases := []Packet{
		FromBool(true), FromBool(false),
		FromByte(0), FromByte(255),
		FromAscii(-1), FromAscii(65),
		FromInteger(-1000), FromInteger(1000),
		FromFloat(-1.5), FromFloat(1.5),
		Control(Void), Control(Setup), Control(Tick), Control(BracketStart), Control(BracketEnd),
	}
	for _, p := range cases {
		if got, want := FromBool(p.AsBool()).AsBool(), p.AsBool(); got != want {
			t.Errorf("%v: bool round-trip %v != %v", p, got, want)
		}
		if got, want := FromInteger(p.AsInteger()).AsInteger(), p.AsInteger(); got != want {
			t.Errorf("%v: integer round-trip %v != %v", p, got, want)
		}
		if got, want := FromFloat(p.AsFloat()).AsFloat(), p.AsFloat(); got != want {
			t.Errorf("%v: float round-trip %v != %v", p, got, want)
		}
		if got, want := FromAscii(p.AsAscii()).AsAscii(), p.AsAscii(); got != want {
			t.Errorf("%v: ascii round-trip %v != %v", p, got, want)
		}
		if got, want := FromByte(p.AsByte()).AsByte(), p.AsByte(); got != want {
			t.Errorf("%v: byte round-trip %v != %v", p, got, want)
		}
	}
}

func TestEqualStructural(t *testing.T) {
	// Equal is structural for every scalar and control tag.
	pairs := [][2]Packet{
		{FromBool(true), FromBool(true)},
		{FromByte(7), FromByte(7)},
		{FromAscii('x'), FromAscii('x')},
		{FromInteger(42), FromInteger(42)},
		{FromFloat(3.25), FromFloat(3.25)},
		{Control(Setup), Control(Setup)},
		{Control(Tick), Control(Tick)},
	}
	for _, pr := range pairs {
		if !pr[0].Equal(pr[1]) {
			t.Errorf("%v should equal %v", pr[0], pr[1])
		}
	}

	if FromInteger(1).Equal(FromFloat(1)) {
		t.Error("packets of different tags must never be equal, even with the same coerced value")
	}
	if Control(Setup).Equal(Control(Tick)) {
		t.Error("distinct control tags must not be equal")
	}
}

func TestCoercionTable(t *testing.T) {
	// Spot-check a few cross-type coercions.
	if got := FromInteger(300).AsByte(); got != byte(300&0xFF) {
		t.Errorf("Integer(300).AsByte() = %d, want %d", got, byte(300&0xFF))
	}
	if got := FromFloat(3.9).AsInteger(); got != 3 {
		t.Errorf("Float(3.9).AsInteger() = %d, want 3 (truncation)", got)
	}
	if got := FromFloat(-3.9).AsInteger(); got != -3 {
		t.Errorf("Float(-3.9).AsInteger() = %d, want -3 (truncation toward zero)", got)
	}
	if got := FromByte(1).AsBool(); got != true {
		t.Error("Byte(1).AsBool() should be true")
	}
	if got := FromByte(0).AsBool(); got != false {
		t.Error("Byte(0).AsBool() should be false")
	}
}
