// Package hwio defines the abstract hardware facade consumed by
// components: the only side-effectful surface a Component may touch.
// The dispatcher (package network) never calls into it directly; it is
// injected at Network construction and handed to every component so
// that Serial/pin/timer access can be swapped for a host-side
// simulation (package hwio, type Mock) or a real backend (package
// hwio/linuxhw) without touching the dataflow core.
package hwio

import "errors"

// ErrUnsupported is traced, never returned (HardwareFacade's methods
// have no error channel), by a backend that cannot honor a capability
// on its host, e.g. hwio/linuxhw's pin/analog/PWM/interrupt methods on
// a plain Linux box. See DESIGN.md for why this is logger-based rather
// than a literal return value.
var ErrUnsupported = errors.New("hwio: capability unsupported on this backend")

// PinMode selects whether PinSetMode configures a pin for input or
// output.
type PinMode int

const (
	InputPin PinMode = iota
	OutputPin
)

// InterruptMode selects the edge/level an external interrupt triggers
// on.
type InterruptMode int

const (
	OnLow InterruptMode = iota
	OnHigh
	OnChange
	OnRisingEdge
	OnFallingEdge
)

// InterruptFunc is invoked from interrupt context. The callback must
// only ever call SendMessage (or equivalent); it must not touch a
// Network's node table or call ProcessMessages.
type InterruptFunc func(user any)

// HardwareFacade is the full side-effectful surface the runtime
// depends on. Components are its only consumers.
type HardwareFacade interface {
	// Serial
	SerialBegin(device int, baudrate int)
	SerialDataAvailable(device int) int64
	SerialRead(device int) byte
	SerialWrite(device int, b byte)

	// Pin configuration
	PinSetMode(pin int, mode PinMode)
	PinEnablePullup(pin int, enable bool)

	// Digital
	DigitalWrite(pin int, val bool)
	DigitalRead(pin int) bool

	// Analog, 10-bit range [0, 1023] on reference targets.
	AnalogRead(pin int) int64

	// PWM, dutyPercent in [0, 100].
	PwmWrite(pin int, dutyPercent int64)

	// Timer, monotonic, resolution >= 1ms.
	TimerCurrentMs() int64

	// External interrupts. The caller is responsible for mapping a pin
	// number to an interrupt id; this facade requires the mapping to be
	// made explicit by whatever builds the interrupt id, rather than
	// hard-coding a fixed pin-to-interrupt table.
	AttachExternalInterrupt(interrupt int, mode InterruptMode, fn InterruptFunc, user any)
}
