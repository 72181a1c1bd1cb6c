package hwio

import "sync"

var _ HardwareFacade = (*Mock)(nil)

// SerialActivity records a single outbound SerialWrite call, for tests
// that need to assert on bytes a component pushed to a device.
type SerialActivity struct {
	Device int
	Byte   byte
}

// Mock is an in-memory HardwareFacade used by the test suites in this
// module in place of real hardware. Its clock does not advance on its
// own; tests call Advance to move TimerCurrentMs forward deterministically.
type Mock struct {
	mu sync.Mutex

	clockMs int64

	pinMode    map[int]PinMode
	pinPullup  map[int]bool
	digitalOut map[int]bool
	digitalIn  map[int]bool
	analogIn   map[int]int64
	pwmOut     map[int]int64

	serialBegun  map[int]int // device -> baudrate
	serialRXQ    map[int][]byte
	serialWrites []SerialActivity

	interrupts map[int]mockInterrupt
}

type mockInterrupt struct {
	mode InterruptMode
	fn   InterruptFunc
	user any
}

// NewMock returns a ready-to-use Mock facade.
func NewMock() *Mock {
	return &Mock{
		pinMode:     make(map[int]PinMode),
		pinPullup:   make(map[int]bool),
		digitalOut:  make(map[int]bool),
		digitalIn:   make(map[int]bool),
		analogIn:    make(map[int]int64),
		pwmOut:      make(map[int]int64),
		serialBegun: make(map[int]int),
		serialRXQ:   make(map[int][]byte),
		interrupts:  make(map[int]mockInterrupt),
	}
}

// Advance moves the virtual clock forward by ms milliseconds.
func (m *Mock) Advance(ms int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clockMs += ms
}

// SetAnalog sets the value the next AnalogRead(pin) will return.
func (m *Mock) SetAnalog(pin int, val int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analogIn[pin] = val
}

// SetDigital sets the value the next DigitalRead(pin) will return. It
// does not fire any attached interrupt; tests call FireInterrupt for
// that.
func (m *Mock) SetDigital(pin int, val bool) {
	m.mu.Lock()
	m.digitalIn[pin] = val
	m.mu.Unlock()
}

// FeedSerial appends bytes to a device's receive queue, as if they had
// arrived over the wire.
func (m *Mock) FeedSerial(device int, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.serialRXQ[device] = append(m.serialRXQ[device], data...)
}

// Writes returns a copy of every SerialWrite call observed so far.
func (m *Mock) Writes() []SerialActivity {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SerialActivity, len(m.serialWrites))
	copy(out, m.serialWrites)
	return out
}

// FireInterrupt invokes the callback attached to interrupt id i, if
// any, synchronously on the calling goroutine; tests use this to
// simulate an MCU interrupt firing.
func (m *Mock) FireInterrupt(i int) {
	m.mu.Lock()
	intr, ok := m.interrupts[i]
	m.mu.Unlock()
	if ok {
		intr.fn(intr.user)
	}
}

func (m *Mock) SerialBegin(device int, baudrate int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.serialBegun[device] = baudrate
}

func (m *Mock) SerialDataAvailable(device int) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.serialRXQ[device]))
}

func (m *Mock) SerialRead(device int) byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := m.serialRXQ[device]
	if len(q) == 0 {
		return 0
	}
	b := q[0]
	m.serialRXQ[device] = q[1:]
	return b
}

func (m *Mock) SerialWrite(device int, b byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.serialWrites = append(m.serialWrites, SerialActivity{Device: device, Byte: b})
}

func (m *Mock) PinSetMode(pin int, mode PinMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pinMode[pin] = mode
}

func (m *Mock) PinEnablePullup(pin int, enable bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pinPullup[pin] = enable
}

func (m *Mock) DigitalWrite(pin int, val bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.digitalOut[pin] = val
}

func (m *Mock) DigitalRead(pin int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.digitalIn[pin]
}

func (m *Mock) AnalogRead(pin int) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.analogIn[pin]
}

func (m *Mock) PwmWrite(pin int, dutyPercent int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pwmOut[pin] = dutyPercent
}

func (m *Mock) TimerCurrentMs() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clockMs
}

func (m *Mock) AttachExternalInterrupt(interrupt int, mode InterruptMode, fn InterruptFunc, user any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interrupts[interrupt] = mockInterrupt{mode: mode, fn: fn, user: user}
}
