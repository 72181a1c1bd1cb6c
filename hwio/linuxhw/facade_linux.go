// Package linuxhw implements hwio.HardwareFacade against real Linux tty
// devices. Port (port_linux.go) does the raw termios/ioctl plumbing;
// Facade adapts its blocking read()-oriented interface into the
// poll-style dataAvailable()/read() shape HardwareFacade requires.
//
// Everything outside Serial (pins, analog, PWM, external interrupts)
// has no meaning on a plain Linux host and is a logged no-op; see
// DESIGN.md for why that is a *log.Logger* trace rather than a literal
// error return (HardwareFacade's methods carry no error channel).
package linuxhw

import (
	"log"
	"sync"
	"time"

	"github.com/ucflo/microflo/hwio"
)

var _ hwio.HardwareFacade = (*Facade)(nil)

// Option configures a Facade at construction.
type Option func(*Facade)

// WithLogger attaches l for tracing unsupported-capability calls and
// background reader errors. Without one, those conditions are silent,
// matching Mock's behavior of just returning zero values.
func WithLogger(l *log.Logger) Option {
	return func(f *Facade) { f.logger = l }
}

type device struct {
	port *Port
	rxq  []byte
	stop chan struct{}
	done chan struct{}
}

// Facade is a HardwareFacade backed by real serial devices. A device
// number must be bound to an actual tty via Register before any
// Serial* call referencing it will do anything.
type Facade struct {
	mu      sync.Mutex
	devices map[int]*device
	logger  *log.Logger
	epoch   time.Time
}

// New returns a Facade with no devices registered yet.
func New(opts ...Option) *Facade {
	f := &Facade{devices: make(map[int]*device), epoch: time.Now()}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Register opens name and binds it to device, so that subsequent
// SerialBegin/SerialDataAvailable/SerialRead/SerialWrite calls against
// that device number reach it. A background goroutine drains the port
// into an in-memory queue so SerialDataAvailable/SerialRead can be
// polled the way a component expects, rather than blocking the
// dispatcher on a real read() the way the underlying fd would.
func (f *Facade) Register(dev int, name string, opts *Options) error {
	p, err := Open(name, opts)
	if err != nil {
		return err
	}
	d := &device{port: p, stop: make(chan struct{}), done: make(chan struct{})}
	f.mu.Lock()
	f.devices[dev] = d
	f.mu.Unlock()
	go f.pump(dev, d)
	return nil
}

// pump blocks on reads from d's port and appends whatever arrives to
// its queue, until stop is closed or the port errors out (e.g. because
// Close ran).
func (f *Facade) pump(dev int, d *device) {
	defer close(d.done)
	buf := make([]byte, 256)
	for {
		select {
		case <-d.stop:
			return
		default:
		}
		n, err := d.port.Read(buf)
		if err != nil {
			select {
			case <-d.stop:
			default:
				f.logf("linuxhw: device %d reader: %v", dev, err)
			}
			return
		}
		if n == 0 {
			continue
		}
		f.mu.Lock()
		d.rxq = append(d.rxq, buf[:n]...)
		f.mu.Unlock()
	}
}

func (f *Facade) logf(format string, args ...any) {
	if f.logger != nil {
		f.logger.Printf(format, args...)
	}
}

func (f *Facade) SerialBegin(dev int, baudrate int) {
	f.mu.Lock()
	d := f.devices[dev]
	f.mu.Unlock()
	if d == nil {
		f.logf("linuxhw: SerialBegin(%d): device not registered", dev)
		return
	}
	if err := d.port.MakeRaw(); err != nil {
		f.logf("linuxhw: SerialBegin(%d): MakeRaw: %v", dev, err)
		return
	}
	if err := d.port.SetSpeed(baudrate); err != nil {
		f.logf("linuxhw: SerialBegin(%d): SetSpeed(%d): %v", dev, baudrate, err)
	}
}

func (f *Facade) SerialDataAvailable(dev int) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := f.devices[dev]
	if d == nil {
		return 0
	}
	return int64(len(d.rxq))
}

func (f *Facade) SerialRead(dev int) byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := f.devices[dev]
	if d == nil || len(d.rxq) == 0 {
		return 0
	}
	b := d.rxq[0]
	d.rxq = d.rxq[1:]
	return b
}

func (f *Facade) SerialWrite(dev int, b byte) {
	f.mu.Lock()
	d := f.devices[dev]
	f.mu.Unlock()
	if d == nil {
		f.logf("linuxhw: SerialWrite(%d): device not registered", dev)
		return
	}
	if _, err := d.port.Write([]byte{b}); err != nil {
		f.logf("linuxhw: SerialWrite(%d): %v", dev, err)
	}
}

// PinSetMode, PinEnablePullup, DigitalWrite, DigitalRead, AnalogRead,
// PwmWrite and AttachExternalInterrupt have no GPIO controller behind
// them on a plain Linux host. Each traces hwio.ErrUnsupported through
// the logger, if one was configured, and otherwise behaves like Mock's
// zero-valued stubs.

func (f *Facade) PinSetMode(pin int, mode hwio.PinMode) {
	f.logf("linuxhw: PinSetMode(%d): %v", pin, hwio.ErrUnsupported)
}

func (f *Facade) PinEnablePullup(pin int, enable bool) {
	f.logf("linuxhw: PinEnablePullup(%d): %v", pin, hwio.ErrUnsupported)
}

func (f *Facade) DigitalWrite(pin int, val bool) {
	f.logf("linuxhw: DigitalWrite(%d): %v", pin, hwio.ErrUnsupported)
}

func (f *Facade) DigitalRead(pin int) bool {
	f.logf("linuxhw: DigitalRead(%d): %v", pin, hwio.ErrUnsupported)
	return false
}

func (f *Facade) AnalogRead(pin int) int64 {
	f.logf("linuxhw: AnalogRead(%d): %v", pin, hwio.ErrUnsupported)
	return 0
}

func (f *Facade) PwmWrite(pin int, dutyPercent int64) {
	f.logf("linuxhw: PwmWrite(%d): %v", pin, hwio.ErrUnsupported)
}

func (f *Facade) AttachExternalInterrupt(interrupt int, mode hwio.InterruptMode, fn hwio.InterruptFunc, user any) {
	f.logf("linuxhw: AttachExternalInterrupt(%d): %v", interrupt, hwio.ErrUnsupported)
}

// TimerCurrentMs is backed by the monotonic wall clock rather than an
// MCU's free-running counter; it's still monotonic with 1ms resolution
// (elapsed time is truncated to whole milliseconds), which is all a
// caller can rely on.
func (f *Facade) TimerCurrentMs() int64 {
	return time.Since(f.epoch).Milliseconds()
}

// Close stops every registered device's background reader and closes
// its port.
func (f *Facade) Close() error {
	f.mu.Lock()
	devices := make([]*device, 0, len(f.devices))
	for _, d := range f.devices {
		devices = append(devices, d)
	}
	f.mu.Unlock()

	var firstErr error
	for _, d := range devices {
		close(d.stop)
		err := d.port.Close()
		<-d.done
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
