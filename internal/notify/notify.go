package notify

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultTTL is how long a notification stays visible before it clears itself.
const DefaultTTL = 3000 * time.Millisecond

// Kind classifies a notification for display.
type Kind int

const (
	Success Kind = iota
	Error
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Notification is a transient status message.
type Notification struct {
	Message   string
	Kind      Kind
	CreatedAt time.Time
}

// Subscriber receives the current notification after every change. ok is false once the
// notification has been cleared.
type Subscriber func(n Notification, ok bool)

// Options configures a [Center]. Zero values fall back to the system clock, [DefaultTTL]
// and the default logger.
type Options struct {
	Clock  Clock
	TTL    time.Duration
	Logger *log.Logger
}

// Center holds at most one visible notification and clears it once its TTL elapses.
//
// A newer notification replaces the current one and restarts the countdown; the timer armed for
// the replaced message becomes a no-op.
type Center struct {
	mu          sync.Mutex
	clock       Clock
	ttl         time.Duration
	logger      *log.Logger
	current     *Notification
	generation  uint64
	timer       Timer
	subscribers []Subscriber
	closed      bool
}

// NewCenter creates a notification center.
func NewCenter(opts Options) *Center {
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &Center{clock: opts.Clock, ttl: opts.TTL, logger: opts.Logger}
}

// Notify replaces the current notification and schedules it to clear after the TTL.
// Calls after [Center.Close] are ignored.
func (c *Center) Notify(message string, kind Kind) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	n := Notification{Message: message, Kind: kind, CreatedAt: c.clock.Now()}
	c.current = &n
	c.generation++
	gen := c.generation

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = c.clock.AfterFunc(c.ttl, func() { c.expire(gen) })
	subs := c.snapshot()
	c.mu.Unlock()

	c.logger.Debug("notification", "kind", kind, "message", message)
	publish(subs, n, true)
}

// Success posts a success notification.
func (c *Center) Success(message string) { c.Notify(message, Success) }

// Error posts an error notification.
func (c *Center) Error(message string) { c.Notify(message, Error) }

// Clear removes the current notification immediately.
func (c *Center) Clear() {
	c.mu.Lock()
	if c.closed || c.current == nil {
		c.mu.Unlock()
		return
	}
	c.clearLocked()
	subs := c.snapshot()
	c.mu.Unlock()

	publish(subs, Notification{}, false)
}

// Current returns the visible notification, if any.
func (c *Center) Current() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return Notification{}, false
	}
	return *c.current, true
}

// Subscribe registers fn to be called after every change to the current notification.
// Callbacks run outside the center's lock, on the goroutine that caused the change.
func (c *Center) Subscribe(fn Subscriber) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

// Close stops the pending timer. Subscribers are not notified of anything afterwards.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.closed = true
	c.subscribers = nil
}

func (c *Center) expire(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.generation || c.current == nil {
		c.mu.Unlock()
		return
	}
	c.clearLocked()
	subs := c.snapshot()
	c.mu.Unlock()

	publish(subs, Notification{}, false)
}

func (c *Center) clearLocked() {
	c.current = nil
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Center) snapshot() []Subscriber {
	subs := make([]Subscriber, len(c.subscribers))
	copy(subs, c.subscribers)
	return subs
}

func publish(subs []Subscriber, n Notification, ok bool) {
	for _, fn := range subs {
		fn(n, ok)
	}
}
