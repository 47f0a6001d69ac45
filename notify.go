package crowip

import (
	"context"
	"sync"
)

type notification struct {
	kind   notificationKind
	zone   Zone
	area   Area
	output Output
	system SystemState
	err    error
}

type notificationKind uint8

const (
	notifyZone notificationKind = iota
	notifyArea
	notifyOutput
	notifySystem
	notifyConnected
	notifyConnectionFailed
)

// notifier fans state changes out to subscribers on its own goroutine. The
// queue is unbounded so publishers never block; delivery is FIFO.
type notifier struct {
	mu    sync.Mutex
	queue []notification
	wake  chan struct{}

	zone      []func(Zone)
	area      []func(Area)
	output    []func(Output)
	system    []func(SystemState)
	connected []func()
	failed    []func(error)
}

func newNotifier() *notifier {
	return &notifier{
		wake: make(chan struct{}, 1),
	}
}

func (n *notifier) publish(evt notification) {
	n.mu.Lock()
	n.queue = append(n.queue, evt)
	n.mu.Unlock()

	select {
	case n.wake <- struct{}{}:
	default:
	}
}

func (n *notifier) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-n.wake:
		}

		for {
			n.mu.Lock()
			if len(n.queue) == 0 {
				n.mu.Unlock()
				break
			}
			evt := n.queue[0]
			n.queue[0] = notification{}
			n.queue = n.queue[1:]
			n.mu.Unlock()

			n.deliver(evt)
		}
	}
}

func (n *notifier) deliver(evt notification) {
	n.mu.Lock()
	var fns []func()
	switch evt.kind {
	case notifyZone:
		for _, fn := range n.zone {
			fns = append(fns, func() { fn(evt.zone) })
		}
	case notifyArea:
		for _, fn := range n.area {
			fns = append(fns, func() { fn(evt.area) })
		}
	case notifyOutput:
		for _, fn := range n.output {
			fns = append(fns, func() { fn(evt.output) })
		}
	case notifySystem:
		for _, fn := range n.system {
			fns = append(fns, func() { fn(evt.system) })
		}
	case notifyConnected:
		fns = append(fns, n.connected...)
	case notifyConnectionFailed:
		for _, fn := range n.failed {
			fns = append(fns, func() { fn(evt.err) })
		}
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// OnZoneChange registers fn to be called with a snapshot of every zone
// whose state changed.
func (c *Client) OnZoneChange(fn func(Zone)) {
	c.notifier.mu.Lock()
	defer c.notifier.mu.Unlock()
	c.notifier.zone = append(c.notifier.zone, fn)
}

// OnAreaChange registers fn to be called with a snapshot of every area
// whose state changed.
func (c *Client) OnAreaChange(fn func(Area)) {
	c.notifier.mu.Lock()
	defer c.notifier.mu.Unlock()
	c.notifier.area = append(c.notifier.area, fn)
}

// OnOutputChange registers fn to be called with a snapshot of every output
// whose state changed.
func (c *Client) OnOutputChange(fn func(Output)) {
	c.notifier.mu.Lock()
	defer c.notifier.mu.Unlock()
	c.notifier.output = append(c.notifier.output, fn)
}

// OnSystemChange registers fn to be called with the whole system state
// whenever any health flag changes.
func (c *Client) OnSystemChange(fn func(SystemState)) {
	c.notifier.mu.Lock()
	defer c.notifier.mu.Unlock()
	c.notifier.system = append(c.notifier.system, fn)
}

// OnConnected registers fn to be called every time a connection to the
// panel is established.
func (c *Client) OnConnected(fn func()) {
	c.notifier.mu.Lock()
	defer c.notifier.mu.Unlock()
	c.notifier.connected = append(c.notifier.connected, fn)
}

// OnConnectionFailed registers fn to be called when connecting fails or an
// established connection is lost.
func (c *Client) OnConnectionFailed(fn func(error)) {
	c.notifier.mu.Lock()
	defer c.notifier.mu.Unlock()
	c.notifier.failed = append(c.notifier.failed, fn)
}
