package crowip

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	logp "github.com/charmbracelet/log"
	"github.com/j-keck/arping"
)

var log = logp.NewWithOptions(os.Stderr, logp.Options{
	ReportTimestamp: true,
	TimeFormat:      time.Kitchen,
	Prefix:          "crowip",
})

const writeTimeout = 5 * time.Second

const (
	DefaultPort        = 5002
	DefaultKeepAlive   = 60 * time.Second
	DefaultTimeout     = 10 * time.Second
	DefaultRetryDelay  = 10 * time.Second
	DefaultIdleGrace   = 10 * time.Second
	DefaultStatusDelay = 500 * time.Millisecond
	DefaultTokenDelay  = 700 * time.Millisecond
	DefaultQueueSize   = 16
)

var (
	ErrEmptyHost    = errors.New("host is required")
	ErrTimeout      = errors.New("timed out")
	ErrNotConnected = errors.New("not connected")
)

type Config struct {
	Host string
	Port int

	// Code is used by arm and bypass commands when no code is given.
	Code string

	// KeepAlive is the expected panel chatter interval. After KeepAlive plus
	// IdleGrace without a line, a status request is sent.
	KeepAlive   time.Duration
	IdleGrace   time.Duration
	Timeout     time.Duration
	RetryDelay  time.Duration
	StatusDelay time.Duration
	TokenDelay  time.Duration

	// BypassToken is the key sent between the code and enter on Bypass.
	BypassToken string
	QueueSize   int

	Logger *logp.Logger
}

func (cfg Config) withDefaults() Config {
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = DefaultKeepAlive
	}
	if cfg.IdleGrace <= 0 {
		cfg.IdleGrace = DefaultIdleGrace
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.StatusDelay <= 0 {
		cfg.StatusDelay = DefaultStatusDelay
	}
	if cfg.TokenDelay <= 0 {
		cfg.TokenDelay = DefaultTokenDelay
	}
	if cfg.BypassToken == "" {
		cfg.BypassToken = tokenBypass
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.Logger == nil {
		cfg.Logger = log
	}
	return cfg
}

type ConnState uint8

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
	StateStopped
)

func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnecting:
		return "Connecting"
	case StateConnected:
		return "Connected"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Client keeps a connection to a Crow/AAP IP module, mirrors the panel
// state reported over it and sends keypad commands.
type Client struct {
	cfg      Config
	addr     string
	log      *logp.Logger
	store    *Store
	notifier *notifier
	commands chan command

	mu      sync.Mutex
	conn    *transport
	state   ConnState
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func New(cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, ErrEmptyHost
	}
	cfg = cfg.withDefaults()
	return &Client{
		cfg:      cfg,
		addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		log:      cfg.Logger,
		store:    NewStore(),
		notifier: newNotifier(),
		commands: make(chan command, cfg.QueueSize),
		done:     make(chan struct{}),
	}, nil
}

func MacAddress(ip string) (string, error) {
	hw, _, err := arping.Ping(net.ParseIP(ip))
	if err != nil {
		return "", fmt.Errorf("could not get the mac address: %w", err)
	}
	return hw.String(), nil
}

// Start connects in the background and keeps reconnecting until Stop.
func (c *Client) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started || c.state == StateStopped {
		return
	}
	c.started = true

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.notifier.run(ctx)
	go c.work(ctx)
	go c.run(ctx)
}

// Stop closes the connection and cancels any reconnect. Commands still in
// flight are aborted before their next key. It is safe to call more than
// once and from notification callbacks.
func (c *Client) Stop() {
	c.mu.Lock()
	if c.state == StateStopped {
		c.mu.Unlock()
		if c.started {
			<-c.done
		}
		return
	}
	c.state = StateStopped
	if !c.started {
		c.mu.Unlock()
		return
	}
	c.cancel()
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		_ = conn.close()
	}
	<-c.done
	c.log.Info("stopped")
}

func (c *Client) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) Area(n int) Area     { return c.store.Area(n) }
func (c *Client) Zone(n int) Zone     { return c.store.Zone(n) }
func (c *Client) Output(n int) Output { return c.store.Output(n) }
func (c *Client) System() SystemState { return c.store.System() }
func (c *Client) Areas() []Area       { return c.store.Areas() }
func (c *Client) Zones() []Zone       { return c.store.Zones() }
func (c *Client) Outputs() []Output   { return c.store.Outputs() }

func (c *Client) transport() *transport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

func (c *Client) setState(state ConnState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setStateLocked(state)
}

func (c *Client) setStateLocked(state ConnState) {
	if c.state != StateStopped {
		c.state = state
	}
}

func (c *Client) run(ctx context.Context) {
	defer close(c.done)
	retry := backoff.WithContext(backoff.NewConstantBackOff(c.cfg.RetryDelay), ctx)

	for {
		c.setState(StateConnecting)
		c.log.Info("connecting", "addr", c.addr)

		conn, err := dial(ctx, c.addr, c.cfg.Timeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.setState(StateDisconnected)
			c.log.Warn("connection failed", "err", err, "retry", c.cfg.RetryDelay)
			c.notifier.publish(notification{kind: notifyConnectionFailed, err: err})
		} else {
			err := c.session(ctx, conn)
			c.detach(conn)
			if ctx.Err() != nil {
				return
			}
			c.log.Warn("connection lost", "err", err, "retry", c.cfg.RetryDelay)
			c.notifier.publish(notification{kind: notifyConnectionFailed, err: err})
		}

		next := retry.NextBackOff()
		if next == backoff.Stop || !sleep(ctx, next) {
			return
		}
	}
}

// session runs the read loop of one connection until it fails or the
// client stops.
func (c *Client) session(ctx context.Context, conn *transport) error {
	if !c.attach(conn) {
		return ctx.Err()
	}
	c.log.Info("connected", "addr", c.addr)
	c.notifier.publish(notification{kind: notifyConnected})

	if err := c.requestStatus(conn); err != nil {
		return err
	}
	if !sleep(ctx, c.cfg.StatusDelay) {
		return ctx.Err()
	}

	idle := c.cfg.KeepAlive + c.cfg.IdleGrace
	for {
		line, err := conn.readLine(idle)
		if errors.Is(err, errIdle) {
			c.log.Debug("panel is quiet, requesting status", "idle", idle)
			if err := c.requestStatus(conn); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("could not read from panel: %w", err)
		}
		c.handleLine(line)
	}
}

func (c *Client) requestStatus(conn *transport) error {
	c.log.Debug("tx", "line", tokenStatus)
	return conn.writeLine(tokenStatus)
}

func (c *Client) attach(conn *transport) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateStopped {
		_ = conn.close()
		return false
	}
	c.conn = conn
	c.state = StateConnected
	return true
}

func (c *Client) detach(conn *transport) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.setStateLocked(StateDisconnected)
	c.mu.Unlock()
	_ = conn.close()
}

func (c *Client) handleLine(line string) {
	if line == "" {
		return
	}
	c.log.Debug("rx", "line", line)

	for _, evt := range Parse(line) {
		snapshot, changed := c.store.Apply(evt)
		if !changed {
			continue
		}
		switch v := snapshot.(type) {
		case Zone:
			c.log.Debug("zone changed", "zone", v.Number, "open", v.Open, "alarm", v.Alarm, "tamper", v.Tamper)
			c.notifier.publish(notification{kind: notifyZone, zone: v})
		case Area:
			c.log.Debug("area changed", "area", v.Number, "state", v.State)
			c.notifier.publish(notification{kind: notifyArea, area: v})
		case Output:
			c.log.Debug("output changed", "output", v.Number, "open", v.Open)
			c.notifier.publish(notification{kind: notifyOutput, output: v})
		case SystemState:
			c.log.Debug("system changed", "status", fmt.Sprintf("%+v", v))
			c.notifier.publish(notification{kind: notifySystem, system: v})
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
