package crowip

import (
	"context"
	"fmt"
)

type command struct {
	name string
	keys keySequence
}

// Disarm sends the code followed by enter. An empty code is ignored.
func (c *Client) Disarm(code string) {
	keys := disarmSequence(code)
	if keys == nil {
		c.log.Warn("disarm requires a code, ignoring")
		return
	}
	c.enqueue("disarm", keys)
}

// ArmAway sends "code ARM E", falling back to the configured code.
func (c *Client) ArmAway(code string) {
	c.enqueue("arm away", codeSequence(c.codeOr(code), tokenArm))
}

// ArmStay sends "code STAY E", falling back to the configured code.
func (c *Client) ArmStay(code string) {
	c.enqueue("arm stay", codeSequence(c.codeOr(code), tokenStay))
}

// Bypass sends "code BYPASS E", falling back to the configured code.
func (c *Client) Bypass(code string) {
	c.enqueue("bypass", codeSequence(c.codeOr(code), c.cfg.BypassToken))
}

func (c *Client) Panic() {
	c.enqueue("panic", panicSequence())
}

// ToggleOutput flips relay/output n.
func (c *Client) ToggleOutput(n int) {
	keys := outputSequence(n)
	if keys == nil {
		c.log.Warn("invalid output, ignoring", "output", n)
		return
	}
	c.enqueue(fmt.Sprintf("toggle output %d", n), keys)
}

// SendKeypress sends a single raw token, e.g. a code typed after ArmStay.
func (c *Client) SendKeypress(token string) {
	keys := keypressSequence(token)
	if keys == nil {
		return
	}
	c.enqueue("keypress", keys)
}

func (c *Client) codeOr(code string) string {
	if code != "" {
		return code
	}
	return c.cfg.Code
}

func (c *Client) enqueue(name string, keys keySequence) {
	select {
	case c.commands <- command{name: name, keys: keys}:
		c.log.Info("command queued", "cmd", name)
	default:
		c.log.Warn("command queue is full, dropping", "cmd", name)
	}
}

// work drains the command queue one sequence at a time so tokens of
// different commands never interleave.
func (c *Client) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-c.commands:
			if err := c.execute(ctx, cmd); err != nil {
				c.log.Error("command failed", "cmd", cmd.name, "err", err)
			}
		}
	}
}

// execute writes each key of cmd and then waits the token delay. It aborts
// when the client stops or the connection it started on goes away.
func (c *Client) execute(ctx context.Context, cmd command) error {
	conn := c.transport()
	if conn == nil {
		return ErrNotConnected
	}
	for i, key := range cmd.keys {
		if ctx.Err() != nil {
			return fmt.Errorf("aborted after %d of %d keys: %w", i, len(cmd.keys), ctx.Err())
		}
		if c.transport() != conn {
			return fmt.Errorf("aborted after %d of %d keys: %w", i, len(cmd.keys), ErrNotConnected)
		}
		if err := conn.writeLine(key); err != nil {
			return err
		}
		c.log.Debug("tx", "cmd", cmd.name, "key", i+1, "of", len(cmd.keys))
		sleep(ctx, c.cfg.TokenDelay)
	}
	return nil
}
