package crowip

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"
	"unicode"

	"golang.org/x/text/encoding/charmap"
)

// errIdle is returned by readLine when no line arrived within the idle
// timeout. The connection is still usable.
var errIdle = errors.New("idle timeout")

type transport struct {
	conn    net.Conn
	reader  *bufio.Reader
	partial []byte

	wmu sync.Mutex
}

func dial(ctx context.Context, addr string, timeout time.Duration) (*transport, error) {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, fmt.Errorf("could not connect to %s: %w: %w", addr, ErrTimeout, err)
		}
		return nil, fmt.Errorf("could not connect to %s: %w", addr, err)
	}
	return &transport{
		conn:   conn,
		reader: bufio.NewReader(conn),
	}, nil
}

// readLine blocks until a full line arrives or idle elapses. Only one
// goroutine may read at a time.
func (t *transport) readLine(idle time.Duration) (string, error) {
	if err := t.conn.SetReadDeadline(time.Now().Add(idle)); err != nil {
		return "", fmt.Errorf("could not set read deadline: %w", err)
	}
	b, err := t.reader.ReadBytes('\n')
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			t.partial = append(t.partial, b...)
			return "", errIdle
		}
		return "", err
	}
	if len(t.partial) > 0 {
		b = append(t.partial, b...)
		t.partial = nil
	}
	return decodeLine(b), nil
}

func (t *transport) writeLine(token string) error {
	t.wmu.Lock()
	defer t.wmu.Unlock()
	if err := t.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("could not set write deadline: %w", err)
	}
	if _, err := t.conn.Write([]byte(token + "\r\n")); err != nil {
		return fmt.Errorf("could not write %q: %w", token, err)
	}
	return nil
}

func (t *transport) close() error {
	return t.conn.Close()
}

// decodeLine reads b as latin-1, which never fails, and drops control
// characters including the line terminator.
func decodeLine(b []byte) string {
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		s = b
	}
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, string(s)))
}
