package redisctl

import (
	"bufio"
	"net"
	"strconv"
	"time"
)

// DefaultTimeout bounds dial and per-command io when Opts.Timeout is zero.
var DefaultTimeout = 5 * time.Second

// Opts configures control connections.
type Opts struct {
	// Timeout bounds the dial and every command round-trip.
	Timeout time.Duration
	// Password for AUTH on dial. Empty means no AUTH.
	Password string
	// DB to SELECT on dial.
	DB int
	// ClientName for CLIENT SETNAME on dial. Empty means no name is set.
	ClientName string
}

// Conn is a synchronous control connection to one node. It runs only
// cluster introspection commands and is not pooled; the data path uses
// its own connections.
type Conn struct {
	addr string
	opts Opts
	c    net.Conn
	r    *bufio.Reader
}

// Dial connects to addr and performs connection setup (AUTH, SELECT,
// CLIENT SETNAME) as configured.
func Dial(addr string, opts Opts) (*Conn, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	c, err := net.DialTimeout("tcp", addr, opts.Timeout)
	if err != nil {
		return nil, ErrDial.Wrap(err, "could not connect to %s", addr)
	}
	conn := &Conn{addr: addr, opts: opts, c: c, r: bufio.NewReader(c)}
	if err := conn.setup(); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func (c *Conn) setup() error {
	if c.opts.Password != "" {
		if _, err := c.Do("AUTH", c.opts.Password); err != nil {
			return ErrAuth.Wrap(err, "auth failed on %s", c.addr)
		}
	}
	if c.opts.DB != 0 {
		if _, err := c.Do("SELECT", strconv.Itoa(c.opts.DB)); err != nil {
			return err
		}
	}
	if c.opts.ClientName != "" {
		if _, err := c.Do("CLIENT", "SETNAME", c.opts.ClientName); err != nil {
			return err
		}
	}
	return nil
}

// Addr is the node address this connection talks to.
func (c *Conn) Addr() string { return c.addr }

// Do executes one command and returns the decoded reply.
// Any transport error closes the connection; there is no reconnect here,
// callers evict and redial on the next fetch.
func (c *Conn) Do(cmd string, args ...string) (interface{}, error) {
	if c.c == nil {
		return nil, ErrClosed.New("connection to %s is closed", c.addr)
	}
	c.c.SetDeadline(time.Now().Add(c.opts.Timeout))
	if _, err := c.c.Write(appendCommand(nil, cmd, args...)); err != nil {
		c.Close()
		return nil, ErrIO.Wrap(err, "write to %s failed", c.addr)
	}
	res, err := readResponse(c.r)
	if err != nil {
		c.Close()
		return nil, err
	}
	return res, nil
}

// Close is idempotent.
func (c *Conn) Close() {
	if c.c != nil {
		c.c.Close()
		c.c = nil
		c.r = nil
	}
}
