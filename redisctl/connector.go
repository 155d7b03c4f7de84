package redisctl

import (
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Connector caches one control connection per node address. It is shared
// between bootstrap and every reconciliation cycle; entries are added as
// new nodes appear and reused until evicted or the connector closes.
type Connector struct {
	opts Opts

	mu     sync.Mutex
	conns  map[string]*Conn
	closed bool
}

// NewConnector returns a connector that dials with opts. Connections get a
// generated client name when none is configured, so control traffic is
// identifiable in CLIENT LIST.
func NewConnector(opts Opts) *Connector {
	if opts.ClientName == "" {
		opts.ClientName = "redistopo-" + uuid.New().String()
	}
	return &Connector{opts: opts, conns: make(map[string]*Conn)}
}

// Connect returns the cached connection to addr, dialing on first use.
// A failed dial is logged and reported as unavailable; callers treat that
// as "try the next candidate", never as fatal.
func (cr *Connector) Connect(addr string) (*Conn, bool) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	if cr.closed {
		return nil, false
	}
	if conn, ok := cr.conns[addr]; ok {
		return conn, true
	}
	conn, err := Dial(addr, cr.opts)
	if err != nil {
		log.WithFields(log.Fields{"addr": addr, "error": err}).Warn("control connection failed")
		return nil, false
	}
	cr.conns[addr] = conn
	return conn, true
}

// Evict drops the cached connection for addr. Called after a command fails
// on it, so the next fetch redials instead of reusing a dead socket.
func (cr *Connector) Evict(addr string) {
	cr.mu.Lock()
	if conn, ok := cr.conns[addr]; ok {
		delete(cr.conns, addr)
		conn.Close()
	}
	cr.mu.Unlock()
}

// Close closes every cached connection. Idempotent; Connect refuses new
// dials afterwards.
func (cr *Connector) Close() {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	if cr.closed {
		return
	}
	cr.closed = true
	for addr, conn := range cr.conns {
		conn.Close()
		delete(cr.conns, addr)
	}
}
