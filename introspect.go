package redistopo

import (
	"github.com/redmesh/redistopo/redisctl"
	"github.com/redmesh/redistopo/redisnodes"
)

// Introspector executes the two cluster introspection commands against a
// node address. An unreachable node must surface as an error, never as an
// empty topology.
type Introspector interface {
	ClusterNodes(addr string) (string, error)
	ClusterInfo(addr string) (map[string]string, error)
	Close()
}

// ctlIntrospector runs introspection over cached control connections.
type ctlIntrospector struct {
	connector *redisctl.Connector
}

func newCtlIntrospector(opts *Opts) *ctlIntrospector {
	return &ctlIntrospector{connector: redisctl.NewConnector(redisctl.Opts{
		Timeout:    opts.Timeout,
		Password:   opts.Password,
		DB:         opts.DB,
		ClientName: opts.ClientName,
	})}
}

func (ci *ctlIntrospector) do(addr, cmd string, args ...string) ([]byte, error) {
	conn, ok := ci.connector.Connect(addr)
	if !ok {
		return nil, ErrNodeUnavailable.New("no control connection to %s", addr)
	}
	res, err := conn.Do(cmd, args...)
	if err != nil {
		// the cached connection may have died silently; drop it so the
		// next fetch redials instead of failing on the same socket
		ci.connector.Evict(addr)
		return nil, err
	}
	b, ok := res.([]byte)
	if !ok {
		return nil, ErrUnexpectedResponse.New("%s %v returned %T", cmd, args, res)
	}
	return b, nil
}

func (ci *ctlIntrospector) ClusterNodes(addr string) (string, error) {
	b, err := ci.do(addr, "CLUSTER", "NODES")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (ci *ctlIntrospector) ClusterInfo(addr string) (map[string]string, error) {
	b, err := ci.do(addr, "CLUSTER", "INFO")
	if err != nil {
		return nil, err
	}
	return redisnodes.ParseInfo(string(b)), nil
}

func (ci *ctlIntrospector) Close() {
	ci.connector.Close()
}
