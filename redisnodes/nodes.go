package redisnodes

import "strings"

// Flag is one bit of the node flags field of CLUSTER NODES.
type Flag uint16

const (
	// FlagMyself marks the line describing the responding node itself.
	FlagMyself Flag = 1 << iota
	// FlagMaster marks a master node.
	FlagMaster
	// FlagSlave marks a replica; its line carries the master's node id.
	FlagSlave
	// FlagFail marks a node the cluster agrees is down.
	FlagFail
	// FlagFailPossible ("fail?") marks a suspected but unconfirmed failure.
	FlagFailPossible
	// FlagHandshake marks a node still in the gossip handshake.
	FlagHandshake
	// FlagNoAddr marks a node with no usable address. Such nodes carry no
	// ownership information and are dropped before partition aggregation.
	FlagNoAddr
	// FlagNoFailover marks a replica that will not be promoted.
	FlagNoFailover
	// FlagNoFlags is the placeholder flag of an otherwise flagless line.
	FlagNoFlags
)

var flagNames = map[string]Flag{
	"myself":     FlagMyself,
	"master":     FlagMaster,
	"slave":      FlagSlave,
	"fail":       FlagFail,
	"handshake":  FlagHandshake,
	"noaddr":     FlagNoAddr,
	"nofailover": FlagNoFailover,
	"noflags":    FlagNoFlags,
}

// NodeInfo is one parsed line of CLUSTER NODES output.
type NodeInfo struct {
	ID    string
	Addr  string
	Flags Flag
	// MasterID is the replicated master's node id. Empty for masters.
	MasterID string
	// Slots are the ranges this node claims. Non-empty only for masters.
	Slots []SlotRange
}

// HasFlag reports whether f is set.
func (n *NodeInfo) HasFlag(f Flag) bool { return n.Flags&f != 0 }

// IsMaster reports whether the node is not a replica.
func (n *NodeInfo) IsMaster() bool { return n.Flags&FlagSlave == 0 }

// Failed reports a confirmed failure. A "fail?" suspicion does not count.
func (n *NodeInfo) Failed() bool { return n.Flags&FlagFail != 0 }

// ParseNodes parses a CLUSTER NODES response, one node per non-empty line.
// Line order is preserved. Any malformed line fails the whole parse.
func ParseNodes(text string) ([]NodeInfo, error) {
	var nodes []NodeInfo
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		node, err := parseNodeLine(line)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// Line layout: id addr flags slaveOf ping-sent pong-recv epoch link-state [slot ...]
func parseNodeLine(line string) (NodeInfo, error) {
	parts := strings.Split(line, " ")
	if len(parts) < 8 {
		return NodeInfo{}, ErrBadNodeLine.New("expected at least 8 fields, got %d in %q", len(parts), line)
	}

	flags, err := parseFlags(parts[2])
	if err != nil {
		return NodeInfo{}, err
	}

	node := NodeInfo{
		ID:    parts[0],
		Addr:  stripBusPort(parts[1]),
		Flags: flags,
	}
	if parts[3] != "-" {
		node.MasterID = parts[3]
	}

	for _, tok := range parts[8:] {
		if tok == "" {
			continue
		}
		if tok[0] == '[' {
			// migration marker ([slot-<-id] / [slot->-id]), not an ownership claim
			continue
		}
		r, err := ParseSlotToken(tok)
		if err != nil {
			return NodeInfo{}, err
		}
		node.Slots = append(node.Slots, r)
	}
	return node, nil
}

func parseFlags(field string) (Flag, error) {
	var flags Flag
	for _, tok := range strings.Split(field, ",") {
		suspected := strings.HasSuffix(tok, "?")
		tok = strings.TrimSuffix(tok, "?")
		f, ok := flagNames[tok]
		if !ok {
			return 0, ErrUnknownFlag.New("unknown node flag %q", tok)
		}
		if suspected && f == FlagFail {
			f = FlagFailPossible
		}
		flags |= f
	}
	return flags, nil
}

// Newer redis appends the cluster bus port as "ip:port@busport".
func stripBusPort(addr string) string {
	if ix := strings.IndexByte(addr, '@'); ix != -1 {
		return addr[:ix]
	}
	return addr
}
