package redisnodes

import "sort"

// Partition is the routing unit: one master, its replicas and the slot
// ranges they serve, as seen in a single topology fetch. Built values are
// not mutated afterwards; a master change produces a copy via WithMaster.
type Partition struct {
	MasterAddr string
	SlaveAddrs []string
	Slots      []SlotRange
	MasterFail bool
}

// WithMaster returns a copy of p routed at a different master address.
func (p *Partition) WithMaster(addr string) *Partition {
	cp := *p
	cp.MasterAddr = addr
	return &cp
}

// BuildPartitions aggregates node records into one partition per master.
// Records group by master identity: a master's own id, a replica's MasterID.
// Replica lines may precede their master line, so groups are created on
// first sight regardless of role. NOADDR nodes are dropped entirely.
func BuildPartitions(nodes []NodeInfo) []*Partition {
	byID := make(map[string]*Partition)
	var order []string
	group := func(id string) *Partition {
		p, ok := byID[id]
		if !ok {
			p = &Partition{}
			byID[id] = p
			order = append(order, id)
		}
		return p
	}

	for i := range nodes {
		n := &nodes[i]
		if n.HasFlag(FlagNoAddr) {
			continue
		}
		if n.IsMaster() {
			p := group(n.ID)
			p.MasterAddr = n.Addr
			p.Slots = append(p.Slots, n.Slots...)
			if n.Failed() {
				p.MasterFail = true
			}
		} else {
			p := group(n.MasterID)
			p.SlaveAddrs = append(p.SlaveAddrs, n.Addr)
		}
	}

	parts := make([]*Partition, 0, len(order))
	for _, id := range order {
		p := byID[id]
		sort.Slice(p.Slots, func(i, j int) bool { return p.Slots[i].From < p.Slots[j].From })
		sort.Strings(p.SlaveAddrs)
		parts = append(parts, p)
	}
	return parts
}

// RangeIndex maps every claimed slot range to its partition.
func RangeIndex(parts []*Partition) map[SlotRange]*Partition {
	index := make(map[SlotRange]*Partition)
	for _, p := range parts {
		for _, r := range p.Slots {
			index[r] = p
		}
	}
	return index
}
