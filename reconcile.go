package redistopo

import (
	"time"

	"github.com/redmesh/redistopo/redisnodes"
)

// monitor runs reconciliation on a fixed delay: the timer restarts only
// after a cycle completes, so cycles serialize and an overrunning cycle
// pushes the next one back instead of piling up.
func (m *Manager) monitor() {
	defer close(m.done)
	t := time.NewTimer(m.opts.ScanInterval)
	defer t.Stop()
	for {
		select {
		case <-m.ctx.Done():
			m.report(LogContextClosed{Error: m.ctx.Err()})
			return
		case <-t.C:
		}
		m.runCycle()
		t.Reset(m.opts.ScanInterval)
	}
}

// runCycle executes one reconciliation pass. Nothing may escape to the
// scheduler: a failed or panicking cycle is logged and abandoned, and the
// next tick proceeds as if it never happened.
func (m *Manager) runCycle() {
	defer func() {
		if r := recover(); r != nil {
			cycleErrorsTotal.Inc()
			m.report(LogCycleError{Recovered: r})
		}
	}()
	cyclesTotal.Inc()
	if err := m.reconcile(); err != nil {
		cycleErrorsTotal.Inc()
		m.report(LogCycleSkipped{Error: err})
	}
}

// reconcile fetches a fresh topology view and applies master-failover and
// slot-membership changes to the store. A failed fetch leaves the store
// untouched: an unreachable cluster is not an empty cluster.
func (m *Manager) reconcile() error {
	parts, err := m.fetchPartitions()
	if err != nil {
		return err
	}
	m.checkMastersChange(parts)
	m.checkSlotsChange(parts)
	return nil
}

// checkMastersChange detects confirmed failovers: a known master now
// reported FAIL whose slot ranges are claimed by a different address.
// Old and new snapshots are matched by master address, not node id,
// because a failed-over node may already be gone from CLUSTER NODES
// output entirely.
func (m *Manager) checkMastersChange(parts []*redisnodes.Partition) {
	index := redisnodes.RangeIndex(parts)
	for _, np := range parts {
		if !np.MasterFail {
			continue
		}
		for _, cp := range m.store.Partitions() {
			if cp.MasterAddr != np.MasterAddr {
				continue
			}
			m.failover(cp, index)
			break
		}
	}
}

// failover repoints every range of the failed partition that has a new
// claimant. The old master address becomes a down replica reference: the
// demoted node may still come back as a replica.
func (m *Manager) failover(cp *redisnodes.Partition, index map[redisnodes.SlotRange]*redisnodes.Partition) {
	oldAddr := cp.MasterAddr
	var newAddr string
	for _, rng := range cp.Slots {
		cand := index[rng]
		if cand == nil || cand.MasterAddr == oldAddr {
			// nobody claims this exact range (failover bundled with a
			// reshard); the membership diff converges it instead
			continue
		}
		route, ok := m.store.RouteFor(rng)
		if !ok {
			continue
		}
		route.Entry.ChangeMaster(cand.MasterAddr)
		route.Entry.SlaveDown(oldAddr)
		failoversTotal.Inc()
		m.report(LogMasterChanged{Range: rng, OldAddr: oldAddr, NewAddr: cand.MasterAddr})
		newAddr = cand.MasterAddr
	}
	if newAddr != "" {
		m.store.replaceMaster(cp, newAddr)
	}
}

// checkSlotsChange diffs the candidate set's ranges against the store.
// Vanished ranges are deregistered and their entries drained; new ranges
// get an entry through addMaster, at most once per candidate partition.
func (m *Manager) checkSlotsChange(parts []*redisnodes.Partition) {
	index := redisnodes.RangeIndex(parts)

	var removed []*Route
	for _, rng := range m.store.Ranges() {
		if _, ok := index[rng]; ok {
			continue
		}
		route := m.store.remove(rng)
		if route == nil {
			continue
		}
		route.Entry.ShutdownAsync()
		removed = append(removed, route)
		rangesRemovedTotal.Inc()
		m.report(LogRangeRemoved{Range: rng, MasterAddr: route.Entry.MasterAddress()})
	}

	added := make(map[*redisnodes.Partition]struct{})
	for rng, p := range index {
		if _, ok := m.store.RouteFor(rng); ok {
			continue
		}
		if _, ok := added[p]; ok {
			continue
		}
		added[p] = struct{}{}
		m.addMaster(p)
	}

	for _, route := range removed {
		route.Entry.SlaveDown(route.Entry.MasterAddress())
	}
}
