package redistopo

import (
	"sync/atomic"

	"github.com/redmesh/redistopo/redisnodes"
)

// Route binds one registered slot range to its partition and entry.
// A partition with N ranges appears under N keys, all sharing the same
// partition and entry identity.
type Route struct {
	Partition *redisnodes.Partition
	Entry     EntryHandle
}

type routeMap map[redisnodes.SlotRange]*Route

// Store is the authoritative map from slot range to partition, the last
// known good cluster shape. Readers load an immutable snapshot and never
// block; all writes happen on the reconciler goroutine and swap in a
// cloned snapshot atomically.
type Store struct {
	v atomic.Value // routeMap
}

// NewStore returns an empty store.
func NewStore() *Store {
	s := &Store{}
	s.v.Store(routeMap{})
	return s
}

func (s *Store) snapshot() routeMap {
	return s.v.Load().(routeMap)
}

// Lookup returns the partition serving slot. The second result is false
// when no route is registered for it; callers must treat that as "no
// route", not as an empty partition.
func (s *Store) Lookup(slot int) (*redisnodes.Partition, bool) {
	for r, route := range s.snapshot() {
		if r.Contains(slot) {
			return route.Partition, true
		}
	}
	return nil, false
}

// PartitionFor returns the partition registered for exactly r.
func (s *Store) PartitionFor(r redisnodes.SlotRange) (*redisnodes.Partition, bool) {
	route, ok := s.snapshot()[r]
	if !ok {
		return nil, false
	}
	return route.Partition, true
}

// RouteFor returns the full route registered for exactly r.
func (s *Store) RouteFor(r redisnodes.SlotRange) (*Route, bool) {
	route, ok := s.snapshot()[r]
	return route, ok
}

// Ranges returns every registered slot range.
func (s *Store) Ranges() []redisnodes.SlotRange {
	snap := s.snapshot()
	ranges := make([]redisnodes.SlotRange, 0, len(snap))
	for r := range snap {
		ranges = append(ranges, r)
	}
	return ranges
}

// Partitions returns the distinct registered partitions.
func (s *Store) Partitions() []*redisnodes.Partition {
	seen := make(map[*redisnodes.Partition]struct{})
	var parts []*redisnodes.Partition
	for _, route := range s.snapshot() {
		if _, ok := seen[route.Partition]; ok {
			continue
		}
		seen[route.Partition] = struct{}{}
		parts = append(parts, route.Partition)
	}
	return parts
}

// update clones the snapshot, applies mut and swaps the clone in. The
// reconciler is the single writer, so no write lock is needed beyond the
// natural serialization of cycles.
func (s *Store) update(mut func(routeMap)) {
	old := s.snapshot()
	next := make(routeMap, len(old)+1)
	for r, route := range old {
		next[r] = route
	}
	mut(next)
	s.v.Store(next)
}

// add registers p under every range it owns, sharing one route identity.
// Ranges already registered are replaced, not merged: single ownership is
// enforced by replacement.
func (s *Store) add(p *redisnodes.Partition, entry EntryHandle) {
	route := &Route{Partition: p, Entry: entry}
	s.update(func(m routeMap) {
		for _, r := range p.Slots {
			m[r] = route
		}
	})
}

// remove deregisters r and returns its former route, or nil.
func (s *Store) remove(r redisnodes.SlotRange) *Route {
	var removed *Route
	s.update(func(m routeMap) {
		removed = m[r]
		delete(m, r)
	})
	return removed
}

// replaceMaster repoints every range of old's partition at a copy carrying
// the new master address. The entry identity is preserved; readers see
// either the old or the new partition value, never a torn one.
func (s *Store) replaceMaster(old *redisnodes.Partition, addr string) {
	next := old.WithMaster(addr)
	s.update(func(m routeMap) {
		for r, route := range m {
			if route.Partition == old {
				m[r] = &Route{Partition: next, Entry: route.Entry}
			}
		}
	})
}
