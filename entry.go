package redistopo

import "github.com/redmesh/redistopo/redisnodes"

// EntryHandle is one per-partition connection-pool group, owned by the
// surrounding client. The reconciler drives its lifecycle but never waits
// on it: shutdown and down-marking are fire-and-forget. Implementations
// must tolerate repeated ShutdownAsync and SlaveDown calls.
type EntryHandle interface {
	// MasterAddress returns the address the entry currently routes writes to.
	MasterAddress() string
	// ChangeMaster repoints the entry at a newly promoted master.
	ChangeMaster(addr string)
	// SlaveDown marks addr as an unavailable replica reference.
	SlaveDown(addr string)
	// ShutdownAsync starts draining the entry's pools without blocking.
	ShutdownAsync()
}

// EntryFactory creates connection-pool entries for newly discovered
// partitions. cfg carries every cluster-wide pool setting with the
// partition's master address substituted in.
type EntryFactory interface {
	CreateEntry(slots []redisnodes.SlotRange, cfg RoutingConfig) (EntryHandle, error)
}
