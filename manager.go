package redistopo

import (
	"context"
	"strings"
	"sync"

	"github.com/redmesh/redistopo/redisnodes"
)

// Manager owns the cluster topology: it bootstraps the slot-range map from
// seed nodes, keeps it current in the background and drives the lifecycle
// of the external partition entries.
type Manager struct {
	ctx    context.Context
	cancel context.CancelFunc

	seeds   []string
	opts    Opts
	factory EntryFactory
	intro   Introspector
	store   *Store

	done      chan struct{}
	closeOnce sync.Once
}

// New discovers the cluster through the first usable seed, registers the
// partitions it reports and starts the background reconciler. It fails
// when no seed yields a topology: a client without a cluster contact
// point cannot start.
func New(ctx context.Context, seeds []string, factory EntryFactory, opts Opts) (*Manager, error) {
	if ctx == nil {
		return nil, ErrContextIsNil.New("context should not be nil")
	}
	if len(seeds) == 0 {
		return nil, ErrNoSeedsProvided.New("no seed addresses given")
	}
	if factory == nil {
		return nil, ErrNoEntryFactory.New("no partition entry factory given")
	}

	if opts.Logger == nil {
		opts.Logger = DefaultLogger{}
	}
	if opts.ScanInterval <= 0 {
		opts.ScanInterval = defaultScanInterval
	} else if opts.ScanInterval < minScanInterval {
		opts.ScanInterval = minScanInterval
	} else if opts.ScanInterval > maxScanInterval {
		opts.ScanInterval = maxScanInterval
	}

	m := &Manager{
		seeds:   append([]string(nil), seeds...),
		opts:    opts,
		factory: factory,
		store:   NewStore(),
		done:    make(chan struct{}),
	}
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.intro = opts.Introspector
	if m.intro == nil {
		m.intro = newCtlIntrospector(&m.opts)
	}

	if err := m.bootstrap(); err != nil {
		m.cancel()
		m.intro.Close()
		return nil, err
	}

	go m.monitor()

	return m, nil
}

func (m *Manager) bootstrap() error {
	parts, err := m.fetchPartitions()
	if err != nil {
		return ErrBootstrap.Wrap(err, "no usable cluster contact point")
	}
	for _, p := range parts {
		m.addMaster(p)
	}
	m.report(LogBootstrapped{Seeds: m.seeds, Partitions: len(parts)})
	return nil
}

// fetchPartitions polls the seeds in order and builds the candidate
// partition set from the first one returning a non-empty CLUSTER NODES
// dump. A malformed dump fails the whole fetch: topology built from a
// half-understood response must never replace the last known good one.
func (m *Manager) fetchPartitions() ([]*redisnodes.Partition, error) {
	for _, addr := range m.seeds {
		text, err := m.intro.ClusterNodes(addr)
		if err != nil {
			m.report(LogSeedUnavailable{Addr: addr, Error: err})
			continue
		}
		if strings.TrimSpace(text) == "" {
			m.report(LogSeedUnavailable{
				Addr:  addr,
				Error: ErrEmptyTopology.New("empty CLUSTER NODES from %s", addr),
			})
			continue
		}
		nodes, err := redisnodes.ParseNodes(text)
		if err != nil {
			return nil, err
		}
		return redisnodes.BuildPartitions(nodes), nil
	}
	return nil, ErrNoSeedAvailable.New("all %d seed(s) unreachable", len(m.seeds))
}

// addMaster registers a candidate partition. This is the only path that
// creates partition entries; it is shared by bootstrap and by the
// reconciler when new slot ranges appear. Unhealthy candidates are
// refused, which is a logged decision rather than an error.
func (m *Manager) addMaster(p *redisnodes.Partition) {
	if p.MasterFail {
		mastersRefusedTotal.Inc()
		m.report(LogMasterRefused{Partition: p, Reason: "server has FAIL flag"})
		return
	}

	info, err := m.intro.ClusterInfo(p.MasterAddr)
	if err != nil {
		m.report(LogSeedUnavailable{Addr: p.MasterAddr, Error: err})
		return
	}
	if info["cluster_state"] == redisnodes.ClusterStateFail {
		mastersRefusedTotal.Inc()
		m.report(LogMasterRefused{Partition: p, Reason: "cluster_state:fail"})
		return
	}

	entry, err := m.factory.CreateEntry(p.Slots, m.routingConfig(p.MasterAddr))
	if err != nil {
		m.report(LogEntryError{Addr: p.MasterAddr, Error: err})
		return
	}
	m.store.add(p, entry)
	rangesAddedTotal.Add(float64(len(p.Slots)))
	m.report(LogMasterAdded{Partition: p})
}

// Lookup returns the partition serving slot, or false when no route is
// registered for it.
func (m *Manager) Lookup(slot int) (*redisnodes.Partition, bool) {
	return m.store.Lookup(slot)
}

// PartitionFor returns the partition registered for exactly r.
func (m *Manager) PartitionFor(r redisnodes.SlotRange) (*redisnodes.Partition, bool) {
	return m.store.PartitionFor(r)
}

// Store exposes the topology store for the request-routing layer.
// Routing code only reads it; all writes stay with the reconciler.
func (m *Manager) Store() *Store {
	return m.store
}

// Shutdown stops the reconciler, waits for the in-progress cycle step to
// finish and closes every cached control connection. Idempotent.
func (m *Manager) Shutdown() {
	m.closeOnce.Do(func() {
		m.cancel()
		<-m.done
		m.intro.Close()
	})
}
