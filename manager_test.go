package redistopo

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmesh/redistopo/redisnodes"
)

type fakeEntry struct {
	mu        sync.Mutex
	master    string
	changes   []string
	downs     []string
	shutdowns int
}

func (e *fakeEntry) MasterAddress() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.master
}

func (e *fakeEntry) ChangeMaster(addr string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.master = addr
	e.changes = append(e.changes, addr)
}

func (e *fakeEntry) SlaveDown(addr string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.downs = append(e.downs, addr)
}

func (e *fakeEntry) ShutdownAsync() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shutdowns++
}

type fakeFactory struct {
	mu      sync.Mutex
	entries map[string]*fakeEntry
	failFor map[string]error
	configs []RoutingConfig
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{entries: make(map[string]*fakeEntry)}
}

func (f *fakeFactory) CreateEntry(slots []redisnodes.SlotRange, cfg RoutingConfig) (EntryHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failFor[cfg.MasterAddr]; err != nil {
		return nil, err
	}
	e := &fakeEntry{master: cfg.MasterAddr}
	f.entries[cfg.MasterAddr] = e
	f.configs = append(f.configs, cfg)
	return e, nil
}

func (f *fakeFactory) entry(addr string) *fakeEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[addr]
}

type fakeIntrospector struct {
	mu       sync.Mutex
	nodes    map[string]string
	nodesErr map[string]error
	info     map[string]map[string]string
	infoErr  map[string]error
	closed   int
}

func newFakeIntrospector() *fakeIntrospector {
	return &fakeIntrospector{
		nodes:    make(map[string]string),
		nodesErr: make(map[string]error),
		info:     make(map[string]map[string]string),
		infoErr:  make(map[string]error),
	}
}

func (fi *fakeIntrospector) setNodes(addr, text string) {
	fi.mu.Lock()
	defer fi.mu.Unlock()
	fi.nodes[addr] = text
}

func (fi *fakeIntrospector) ClusterNodes(addr string) (string, error) {
	fi.mu.Lock()
	defer fi.mu.Unlock()
	if err := fi.nodesErr[addr]; err != nil {
		return "", err
	}
	text, ok := fi.nodes[addr]
	if !ok {
		return "", ErrNodeUnavailable.New("no fake node at %s", addr)
	}
	return text, nil
}

func (fi *fakeIntrospector) ClusterInfo(addr string) (map[string]string, error) {
	fi.mu.Lock()
	defer fi.mu.Unlock()
	if err := fi.infoErr[addr]; err != nil {
		return nil, err
	}
	if info, ok := fi.info[addr]; ok {
		return info, nil
	}
	return map[string]string{"cluster_state": "ok"}, nil
}

func (fi *fakeIntrospector) Close() {
	fi.mu.Lock()
	defer fi.mu.Unlock()
	fi.closed++
}

type recordingLogger struct {
	mu     sync.Mutex
	events []LogEvent
}

func (l *recordingLogger) Report(m *Manager, event LogEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *recordingLogger) count(match func(LogEvent) bool) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, ev := range l.events {
		if match(ev) {
			n++
		}
	}
	return n
}

func dump(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

const (
	addrA  = "10.0.0.1:6379"
	addrA2 = "10.0.0.2:6379"
	addrB  = "10.0.0.3:6379"
	addrB2 = "10.0.0.4:6379"
	addrC  = "10.0.0.5:6379"
)

func twoMasterDump() string {
	return dump(
		"07c37dfeb235213a872192d90877d0cd55635b91 "+addrA+"@16379 myself,master - 0 0 1 connected 0-8191",
		"e7d1eecce10fd6bb5eb35b9f99a514335d9ba9ca "+addrA2+"@16379 slave 07c37dfeb235213a872192d90877d0cd55635b91 0 1426238317239 1 connected",
		"67ed2db8d677e59ec4a4cefb06858cf2a1a89fa1 "+addrB+"@16379 master - 0 1426238316232 2 connected 8192-16383",
		"824fe116063bc5fcf9f4ffd895bc17aee7731ac3 "+addrB2+"@16379 slave 67ed2db8d677e59ec4a4cefb06858cf2a1a89fa1 0 1426238317741 2 connected",
	)
}

func newTestManager(t *testing.T, fi *fakeIntrospector, seeds ...string) (*Manager, *fakeFactory, *recordingLogger) {
	t.Helper()
	if len(seeds) == 0 {
		seeds = []string{addrA}
	}
	factory := newFakeFactory()
	logger := &recordingLogger{}
	m, err := New(context.Background(), seeds, factory, Opts{
		ScanInterval: maxScanInterval,
		Logger:       logger,
		Introspector: fi,
	})
	require.NoError(t, err)
	t.Cleanup(m.Shutdown)
	return m, factory, logger
}

func TestNewValidation(t *testing.T) {
	fi := newFakeIntrospector()
	factory := newFakeFactory()

	_, err := New(nil, []string{addrA}, factory, Opts{Introspector: fi})
	assert.True(t, errorx.IsOfType(err, ErrContextIsNil))

	_, err = New(context.Background(), nil, factory, Opts{Introspector: fi})
	assert.True(t, errorx.IsOfType(err, ErrNoSeedsProvided))

	_, err = New(context.Background(), []string{addrA}, nil, Opts{Introspector: fi})
	assert.True(t, errorx.IsOfType(err, ErrNoEntryFactory))
}

func TestScanIntervalClamped(t *testing.T) {
	fi := newFakeIntrospector()
	fi.setNodes(addrA, twoMasterDump())

	for _, tc := range []struct {
		give time.Duration
		want time.Duration
	}{
		{0, defaultScanInterval},
		{10 * time.Millisecond, minScanInterval},
		{time.Hour, maxScanInterval},
		{30 * time.Second, 30 * time.Second},
	} {
		m, err := New(context.Background(), []string{addrA}, newFakeFactory(), Opts{
			ScanInterval: tc.give,
			Logger:       NoopLogger{},
			Introspector: fi,
		})
		require.NoError(t, err)
		assert.Equal(t, tc.want, m.opts.ScanInterval)
		m.Shutdown()
	}
}

func TestBootstrap(t *testing.T) {
	fi := newFakeIntrospector()
	fi.setNodes(addrA, twoMasterDump())
	m, factory, logger := newTestManager(t, fi)

	p, ok := m.Lookup(0)
	require.True(t, ok)
	assert.Equal(t, addrA, p.MasterAddr)
	assert.Equal(t, []string{addrA2}, p.SlaveAddrs)

	p, ok = m.Lookup(16383)
	require.True(t, ok)
	assert.Equal(t, addrB, p.MasterAddr)

	p, ok = m.PartitionFor(redisnodes.SlotRange{From: 0, To: 8191})
	require.True(t, ok)
	assert.Equal(t, addrA, p.MasterAddr)

	require.NotNil(t, factory.entry(addrA))
	require.NotNil(t, factory.entry(addrB))
	assert.Equal(t, 1, logger.count(func(ev LogEvent) bool {
		_, ok := ev.(LogBootstrapped)
		return ok
	}))
}

func TestBootstrapRoutingConfig(t *testing.T) {
	fi := newFakeIntrospector()
	fi.setNodes(addrA, dump(
		"07c37dfeb235213a872192d90877d0cd55635b91 " + addrA + " myself,master - 0 0 1 connected 0-16383",
	))
	factory := newFakeFactory()
	m, err := New(context.Background(), []string{addrA}, factory, Opts{
		ScanInterval:   maxScanInterval,
		Timeout:        2 * time.Second,
		RetryAttempts:  3,
		LoadBalancer:   LBRandom,
		Password:       "hunter2",
		DB:             4,
		MasterPoolSize: 8,
		Logger:         NoopLogger{},
		Introspector:   fi,
	})
	require.NoError(t, err)
	defer m.Shutdown()

	require.Len(t, factory.configs, 1)
	cfg := factory.configs[0]
	assert.Equal(t, addrA, cfg.MasterAddr)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, LBRandom, cfg.LoadBalancer)
	assert.Equal(t, "hunter2", cfg.Password)
	assert.Equal(t, 4, cfg.DB)
	assert.Equal(t, 8, cfg.MasterPoolSize)
}

func TestBootstrapAllSeedsDown(t *testing.T) {
	fi := newFakeIntrospector()
	_, err := New(context.Background(), []string{addrA, addrB}, newFakeFactory(), Opts{
		Logger:       NoopLogger{},
		Introspector: fi,
	})
	require.Error(t, err)
	assert.True(t, errorx.IsOfType(err, ErrBootstrap))
	fi.mu.Lock()
	defer fi.mu.Unlock()
	assert.Equal(t, 1, fi.closed)
}

func TestBootstrapSkipsDeadSeed(t *testing.T) {
	fi := newFakeIntrospector()
	fi.setNodes(addrB, twoMasterDump())
	m, _, logger := newTestManager(t, fi, addrA, addrB)

	_, ok := m.Lookup(100)
	assert.True(t, ok)
	assert.Equal(t, 1, logger.count(func(ev LogEvent) bool {
		e, ok := ev.(LogSeedUnavailable)
		return ok && e.Addr == addrA
	}))
}

func TestBootstrapSkipsEmptyDump(t *testing.T) {
	fi := newFakeIntrospector()
	fi.setNodes(addrA, "\r\n")
	fi.setNodes(addrB, twoMasterDump())
	m, _, logger := newTestManager(t, fi, addrA, addrB)

	_, ok := m.Lookup(100)
	assert.True(t, ok)
	assert.Equal(t, 1, logger.count(func(ev LogEvent) bool {
		e, ok := ev.(LogSeedUnavailable)
		return ok && e.Addr == addrA && errorx.IsOfType(e.Error, ErrEmptyTopology)
	}))
}

func TestBootstrapRefusesFailedMaster(t *testing.T) {
	fi := newFakeIntrospector()
	fi.setNodes(addrA, dump(
		"07c37dfeb235213a872192d90877d0cd55635b91 "+addrA+" myself,master - 0 0 1 connected 0-8191",
		"67ed2db8d677e59ec4a4cefb06858cf2a1a89fa1 "+addrB+" master,fail - 0 1426238316232 2 connected 8192-16383",
	))
	m, factory, logger := newTestManager(t, fi)

	_, ok := m.Lookup(0)
	assert.True(t, ok)
	_, ok = m.Lookup(9000)
	assert.False(t, ok)
	assert.Nil(t, factory.entry(addrB))
	assert.Equal(t, 1, logger.count(func(ev LogEvent) bool {
		e, ok := ev.(LogMasterRefused)
		return ok && e.Partition.MasterAddr == addrB
	}))
}

func TestBootstrapRefusesClusterStateFail(t *testing.T) {
	fi := newFakeIntrospector()
	fi.setNodes(addrA, twoMasterDump())
	fi.info[addrB] = map[string]string{"cluster_state": "fail"}
	m, factory, logger := newTestManager(t, fi)

	_, ok := m.Lookup(0)
	assert.True(t, ok)
	_, ok = m.Lookup(9000)
	assert.False(t, ok)
	assert.Nil(t, factory.entry(addrB))
	assert.Equal(t, 1, logger.count(func(ev LogEvent) bool {
		e, ok := ev.(LogMasterRefused)
		return ok && e.Partition.MasterAddr == addrB
	}))
}

func TestBootstrapEntryFactoryError(t *testing.T) {
	fi := newFakeIntrospector()
	fi.setNodes(addrA, twoMasterDump())
	factory := newFakeFactory()
	factory.failFor = map[string]error{addrB: errorx.IllegalState.New("no sockets")}
	logger := &recordingLogger{}
	m, err := New(context.Background(), []string{addrA}, factory, Opts{
		ScanInterval: maxScanInterval,
		Logger:       logger,
		Introspector: fi,
	})
	require.NoError(t, err)
	defer m.Shutdown()

	_, ok := m.Lookup(0)
	assert.True(t, ok)
	_, ok = m.Lookup(9000)
	assert.False(t, ok)
	assert.Equal(t, 1, logger.count(func(ev LogEvent) bool {
		e, ok := ev.(LogEntryError)
		return ok && e.Addr == addrB
	}))
}

func TestShutdownIdempotent(t *testing.T) {
	fi := newFakeIntrospector()
	fi.setNodes(addrA, twoMasterDump())
	m, _, _ := newTestManager(t, fi)

	m.Shutdown()
	m.Shutdown()
	fi.mu.Lock()
	defer fi.mu.Unlock()
	assert.Equal(t, 1, fi.closed)
}
