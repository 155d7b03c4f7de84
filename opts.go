package redistopo

import "time"

// LoadBalancerPolicy selects how a partition entry spreads reads over
// its replicas. It is passed through to entries, not interpreted here.
type LoadBalancerPolicy int

const (
	// LBRoundRobin cycles replicas in order.
	LBRoundRobin LoadBalancerPolicy = iota
	// LBRandom picks a replica at random.
	LBRandom
)

const (
	defaultScanInterval = 5 * time.Second
	minScanInterval     = time.Second
	maxScanInterval     = 10 * time.Minute
)

// Opts - cluster-wide options. Zero values are replaced with defaults in New.
type Opts struct {
	// ScanInterval is the fixed delay between reconciliation cycles,
	// measured from the end of one cycle to the start of the next.
	ScanInterval time.Duration
	// Timeout bounds control-connection dial and command round-trips.
	Timeout time.Duration

	// RetryAttempts, RetryInterval and PingTimeout are passed through to
	// partition entries untouched.
	RetryAttempts int
	RetryInterval time.Duration
	PingTimeout   time.Duration

	// LoadBalancer policy for partition entries.
	LoadBalancer LoadBalancerPolicy

	// Password, DB and ClientName apply to control connections and are
	// also passed through to partition entries.
	Password   string
	DB         int
	ClientName string

	// Pool sizing passed through to partition entries.
	MasterPoolSize             int
	SlavePoolSize              int
	SlaveSubscriptionPoolSize  int
	SubscriptionsPerConnection int

	// Logger receives topology events. DefaultLogger when nil.
	Logger Logger

	// Introspector overrides how introspection commands are executed.
	// Tests inject fakes here; when nil, control connections are used.
	Introspector Introspector
}

// RoutingConfig is the per-partition configuration handed to the entry
// factory: every cluster-wide setting with the master address substituted.
type RoutingConfig struct {
	MasterAddr string

	Timeout       time.Duration
	RetryAttempts int
	RetryInterval time.Duration
	PingTimeout   time.Duration

	LoadBalancer LoadBalancerPolicy

	Password   string
	DB         int
	ClientName string

	MasterPoolSize             int
	SlavePoolSize              int
	SlaveSubscriptionPoolSize  int
	SubscriptionsPerConnection int
}

func (m *Manager) routingConfig(masterAddr string) RoutingConfig {
	o := &m.opts
	return RoutingConfig{
		MasterAddr:                 masterAddr,
		Timeout:                    o.Timeout,
		RetryAttempts:              o.RetryAttempts,
		RetryInterval:              o.RetryInterval,
		PingTimeout:                o.PingTimeout,
		LoadBalancer:               o.LoadBalancer,
		Password:                   o.Password,
		DB:                         o.DB,
		ClientName:                 o.ClientName,
		MasterPoolSize:             o.MasterPoolSize,
		SlavePoolSize:              o.SlavePoolSize,
		SlaveSubscriptionPoolSize:  o.SlaveSubscriptionPoolSize,
		SubscriptionsPerConnection: o.SubscriptionsPerConnection,
	}
}
