package redistopo

import "github.com/joomcode/errorx"

var (
	// Errors is the namespace for topology-management errors.
	Errors = errorx.NewNamespace("redistopo")

	// ErrContextIsNil - context is not passed to the constructor.
	ErrContextIsNil = Errors.NewType("context_is_nil")
	// ErrNoSeedsProvided - no seed addresses given.
	ErrNoSeedsProvided = Errors.NewType("no_seeds_provided")
	// ErrNoEntryFactory - no partition-entry factory given.
	ErrNoEntryFactory = Errors.NewType("no_entry_factory")
	// ErrBootstrap - no seed yielded a usable topology at startup.
	ErrBootstrap = Errors.NewType("bootstrap_failed")
	// ErrNoSeedAvailable - every seed was unreachable during a fetch.
	ErrNoSeedAvailable = Errors.NewType("no_seed_available")
	// ErrEmptyTopology - a node answered CLUSTER NODES with nothing.
	// Probably it is not part of a cluster.
	ErrEmptyTopology = Errors.NewType("empty_topology")
	// ErrNodeUnavailable - no control connection to the node.
	ErrNodeUnavailable = Errors.NewType("node_unavailable")
	// ErrUnexpectedResponse - introspection reply has the wrong shape.
	ErrUnexpectedResponse = Errors.NewType("unexpected_response")
)
