/*
Package redistopo tracks Redis Cluster topology: which master serves which
slot ranges, and how that assignment changes over time.

The Manager bootstraps from a list of seed addresses, builds the slot-range
to partition map from CLUSTER NODES output, and then reconciles it on a
fixed interval. For every master partition it asks an EntryFactory to
create a partition entry (typically a connection pool owned by the caller);
on failover it repoints the affected entries to the promoted replica, and
on resharding it shuts down entries for vanished ranges and creates entries
for new ones.

The topology store is copy-on-write: lookups load an immutable snapshot and
never block, while the single reconciler goroutine swaps in updated
snapshots atomically. Request-routing layers built on top read the store on
every call and always see the last known good cluster shape.

The package deliberately owns no data-path connections. The redisctl
subpackage provides the minimal control-plane client used for
introspection; what a partition entry actually is stays the caller's
business.
*/
package redistopo
