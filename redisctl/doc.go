// Package redisctl provides the lightweight control connections used for
// cluster introspection (CLUSTER NODES, CLUSTER INFO). These are plain
// synchronous connections, one cached per node address, entirely separate
// from the pooled data-path connections of partition entries.
package redisctl
