/*
Package redisnodes parses redis cluster introspection output.

It turns CLUSTER NODES text into node records and aggregates them into
partitions (one master with its replicas and owned slot ranges), and it
extracts the health state from CLUSTER INFO. Parsing is strict: an unknown
flag or a malformed slot token fails the whole fetch, since topology built
from a half-understood dump is worse than keeping the previous one.
*/
package redisnodes
