package redisnodes

import "github.com/joomcode/errorx"

var (
	// Errors is the namespace for cluster introspection parse errors.
	// Malformed cluster output must not be silently accepted, so every
	// parse problem is a hard error of one of these types.
	Errors = errorx.NewNamespace("redisnodes")

	// ErrBadNodeLine - a CLUSTER NODES line does not have the expected fields.
	ErrBadNodeLine = Errors.NewType("bad_node_line")
	// ErrUnknownFlag - the flags field contains a flag outside the known set.
	ErrUnknownFlag = Errors.NewType("unknown_flag")
	// ErrBadSlotToken - a slot token is neither a slot number nor an inclusive range.
	ErrBadSlotToken = Errors.NewType("bad_slot_token")
)
