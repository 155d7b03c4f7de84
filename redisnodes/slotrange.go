package redisnodes

import (
	"strconv"
	"strings"
)

// NumSlots is the fixed size of the redis cluster keyspace.
const NumSlots = 1 << 14

// SlotRange is an inclusive interval of keyspace slots owned by one master.
// It is a plain value: ranges compare structurally and are used as map keys.
type SlotRange struct {
	From int
	To   int
}

// Contains reports whether slot falls inside the range.
func (r SlotRange) Contains(slot int) bool {
	return slot >= r.From && slot <= r.To
}

// String renders the range the way CLUSTER NODES prints slot tokens:
// "123" for a single slot, "1000-2000" for a range.
func (r SlotRange) String() string {
	if r.From == r.To {
		return strconv.Itoa(r.From)
	}
	return strconv.Itoa(r.From) + "-" + strconv.Itoa(r.To)
}

// ParseSlotToken decodes a single slot token of CLUSTER NODES output.
func ParseSlotToken(tok string) (SlotRange, error) {
	var r SlotRange
	var err error
	if ix := strings.IndexByte(tok, '-'); ix != -1 {
		if r.From, err = strconv.Atoi(tok[:ix]); err != nil {
			return SlotRange{}, ErrBadSlotToken.New("slot number is not an integer: %q", tok)
		}
		if r.To, err = strconv.Atoi(tok[ix+1:]); err != nil {
			return SlotRange{}, ErrBadSlotToken.New("slot number is not an integer: %q", tok)
		}
	} else {
		if r.From, err = strconv.Atoi(tok); err != nil {
			return SlotRange{}, ErrBadSlotToken.New("slot number is not an integer: %q", tok)
		}
		r.To = r.From
	}
	if r.From < 0 || r.From > r.To || r.To >= NumSlots {
		return SlotRange{}, ErrBadSlotToken.New("slot range out of bounds: %q", tok)
	}
	return r, nil
}
