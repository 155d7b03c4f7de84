package redisnodes

import (
	"strings"

	"github.com/howeyc/crc16"
)

// Redis cluster hashes keys with the XModem variant of CRC16:
// polynomial 0x1021, msb first, zero initial value.
var slotTable = crc16.MakeBitsReversedTable(crc16.CCITTFalse)

// Slot returns the keyspace slot targeted by key.
// A non-empty {hash tag} restricts hashing to the tag content, so keys
// sharing a tag land on the same slot.
func Slot(key string) uint16 {
	if s := strings.IndexByte(key, '{'); s != -1 {
		if e := strings.IndexByte(key[s+1:], '}'); e > 0 {
			key = key[s+1 : s+1+e]
		}
	}
	return crc16.Checksum([]byte(key), slotTable) % NumSlots
}
