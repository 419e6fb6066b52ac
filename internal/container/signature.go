package container

import "encoding/binary"

// SlotMarker is the first word of every decrypted character slot. Console
// chunks are stored without it.
const SlotMarker uint32 = 0x00100010

// Item-state table probe. A console chunk starts 4 bytes into the slot
// layout, so its table begins at 0x10 rather than 0x14.
const (
	chunkItemsStart = 0x10
	probeEntries    = 32
)

// hasSlotMarker reports whether a decrypted entry starts with SlotMarker.
func hasSlotMarker(plain []byte) bool {
	return len(plain) >= 4 && binary.LittleEndian.Uint32(plain) == SlotMarker
}

// plausibleItemTable walks the first entries of the item-state table at start
// and reports whether every handle is empty or carries a known item type.
func plausibleItemTable(b []byte, start int) bool {
	off := start
	for i := 0; i < probeEntries; i++ {
		if off+8 > len(b) {
			return false
		}
		handle := binary.LittleEndian.Uint32(b[off:])
		size := 8
		switch {
		case handle == 0 || handle == 0xFFFFFFFF:
		case handle&0xF0000000 == 0x80000000: // weapon
			size += 80
		case handle&0xF0000000 == 0x90000000: // armor
			size += 8
		case handle&0xF0000000 == 0xA0000000, handle&0xF0000000 == 0xB0000000:
		case handle&0xF0000000 == 0xC0000000: // relic
			size = 80
		default:
			return false
		}
		off += size
	}
	return true
}
