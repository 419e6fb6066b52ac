package container

import (
	"encoding/binary"
	"fmt"

	"go.uber.org/zap"
)

// Console memory.dat layout: a fixed header followed by fixed-size slot chunks.
const (
	consoleHeaderLen = 0x80
	consoleChunkSize = 0x100000
	minConsoleSlot   = 0x1000
)

// splitConsole cuts the unencrypted console blob into slot buffers. Each
// buffer is prefixed with the slot marker word so record offsets match the
// decrypted PC layout.
func (d *Decoder) splitConsole(data []byte) ([]Slot, error) {
	if len(data) > 4 && string(data[:4]) == bnd4Magic {
		return nil, &UnsupportedFormatError{Platform: PlatformConsole, Message: "file is a BND4 container, not a console blob"}
	}
	if len(data) < consoleHeaderLen+minConsoleSlot {
		return nil, &UnsupportedFormatError{Platform: PlatformConsole, Message: fmt.Sprintf("blob of %d bytes is too small", len(data))}
	}

	var slots []Slot
	for i := 0; i < MaxCharacterSlots; i++ {
		start := consoleHeaderLen + i*consoleChunkSize
		if start >= len(data) {
			break
		}
		end := min(start+consoleChunkSize, len(data))
		chunk := data[start:end]
		if isZero(chunk) {
			d.logger.Debug("empty slot omitted", zap.Int("entry", i))
			continue
		}
		if !plausibleItemTable(chunk, chunkItemsStart) {
			return nil, &UnsupportedFormatError{Platform: PlatformConsole, Message: fmt.Sprintf("chunk %d does not hold a character item table", i)}
		}

		buf := make([]byte, 4+len(chunk))
		binary.LittleEndian.PutUint32(buf, SlotMarker)
		copy(buf[4:], chunk)
		slots = append(slots, Slot{Index: i, Data: buf})
	}
	return slots, nil
}
