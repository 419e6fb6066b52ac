package records

import (
	"encoding/binary"
	"unicode/utf16"
)

// block is a bounds-checked little-endian view over one slot buffer.
type block struct {
	data []byte
	slot int
}

func (b block) need(off, width int, field string) error {
	if off < 0 || off+width > len(b.data) {
		return outOfRange(b.slot, off, width, field, len(b.data))
	}
	return nil
}

func (b block) u8(off int, field string) (uint8, error) {
	if err := b.need(off, 1, field); err != nil {
		return 0, err
	}
	return b.data[off], nil
}

func (b block) u16(off int, field string) (uint16, error) {
	if err := b.need(off, 2, field); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b.data[off:]), nil
}

func (b block) u32(off int, field string) (uint32, error) {
	if err := b.need(off, 4, field); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b.data[off:]), nil
}

func (b block) u64(off int, field string) (uint64, error) {
	if err := b.need(off, 8, field); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b.data[off:]), nil
}

func (b block) handles(off int, field string) ([6]uint32, error) {
	var out [6]uint32
	if err := b.need(off, 24, field); err != nil {
		return out, err
	}
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b.data[off+4*i:])
	}
	return out, nil
}

// utf16String decodes up to maxUnits UTF-16LE code units, stopping at the
// first NUL unit or at the end of the buffer.
func utf16String(raw []byte, maxUnits int) string {
	units := make([]uint16, 0, maxUnits)
	for i := 0; i+1 < len(raw) && len(units) < maxUnits; i += 2 {
		u := binary.LittleEndian.Uint16(raw[i:])
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units))
}
