package container

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"fmt"

	"go.uber.org/zap"
)

// BND4 layout. Offsets are load-bearing; do not adjust.
const (
	bnd4Magic          = "BND4"
	bnd4HeaderLen      = 64
	bnd4EntryCountOff  = 12
	bnd4EntryHeaderLen = 32
	bnd4EntrySizeOff   = 8
	bnd4EntryDataOff   = 16
	bnd4EntryFooterOff = 24
	bnd4MaxEntries     = 4096
	bnd4MaxEntrySize   = 1_000_000_000
	ivSize             = 16
)

var bnd4EntryMagic = []byte{0x40, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFF}

// AES-128-CBC key shared by every PC save of this game.
var pcKey = [16]byte{
	0x18, 0xF6, 0x32, 0x66, 0x05, 0xBD, 0x17, 0x8A,
	0x55, 0x24, 0x52, 0x3A, 0xC0, 0xA0, 0xC6, 0x09,
}

type bnd4Entry struct {
	index        int
	size         int
	offset       int
	footerLength int
}

func (d *Decoder) decodeBND4(data []byte) ([]Slot, error) {
	if len(data) < bnd4HeaderLen || !bytes.HasPrefix(data, []byte(bnd4Magic)) {
		return nil, &UnsupportedFormatError{Platform: PlatformPC, Message: "missing BND4 header"}
	}

	count := int(int32(binary.LittleEndian.Uint32(data[bnd4EntryCountOff:])))
	if count <= 0 || count > bnd4MaxEntries {
		return nil, &UnsupportedFormatError{Platform: PlatformPC, Message: fmt.Sprintf("implausible entry count %d", count)}
	}

	entries, err := readBND4Entries(data, min(count, MaxCharacterSlots))
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(d.key)
	if err != nil {
		return nil, &DecryptionError{Entry: -1, Message: "invalid key", Cause: err}
	}

	slots := make([]Slot, 0, len(entries))
	for _, e := range entries {
		plain, err := decryptEntry(block, e.index, data[e.offset:e.offset+e.size])
		if err != nil {
			return nil, err
		}
		if isZero(plain) {
			d.logger.Debug("empty slot omitted", zap.Int("entry", e.index))
			continue
		}
		if !hasSlotMarker(plain) {
			return nil, &DecryptionError{Entry: e.index, Message: fmt.Sprintf("decrypted entry starts with % X, not the slot marker; wrong key or corrupted file", plain[:min(4, len(plain))])}
		}
		slots = append(slots, Slot{Index: e.index, Data: plain})
	}
	return slots, nil
}

func readBND4Entries(data []byte, n int) ([]bnd4Entry, error) {
	entries := make([]bnd4Entry, 0, n)
	for i := 0; i < n; i++ {
		pos := bnd4HeaderLen + bnd4EntryHeaderLen*i
		if pos+bnd4EntryHeaderLen > len(data) {
			return nil, &UnsupportedFormatError{Platform: PlatformPC, Message: fmt.Sprintf("entry table truncated at entry %d", i)}
		}
		header := data[pos : pos+bnd4EntryHeaderLen]
		if !bytes.Equal(header[:len(bnd4EntryMagic)], bnd4EntryMagic) {
			return nil, &UnsupportedFormatError{Platform: PlatformPC, Message: fmt.Sprintf("entry %d has unexpected magic % X", i, header[:len(bnd4EntryMagic)])}
		}

		e := bnd4Entry{
			index:        i,
			size:         int(int32(binary.LittleEndian.Uint32(header[bnd4EntrySizeOff:]))),
			offset:       int(int32(binary.LittleEndian.Uint32(header[bnd4EntryDataOff:]))),
			footerLength: int(int32(binary.LittleEndian.Uint32(header[bnd4EntryFooterOff:]))),
		}
		if e.size <= 0 || e.size > bnd4MaxEntrySize {
			return nil, &UnsupportedFormatError{Platform: PlatformPC, Message: fmt.Sprintf("entry %d has invalid size %d", i, e.size)}
		}
		if e.offset <= 0 || e.offset+e.size > len(data) {
			return nil, &UnsupportedFormatError{Platform: PlatformPC, Message: fmt.Sprintf("entry %d has invalid offset %d", i, e.offset)}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// decryptEntry splits the leading IV off an entry and decrypts the rest in CBC mode.
func decryptEntry(block cipher.Block, index int, encrypted []byte) ([]byte, error) {
	if len(encrypted) < ivSize+aes.BlockSize {
		return nil, &DecryptionError{Entry: index, Message: fmt.Sprintf("entry of %d bytes is shorter than IV plus one block", len(encrypted))}
	}
	payload := encrypted[ivSize:]
	if len(payload)%aes.BlockSize != 0 {
		return nil, &DecryptionError{Entry: index, Message: fmt.Sprintf("ciphertext length %d is not a multiple of the block size", len(payload))}
	}

	plain := make([]byte, len(payload))
	cipher.NewCBCDecrypter(block, encrypted[:ivSize]).CryptBlocks(plain, payload)
	return plain, nil
}
