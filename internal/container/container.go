package container

import (
	"bytes"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Platform selects the container layout.
type Platform string

const (
	// PlatformAuto detects the layout from the file contents.
	PlatformAuto Platform = "auto"
	// PlatformPC is the encrypted BND4 .sl2 container.
	PlatformPC Platform = "pc"
	// PlatformConsole is the pre-split memory.dat blob.
	PlatformConsole Platform = "console"
)

// MaxCharacterSlots is the number of character slots a save can hold.
const MaxCharacterSlots = 10

// ParsePlatform parses a platform hint. The empty string means auto.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return PlatformAuto, nil
	case "pc", "sl2", "steam":
		return PlatformPC, nil
	case "console", "ps4", "ps5", "memory.dat":
		return PlatformConsole, nil
	default:
		return "", fmt.Errorf("unknown platform %q (expected auto, pc or console)", s)
	}
}

// Slot is the decrypted data block of one character slot.
type Slot struct {
	Index int
	Data  []byte
}

// Decoder turns save container bytes into slot buffers.
type Decoder struct {
	key    []byte
	logger *zap.Logger
}

// NewDecoder returns a Decoder using the fixed PC key. A nil logger discards output.
func NewDecoder(logger *zap.Logger) *Decoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decoder{key: pcKey[:], logger: logger}
}

// WithKey returns a copy of d that decrypts PC containers with key.
func (d *Decoder) WithKey(key []byte) *Decoder {
	k := make([]byte, len(key))
	copy(k, key)
	return &Decoder{key: k, logger: d.logger}
}

// Detect infers the platform from the container contents.
func Detect(data []byte) (Platform, error) {
	if bytes.HasPrefix(data, []byte(bnd4Magic)) {
		return PlatformPC, nil
	}
	if len(data) >= consoleHeaderLen+minConsoleSlot {
		first := data[consoleHeaderLen:min(consoleHeaderLen+consoleChunkSize, len(data))]
		if isZero(first) || plausibleItemTable(first, chunkItemsStart) {
			return PlatformConsole, nil
		}
	}
	return "", &UnsupportedFormatError{Message: fmt.Sprintf("unrecognized container (%d bytes, no BND4 magic or console item table)", len(data))}
}

// Decode returns the non-empty character slots in slot order. Any error is
// terminal for the file; no partial slot list is returned.
func (d *Decoder) Decode(data []byte, platform Platform) ([]Slot, error) {
	if platform == "" || platform == PlatformAuto {
		detected, err := Detect(data)
		if err != nil {
			return nil, err
		}
		platform = detected
	}

	var (
		slots []Slot
		err   error
	)
	switch platform {
	case PlatformPC:
		slots, err = d.decodeBND4(data)
	case PlatformConsole:
		slots, err = d.splitConsole(data)
	default:
		return nil, &UnsupportedFormatError{Platform: platform, Message: "unknown platform"}
	}
	if err != nil {
		return nil, err
	}

	d.logger.Debug("container decoded",
		zap.String("platform", string(platform)),
		zap.Int("bytes", len(data)),
		zap.Int("slots", len(slots)))
	return slots, nil
}

func isZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
