package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf16"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/relic-planner/internal/records"
	"github.com/jonathan/relic-planner/internal/types"
)

const (
	testDataset = "../../data/dataset.yaml"
	testBuild   = "../../data/builds/wylder_bleed.yaml"
)

// Console memory.dat layout and slot layout, mirrored for building fixtures.
const (
	consoleHeaderLen = 0x80
	consoleChunkSize = 0x100000
	itemsStart       = 0x14
	itemSlotCount    = 5120
	itemHeaderLen    = 8
	nameOffset       = 0x94
)

func relic(handle, realID uint32, effects ...uint32) types.RawRelic {
	r := types.RawRelic{
		Handle: handle,
		ItemID: types.RelicItemBase + realID,
		Curses: [3]uint32{types.EmptyEffect, types.EmptyEffect, types.EmptyEffect},
	}
	for i := range r.Effects {
		r.Effects[i] = types.EmptyEffect
		if i < len(effects) {
			r.Effects[i] = effects[i]
		}
	}
	return r
}

// slotChunk lays out one console chunk: the slot buffer without its leading
// marker word.
func slotChunk(name string, relics ...types.RawRelic) []byte {
	var buf bytes.Buffer
	buf.Write(make([]byte, itemsStart))
	for _, r := range relics {
		buf.Write(records.EncodeRelic(r))
	}
	buf.Write(make([]byte, itemHeaderLen*(itemSlotCount-len(relics))))

	buf.Write(make([]byte, nameOffset))
	units := utf16.Encode([]rune(name))
	raw := make([]byte, 2*len(units)+2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(raw[2*i:], u)
	}
	buf.Write(raw)
	buf.Write(make([]byte, 64))
	return buf.Bytes()[4:]
}

// loadoutTail is a hero loadout section whose first vessel holds handles.
// It goes after a slot chunk.
func loadoutTail(handles ...uint32) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{
		0xC2, 0x00, 0x03, 0x00, 0x00, 0x2C, 0x00, 0x00,
		0x03, 0x00, 0x0A, 0x00, 0x04, 0x00, 0x46, 0x00,
		0x64, 0x00, 0x00, 0x00,
	})
	hero := make([]byte, 8+4*(4+24))
	binary.LittleEndian.PutUint32(hero[8:], 1000)
	for i, h := range handles {
		binary.LittleEndian.PutUint32(hero[12+4*i:], h)
	}
	buf.Write(hero)
	buf.Write(make([]byte, 9*len(hero)+4))
	return buf.Bytes()
}

// writeConsoleSave writes a memory.dat blob holding the given chunks in
// consecutive slots and returns its path. A nil chunk leaves the slot empty.
func writeConsoleSave(t *testing.T, chunks ...[]byte) string {
	t.Helper()
	data := make([]byte, consoleHeaderLen+consoleChunkSize*len(chunks))
	for i, c := range chunks {
		require.LessOrEqual(t, len(c), consoleChunkSize)
		copy(data[consoleHeaderLen+i*consoleChunkSize:], c)
	}
	path := filepath.Join(t.TempDir(), "memory.dat")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

// wylderSave holds a single character "Wylder" in slot 0 with one relic per
// color the Wylder vessels accept.
func wylderSave(t *testing.T) string {
	t.Helper()
	return writeConsoleSave(t, slotChunk("Wylder",
		relic(0xC0000001, 100, 7000000),
		relic(0xC0000002, 110, 7000101),
		relic(0xC0000003, 120, 7000200),
	))
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// execute runs the CLI in-process and returns what it wrote to stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}
