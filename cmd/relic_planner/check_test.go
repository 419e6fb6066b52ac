package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkJSON struct {
	Character string `json:"character"`
	Checked   int    `json:"checked"`
	Invalid   int    `json:"invalid"`
	Results   []struct {
		Handle uint32 `json:"handle"`
		Reason string `json:"reason"`
		Index  int    `json:"index"`
	} `json:"results"`
}

func TestCheckCommand(t *testing.T) {
	save := writeConsoleSave(t, slotChunk("Wylder",
		relic(0xC0000001, 100, 7000000),
		relic(0xC0000002, 101, 7000000, 7000000),
		relic(0xC0000003, 102, 7000200, 7000000),
		relic(0xC0000004, 25000, 7000000),
	))

	stdout, _, err := execute(t, "check", "--save", save, "--character", "0", "--dataset", testDataset)
	require.NoError(t, err)

	var out checkJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, 4, out.Checked)
	assert.Equal(t, 3, out.Invalid)
	require.Len(t, out.Results, 3)

	assert.Equal(t, uint32(0xC0000002), out.Results[0].Handle)
	assert.Equal(t, "duplicate effect", out.Results[0].Reason)
	assert.Equal(t, 1, out.Results[0].Index)
	assert.Equal(t, "effects not in game order", out.Results[1].Reason)
	assert.Equal(t, "relic id in illegal range", out.Results[2].Reason)
}

func TestCheckCommand_All(t *testing.T) {
	save := writeConsoleSave(t, slotChunk("Wylder", relic(0xC0000001, 100, 7000000)))

	stdout, _, err := execute(t, "check", "--save", save, "--character", "0", "--dataset", testDataset, "--all")
	require.NoError(t, err)

	var out checkJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, 0, out.Invalid)
	require.Len(t, out.Results, 1)
	assert.Equal(t, "valid", out.Results[0].Reason)
}
