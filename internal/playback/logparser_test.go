package playback_test

import (
	"strings"
	"testing"

	"github.com/nmeactl/can-controller-node/internal/playback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `winno priority unused pgn sa->da length D0 D1 D2 D3 D4 D5 D6 D7 timestamp dir
# a comment line should be skipped

1 6 1 1F10D 91->* 8 00 00 D0 07 20 03 FF FF 1840.937662 R
1 6 1 1F10D 91->* 8 00 00 D0 07 20 03 FF FF 1840.987662 R
1 3 1 1F200 91->5A 8 01 - - - - - - - 1841.100000 T
`

func TestParseLogFileSkipsHeaderAndComments(t *testing.T) {
	frames, err := playback.ParseLogFile(strings.NewReader(sampleLog), nil)
	require.NoError(t, err)
	require.Len(t, frames, 3)

	first := frames[0]
	assert.Equal(t, uint8(6), first.Priority)
	assert.Equal(t, uint32(0x1F10D), first.PGN)
	assert.Equal(t, uint8(0x91), first.Source)
	assert.Equal(t, uint8(0xFF), first.Destination)
	assert.Equal(t, []byte{0x00, 0x00, 0xD0, 0x07, 0x20, 0x03, 0xFF, 0xFF}, first.Data)
	assert.InDelta(t, 1840.937662, first.Timestamp, 1e-9)
	assert.Equal(t, "R", first.Direction)
	assert.Equal(t, uint32((6<<26)|(0x1F10D<<8)|0x91), first.CANID)
}

func TestParseLogFileHandlesDashPaddedDataAndExplicitDestination(t *testing.T) {
	frames, err := playback.ParseLogFile(strings.NewReader(sampleLog), nil)
	require.NoError(t, err)
	require.Len(t, frames, 3)

	last := frames[2]
	assert.Equal(t, uint8(0x5A), last.Destination)
	assert.Equal(t, []byte{0x01, 0, 0, 0, 0, 0, 0, 0}, last.Data)
}

func TestParseLogFileSkipsMalformedLines(t *testing.T) {
	log := "this line has too few fields\n1 6 1 1F10D 91->* 8 00 00 D0 07 20 03 FF FF 1840.937662 R\n"
	frames, err := playback.ParseLogFile(strings.NewReader(log), nil)
	require.NoError(t, err)
	require.Len(t, frames, 1)
}

func TestParseLogFileSkipsBlankAndCommentOnlyInput(t *testing.T) {
	frames, err := playback.ParseLogFile(strings.NewReader("\n# nothing here\n\n"), nil)
	require.NoError(t, err)
	assert.Empty(t, frames)
}
