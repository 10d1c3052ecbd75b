package player

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func icyBlock(meta string) []byte {
	size := (len(meta) + 15) / 16
	buf := make([]byte, 1+size*16)
	buf[0] = byte(size)
	copy(buf[1:], meta)
	return buf
}

func TestParseStreamTitle(t *testing.T) {
	tests := []struct {
		name   string
		meta   string
		want   string
		wantOK bool
	}{
		{"simple", "StreamTitle='Artist - Song';", "Artist - Song", true},
		{"with url", "StreamTitle='A - B';StreamUrl='http://x';", "A - B", true},
		{"apostrophe inside", "StreamTitle='Don't Stop';", "Don't Stop", true},
		{"empty title", "StreamTitle='';", "", true},
		{"missing key", "StreamUrl='x';", "", false},
		{"unterminated", "StreamTitle='abc", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseStreamTitle(tt.meta)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMetaint(t *testing.T) {
	assert.Equal(t, 16000, parseMetaint("16000"))
	assert.Equal(t, 8192, parseMetaint(" 8192 "))
	assert.Equal(t, 0, parseMetaint(""))
	assert.Equal(t, 0, parseMetaint("abc"))
	assert.Equal(t, 0, parseMetaint("-5"))
}

func TestICYReader_StripsMetadata(t *testing.T) {
	var stream bytes.Buffer
	stream.WriteString("aaaa")
	stream.Write(icyBlock("StreamTitle='First';"))
	stream.WriteString("bbbb")
	stream.WriteByte(0) // empty metadata block
	stream.WriteString("cccc")
	stream.Write(icyBlock("StreamTitle='Second';"))
	stream.WriteString("dd")

	var titles []string
	r := newICYReader(&stream, 4, func(title string) { titles = append(titles, title) })

	audio, err := io.ReadAll(r)
	require.NoError(t, err)

	assert.Equal(t, "aaaabbbbccccdd", string(audio))
	assert.Equal(t, []string{"First", "Second"}, titles)
}

func TestICYReader_RepeatedTitleReportedOnce(t *testing.T) {
	var stream bytes.Buffer
	for range 3 {
		stream.WriteString("xx")
		stream.Write(icyBlock("StreamTitle='Same';"))
	}

	calls := 0
	r := newICYReader(&stream, 2, func(string) { calls++ })
	_, err := io.ReadAll(r)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestICYReader_NoMetaintPassesThrough(t *testing.T) {
	r := newICYReader(bytes.NewReader([]byte("plain audio")), 0, nil)
	audio, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "plain audio", string(audio))
}
