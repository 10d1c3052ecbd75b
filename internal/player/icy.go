package player

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// maxICYMetadata is the largest block a one-byte length can announce (255*16).
const maxICYMetadata = 4080

// icyReader strips SHOUTcast/Icecast metadata blocks from an audio stream and
// reports stream titles as they change.
type icyReader struct {
	r         *bufio.Reader
	metaint   int
	remaining int
	lastTitle string
	onTitle   func(string)
}

func newICYReader(r io.Reader, metaint int, onTitle func(string)) *icyReader {
	return &icyReader{
		r:         bufio.NewReader(r),
		metaint:   metaint,
		remaining: metaint,
		onTitle:   onTitle,
	}
}

// parseMetaint reads the icy-metaint response header. Zero means the stream
// carries no metadata.
func parseMetaint(header string) int {
	n, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func (r *icyReader) Read(p []byte) (int, error) {
	if r.metaint <= 0 {
		return r.r.Read(p)
	}
	if r.remaining == 0 {
		if err := r.readMetadata(); err != nil {
			return 0, err
		}
		r.remaining = r.metaint
	}
	if len(p) > r.remaining {
		p = p[:r.remaining]
	}
	n, err := r.r.Read(p)
	r.remaining -= n
	return n, err
}

func (r *icyReader) readMetadata() error {
	lenByte, err := r.r.ReadByte()
	if err != nil {
		return err
	}
	size := int(lenByte) * 16
	if size == 0 {
		return nil
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return err
	}
	title, ok := parseStreamTitle(string(buf))
	if ok && title != r.lastTitle {
		r.lastTitle = title
		if r.onTitle != nil {
			r.onTitle(title)
		}
	}
	return nil
}

// parseStreamTitle extracts the value of StreamTitle='...'; from a metadata block.
func parseStreamTitle(meta string) (string, bool) {
	const key = "StreamTitle='"
	start := strings.Index(meta, key)
	if start < 0 {
		return "", false
	}
	start += len(key)
	end := strings.Index(meta[start:], "';")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(meta[start : start+end]), true
}
