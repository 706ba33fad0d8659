package notify

import (
	"bytes"
	"errors"
	"fmt"
)

// MaxFrameSize bounds how many bytes of a single unterminated frame the
// decoder holds.
const MaxFrameSize = 1 << 20

// ErrFrameTooLarge is returned by Feed when a frame outgrows MaxFrameSize.
var ErrFrameTooLarge = errors.New("notification frame too large")

var (
	frameSep   = []byte("\n\n")
	crlf       = []byte("\r\n")
	lf         = []byte("\n")
	dataPrefix = []byte("data:")
)

// Decoder splits an event stream into frames as bytes arrive. A frame ends
// at a blank line; bytes after the last complete frame are carried over to
// the next Feed. The zero value is ready to use.
type Decoder struct {
	buf []byte
	// cr is set when the previous chunk ended in '\r', which may be the
	// first half of a CRLF.
	cr bool
	// scanned is how much of buf is known not to contain a frame end.
	scanned int
}

// Feed consumes the next chunk of the stream and returns the data payloads
// of every frame it completed, in stream order. Lines other than "data:"
// lines are ignored; each data line yields one payload.
//
// Once the carried-over frame exceeds MaxFrameSize, Feed returns
// ErrFrameTooLarge and the decoder must not be used again.
func (d *Decoder) Feed(chunk []byte) ([][]byte, error) {
	d.buf = append(d.buf, d.normalize(chunk)...)

	var payloads [][]byte
	for {
		i := bytes.Index(d.buf[d.scanned:], frameSep)
		if i < 0 {
			break
		}
		end := d.scanned + i
		payloads = appendPayloads(payloads, d.buf[:end])
		d.buf = d.buf[end+len(frameSep):]
		d.scanned = 0
	}

	// a separator may straddle the next chunk
	d.scanned = max(0, len(d.buf)-len(frameSep)+1)

	if len(d.buf) > MaxFrameSize {
		n := len(d.buf)
		d.buf, d.scanned = nil, 0
		return payloads, fmt.Errorf("%w: over %d bytes without a frame end (%d buffered)", ErrFrameTooLarge, MaxFrameSize, n)
	}

	// release the backing array once everything has been consumed
	if len(d.buf) == 0 {
		d.buf = nil
	}
	return payloads, nil
}

// normalize turns CRLF into LF within chunk, holding back a trailing '\r'
// until the next chunk shows whether a '\n' follows it.
func (d *Decoder) normalize(chunk []byte) []byte {
	if d.cr {
		chunk = append([]byte{'\r'}, chunk...)
		d.cr = false
	}
	if n := len(chunk); n > 0 && chunk[n-1] == '\r' {
		chunk = chunk[:n-1]
		d.cr = true
	}
	if bytes.Contains(chunk, crlf) {
		chunk = bytes.ReplaceAll(chunk, crlf, lf)
	}
	return chunk
}

// Buffered reports how many bytes of an incomplete frame are held.
func (d *Decoder) Buffered() int {
	n := len(d.buf)
	if d.cr {
		n++
	}
	return n
}

func appendPayloads(dst [][]byte, frame []byte) [][]byte {
	for _, line := range bytes.Split(frame, lf) {
		rest, ok := bytes.CutPrefix(line, dataPrefix)
		if !ok {
			continue
		}
		rest = bytes.TrimPrefix(rest, []byte(" "))
		if len(rest) == 0 {
			continue
		}
		dst = append(dst, bytes.Clone(rest))
	}
	return dst
}
