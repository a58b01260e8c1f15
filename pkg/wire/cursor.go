package wire

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/ccoveille/go-safecast"
	"github.com/libsv/go-p2p/chaincfg/chainhash"
)

// cursor is a read position over an immutable input buffer. It never writes
// to buf and every slice handed out to callers that keep it is copied.
type cursor struct {
	buf []byte
	pos int
}

func newCursor(b []byte) *cursor {
	return &cursor{buf: b}
}

func (c *cursor) remaining() int {
	return len(c.buf) - c.pos
}

func (c *cursor) rest() []byte {
	return c.buf[c.pos:]
}

// advance moves the cursor past n bytes consumed by a nested decoder.
func (c *cursor) advance(n int) {
	c.pos += n
}

func (c *cursor) next(n int, field string) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, truncated(field, n, c.remaining())
	}

	b := c.buf[c.pos : c.pos+n]
	c.pos += n

	return b, nil
}

func (c *cursor) readUint8(field string) (uint8, error) {
	b, err := c.next(1, field)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

func (c *cursor) readUint16BE(field string) (uint16, error) {
	b, err := c.next(2, field)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint16(b), nil
}

func (c *cursor) readUint32(field string) (uint32, error) {
	b, err := c.next(4, field)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) readUint64(field string) (uint64, error) {
	b, err := c.next(8, field)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint64(b), nil
}

func (c *cursor) readInt64(field string) (int64, error) {
	v, err := c.readUint64(field)

	return int64(v), err // #nosec G115
}

func (c *cursor) readArray4(field string) ([4]byte, error) {
	var a [4]byte

	b, err := c.next(len(a), field)
	if err != nil {
		return a, err
	}
	copy(a[:], b)

	return a, nil
}

func (c *cursor) readHash(field string) (chainhash.Hash, error) {
	var h chainhash.Hash

	b, err := c.next(chainhash.HashSize, field)
	if err != nil {
		return h, err
	}
	copy(h[:], b)

	return h, nil
}

func (c *cursor) readCompactSize(field string) (uint64, error) {
	v, n, err := DecodeCompactSize(c.rest())
	if err != nil {
		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			return 0, &DecodeError{Kind: decodeErr.Kind, Field: field, Err: decodeErr.Err}
		}

		return 0, err
	}
	c.advance(n)

	return v, nil
}

// readCount reads a CompactSize element count and checks it against the
// platform int range. Whether the elements are present is left to the caller.
func (c *cursor) readCount(field string) (int, error) {
	v, err := c.readCompactSize(field)
	if err != nil {
		return 0, err
	}

	n, err := safecast.ToInt(v)
	if err != nil {
		return 0, malformedLength(field, err)
	}

	return n, nil
}

// readVarBytes reads a CompactSize length followed by that many bytes and
// returns a copy of them.
func (c *cursor) readVarBytes(field string) ([]byte, error) {
	n, err := c.readCount(field)
	if err != nil {
		return nil, err
	}

	b, err := c.next(n, field)
	if err != nil {
		return nil, err
	}

	out := make([]byte, n)
	copy(out, b)

	return out, nil
}

// ensureElements checks that count fixed-size elements of size bytes each
// are present before any of them is read.
func (c *cursor) ensureElements(field string, count, size int) error {
	if count <= c.remaining()/size {
		return nil
	}

	need := math.MaxInt
	if count <= math.MaxInt/size {
		need = count * size
	}

	return truncated(field, need, c.remaining())
}

// capacityHint bounds a slice pre-allocation for count elements of at least
// minSize bytes by what the remaining input could possibly hold.
func (c *cursor) capacityHint(count, minSize int) int {
	return min(count, c.remaining()/minSize)
}
