package wire

import (
	"encoding/binary"

	"github.com/libsv/go-p2p/chaincfg/chainhash"
)

// BlockLocator is the shared body of getblocks and getheaders: a protocol
// version, hashes from the tip backwards and the hash to stop at (zero for as
// many as allowed).
type BlockLocator struct {
	Version  uint32
	Hashes   []chainhash.Hash
	HashStop chainhash.Hash
}

func (l *BlockLocator) serializeSize() int {
	return 4 + CompactSizeLen(uint64(len(l.Hashes))) + len(l.Hashes)*chainhash.HashSize + chainhash.HashSize
}

func (l *BlockLocator) serialize() []byte {
	b := make([]byte, 0, l.serializeSize())

	b = binary.LittleEndian.AppendUint32(b, l.Version)
	b = AppendCompactSize(b, uint64(len(l.Hashes)))
	for _, h := range l.Hashes {
		b = append(b, h[:]...)
	}

	return append(b, l.HashStop[:]...)
}

func readBlockLocator(c *cursor) (BlockLocator, error) {
	var (
		l   BlockLocator
		err error
	)

	l.Version, err = c.readUint32("version")
	if err != nil {
		return l, err
	}

	count, err := c.readCount("locator count")
	if err != nil {
		return l, err
	}

	if err := c.ensureElements("locator hashes", count, chainhash.HashSize); err != nil {
		return l, err
	}

	l.Hashes = make([]chainhash.Hash, 0, count)
	for range count {
		h, err := c.readHash("locator hash")
		if err != nil {
			return l, err
		}
		l.Hashes = append(l.Hashes, h)
	}

	l.HashStop, err = c.readHash("hash_stop")

	return l, err
}

// GetBlocks asks for an inv of the blocks following the locator.
type GetBlocks struct {
	BlockLocator
}

var _ Payload = (*GetBlocks)(nil)

func NewGetBlocks(version uint32, hashes []chainhash.Hash, hashStop chainhash.Hash) *GetBlocks {
	return &GetBlocks{BlockLocator{Version: version, Hashes: hashes, HashStop: hashStop}}
}

func (m *GetBlocks) Command() string {
	return CmdGetBlocks
}

func (m *GetBlocks) Serialize() []byte {
	return m.serialize()
}

func DecodeGetBlocks(b []byte) (*GetBlocks, int, error) {
	c := newCursor(b)

	l, err := readBlockLocator(c)
	if err != nil {
		return nil, 0, err
	}

	return &GetBlocks{l}, c.pos, nil
}

// GetHeaders asks for the headers following the locator.
type GetHeaders struct {
	BlockLocator
}

var _ Payload = (*GetHeaders)(nil)

func NewGetHeaders(version uint32, hashes []chainhash.Hash, hashStop chainhash.Hash) *GetHeaders {
	return &GetHeaders{BlockLocator{Version: version, Hashes: hashes, HashStop: hashStop}}
}

func (m *GetHeaders) Command() string {
	return CmdGetHeaders
}

func (m *GetHeaders) Serialize() []byte {
	return m.serialize()
}

func DecodeGetHeaders(b []byte) (*GetHeaders, int, error) {
	c := newCursor(b)

	l, err := readBlockLocator(c)
	if err != nil {
		return nil, 0, err
	}

	return &GetHeaders{l}, c.pos, nil
}
