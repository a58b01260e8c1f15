package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/libsv/go-p2p/chaincfg/chainhash"
)

// BlockHeaderSize is the fixed wire size of a block header.
const BlockHeaderSize = 4 + chainhash.HashSize + chainhash.HashSize + 4 + 4 + 4

// BlockHeader is the 80 byte header whose double SHA-256 identifies a block.
type BlockHeader struct {
	Version    uint32
	PrevBlock  chainhash.Hash
	MerkleRoot chainhash.Hash
	Timestamp  uint32
	Bits       uint32
	Nonce      uint32
}

func (h *BlockHeader) appendTo(b []byte) []byte {
	b = binary.LittleEndian.AppendUint32(b, h.Version)
	b = append(b, h.PrevBlock[:]...)
	b = append(b, h.MerkleRoot[:]...)
	b = binary.LittleEndian.AppendUint32(b, h.Timestamp)
	b = binary.LittleEndian.AppendUint32(b, h.Bits)
	return binary.LittleEndian.AppendUint32(b, h.Nonce)
}

func (h *BlockHeader) Serialize() []byte {
	return h.appendTo(make([]byte, 0, BlockHeaderSize))
}

// Hash returns the double SHA-256 of the 80 byte header.
func (h *BlockHeader) Hash() chainhash.Hash {
	return DoubleHash(h.Serialize())
}

func DecodeBlockHeader(b []byte) (*BlockHeader, int, error) {
	c := newCursor(b)

	if c.remaining() < BlockHeaderSize {
		return nil, 0, truncated("block header", BlockHeaderSize, c.remaining())
	}

	h := &BlockHeader{}
	h.Version, _ = c.readUint32("block version")
	h.PrevBlock, _ = c.readHash("prev block")
	h.MerkleRoot, _ = c.readHash("merkle root")
	h.Timestamp, _ = c.readUint32("timestamp")
	h.Bits, _ = c.readUint32("bits")
	h.Nonce, _ = c.readUint32("nonce")

	return h, c.pos, nil
}

// Block is a header, the AuxPoW proof on merge-mined chains, and the transactions.
// Serialize writes AuxPoW whenever it is set; the bytes only decode back to
// the same block when that agrees with AuxPoWParams.Applies for Version,
// which Validate checks.
type Block struct {
	BlockHeader
	AuxPoW       *AuxPoWHeader
	Transactions []*Tx
}

var _ Payload = (*Block)(nil)

func NewBlock(header BlockHeader, auxPoW *AuxPoWHeader, txs []*Tx) *Block {
	return &Block{BlockHeader: header, AuxPoW: auxPoW, Transactions: txs}
}

func (b *Block) Command() string {
	return CmdBlock
}

// Validate reports ErrAuxPoWMismatch when the AuxPoW header is set but params
// do not expect one for the block version, or the other way round.
func (b *Block) Validate(params AuxPoWParams) error {
	expected := params.Applies(b.Version)
	if expected == (b.AuxPoW != nil) {
		return nil
	}

	if expected {
		return fmt.Errorf("%w: version %d requires an AuxPoW header", ErrAuxPoWMismatch, b.Version)
	}

	return fmt.Errorf("%w: version %d must not carry an AuxPoW header", ErrAuxPoWMismatch, b.Version)
}

func (b *Block) SerializeSize() int {
	n := BlockHeaderSize + CompactSizeLen(uint64(len(b.Transactions)))
	if b.AuxPoW != nil {
		n += b.AuxPoW.SerializeSize()
	}
	for _, tx := range b.Transactions {
		n += tx.SerializeSize()
	}

	return n
}

// Serialize writes the header, the AuxPoW header when set, and every transaction.
func (b *Block) Serialize() []byte {
	out := b.BlockHeader.appendTo(make([]byte, 0, b.SerializeSize()))
	if b.AuxPoW != nil {
		out = b.AuxPoW.appendTo(out)
	}

	out = AppendCompactSize(out, uint64(len(b.Transactions)))
	for _, tx := range b.Transactions {
		out = tx.appendTo(out)
	}

	return out
}

// DecodeBlock reads a block from the start of b. An AuxPoW header is expected
// after the fixed header when auxPoW applies to the block version.
func DecodeBlock(b []byte, auxPoW AuxPoWParams) (*Block, int, error) {
	c := newCursor(b)

	header, n, err := DecodeBlockHeader(c.rest())
	if err != nil {
		return nil, 0, err
	}
	c.advance(n)

	block := &Block{BlockHeader: *header}

	if auxPoW.Applies(header.Version) {
		block.AuxPoW, n, err = DecodeAuxPoWHeader(c.rest())
		if err != nil {
			return nil, 0, err
		}
		c.advance(n)
	}

	count, err := c.readCount("tx count")
	if err != nil {
		return nil, 0, err
	}

	block.Transactions = make([]*Tx, 0, c.capacityHint(count, minTxSize))
	for range count {
		tx, n, err := DecodeTx(c.rest())
		if err != nil {
			return nil, 0, err
		}
		c.advance(n)
		block.Transactions = append(block.Transactions, tx)
	}

	return block, c.pos, nil
}
