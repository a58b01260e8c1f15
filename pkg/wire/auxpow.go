package wire

import (
	"encoding/binary"

	"github.com/libsv/go-p2p/chaincfg/chainhash"
)

// DefaultAuxPoWActivationVersion is the lowest block version carrying an AuxPoW header on Dogecoin.
const DefaultAuxPoWActivationVersion uint32 = 6422787

// AuxPoWParams decides whether a block carries an AuxPoW header. It is passed
// to the block decoder per call.
type AuxPoWParams struct {
	Enabled           bool
	ActivationVersion uint32
}

// Applies reports whether a block of the given version carries an AuxPoW header.
func (p AuxPoWParams) Applies(version uint32) bool {
	return p.Enabled && version >= p.ActivationVersion
}

// MerkleBranch is a path of sibling hashes, SideMask selecting at each level
// whether the sibling sits on the right.
type MerkleBranch struct {
	Hashes   []chainhash.Hash
	SideMask uint32
}

func (m *MerkleBranch) serializeSize() int {
	return CompactSizeLen(uint64(len(m.Hashes))) + len(m.Hashes)*chainhash.HashSize + 4
}

func (m *MerkleBranch) appendTo(b []byte) []byte {
	b = AppendCompactSize(b, uint64(len(m.Hashes)))
	for _, h := range m.Hashes {
		b = append(b, h[:]...)
	}

	return binary.LittleEndian.AppendUint32(b, m.SideMask)
}

func readMerkleBranch(c *cursor, field string) (MerkleBranch, error) {
	var m MerkleBranch

	count, err := c.readCount(field)
	if err != nil {
		return m, err
	}

	if err := c.ensureElements(field, count, chainhash.HashSize); err != nil {
		return m, err
	}

	m.Hashes = make([]chainhash.Hash, 0, count)
	for range count {
		h, _ := c.readHash(field)
		m.Hashes = append(m.Hashes, h)
	}

	m.SideMask, err = c.readUint32(field + " side mask")

	return m, err
}

// AuxPoWHeader proves that the block was merge mined as part of ParentBlock:
// the parent's coinbase commits to this chain's block hash through
// BlockchainBranch, and CoinbaseBranch links that coinbase to the parent's
// merkle root.
type AuxPoWHeader struct {
	CoinbaseTx       *Tx
	ParentBlockHash  chainhash.Hash
	CoinbaseBranch   MerkleBranch
	BlockchainBranch MerkleBranch
	ParentBlock      BlockHeader
}

func (a *AuxPoWHeader) SerializeSize() int {
	return a.CoinbaseTx.SerializeSize() + chainhash.HashSize +
		a.CoinbaseBranch.serializeSize() + a.BlockchainBranch.serializeSize() + BlockHeaderSize
}

func (a *AuxPoWHeader) appendTo(b []byte) []byte {
	b = a.CoinbaseTx.appendTo(b)
	b = append(b, a.ParentBlockHash[:]...)
	b = a.CoinbaseBranch.appendTo(b)
	b = a.BlockchainBranch.appendTo(b)

	return a.ParentBlock.appendTo(b)
}

func (a *AuxPoWHeader) Serialize() []byte {
	return a.appendTo(make([]byte, 0, a.SerializeSize()))
}

// DecodeAuxPoWHeader reads an AuxPoW header from the start of b.
func DecodeAuxPoWHeader(b []byte) (*AuxPoWHeader, int, error) {
	c := newCursor(b)
	a := &AuxPoWHeader{}

	coinbase, n, err := DecodeTx(c.rest())
	if err != nil {
		return nil, 0, err
	}
	c.advance(n)
	a.CoinbaseTx = coinbase

	a.ParentBlockHash, err = c.readHash("parent block hash")
	if err != nil {
		return nil, 0, err
	}

	a.CoinbaseBranch, err = readMerkleBranch(c, "coinbase branch")
	if err != nil {
		return nil, 0, err
	}

	a.BlockchainBranch, err = readMerkleBranch(c, "blockchain branch")
	if err != nil {
		return nil, 0, err
	}

	parent, n, err := DecodeBlockHeader(c.rest())
	if err != nil {
		return nil, 0, err
	}
	c.advance(n)
	a.ParentBlock = *parent

	return a, c.pos, nil
}
