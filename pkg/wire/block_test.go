package wire_test

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/libsv/go-p2p/chaincfg/chainhash"
	bsvwire "github.com/libsv/go-p2p/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutils "github.com/bitcoin-sv/p2p-wire/pkg/test_utils"
	"github.com/bitcoin-sv/p2p-wire/pkg/wire"
)

var dogeAuxPoW = wire.AuxPoWParams{Enabled: true, ActivationVersion: wire.DefaultAuxPoWActivationVersion}

func auxPoWHeader() *wire.AuxPoWHeader {
	return &wire.AuxPoWHeader{
		CoinbaseTx:      spendTx(1, 2),
		ParentBlockHash: blockHash,
		CoinbaseBranch: wire.MerkleBranch{
			Hashes:   []chainhash.Hash{blockHash, {0x01}, {0x02}},
			SideMask: 0,
		},
		BlockchainBranch: wire.MerkleBranch{
			Hashes:   []chainhash.Hash{},
			SideMask: 5,
		},
		ParentBlock: wire.BlockHeader{
			Version:    0x20000000,
			PrevBlock:  chainhash.Hash{0xaa},
			MerkleRoot: chainhash.Hash{0xbb},
			Timestamp:  1700000000,
			Bits:       0x1a01aa3d,
			Nonce:      12345,
		},
	}
}

func TestBlock_LibsvCompatible(t *testing.T) {
	// given
	msgBlock := bsvwire.NewMsgBlock(bsvwire.NewBlockHeader(1, &blockHash, &blockHash, 0x1d00ffff, 2083236893))

	var buff bytes.Buffer
	err := msgBlock.AddTransaction(&bsvwire.MsgTx{
		Version: 1,
		TxIn: []*bsvwire.TxIn{
			{
				PreviousOutPoint: bsvwire.OutPoint{Index: 0xffffffff},
				SignatureScript:  []byte{0x04, 0xff, 0xff, 0x00, 0x1d, 0x01, 0x04},
				Sequence:         0xffffffff,
			},
		},
		TxOut: []*bsvwire.TxOut{{Value: 0x12a05f200, PkScript: genesisPkScript}},
	})
	require.NoError(t, err)
	err = msgBlock.Serialize(&buff)
	require.NoError(t, err)

	// when
	actual, n, err := wire.DecodeBlock(buff.Bytes(), wire.AuxPoWParams{})

	// then
	require.NoError(t, err)
	require.Equal(t, buff.Len(), n)
	require.Equal(t, msgBlock.BlockHash(), actual.Hash())
	require.Equal(t, uint32(msgBlock.Header.Timestamp.Unix()), actual.Timestamp)
	require.Len(t, actual.Transactions, 1)
	require.Equal(t, coinbaseTx().TxID(), actual.Transactions[0].TxID())
	require.Nil(t, actual.AuxPoW)

	// when
	sut := wire.NewBlock(actual.BlockHeader, nil, []*wire.Tx{coinbaseTx()})

	// then
	require.Equal(t, buff.Bytes(), sut.Serialize())
	require.Equal(t, buff.Len(), sut.SerializeSize())
}

func TestDecodeBlock_Transactions(t *testing.T) {
	shapes := []struct{ ins, outs int }{{1, 1}, {3, 2}, {1, 7}, {6, 0}, {0, 3}, {2, 9}}

	for n := 0; n <= len(shapes); n++ {
		// given
		txs := make([]*wire.Tx, 0, n)
		for _, s := range shapes[:n] {
			txs = append(txs, spendTx(s.ins, s.outs))
		}

		sut := wire.NewBlock(wire.BlockHeader{Version: 4, Bits: 0x1d00ffff}, nil, txs)
		input := sut.Serialize()
		next := []byte{0xf9, 0xbe, 0xb4, 0xd9}

		// when
		actual, consumed, err := wire.DecodeBlock(append(bytes.Clone(input), next...), wire.AuxPoWParams{})

		// then
		require.NoError(t, err)
		require.Equal(t, len(input), consumed, "%d transactions", n)
		require.Len(t, actual.Transactions, n)
		for i, tx := range actual.Transactions {
			assert.Equal(t, txs[i].TxID(), tx.TxID())
			assert.Len(t, tx.TxIn, shapes[i].ins)
			assert.Len(t, tx.TxOut, shapes[i].outs)
		}
	}
}

func TestDecodeBlock_AuxPoW(t *testing.T) {
	header := wire.BlockHeader{
		Version:    wire.DefaultAuxPoWActivationVersion,
		PrevBlock:  blockHash,
		MerkleRoot: chainhash.Hash{0x07},
		Timestamp:  1700000100,
		Bits:       0x1a01aa3d,
		Nonce:      0,
	}

	testutils.RunParallel(t, true, "round trip with AuxPoW", func(t *testing.T) {
		// given
		sut := wire.NewBlock(header, auxPoWHeader(), []*wire.Tx{coinbaseTx(), spendTx(2, 2)})
		input := sut.Serialize()

		// when
		actual, n, err := wire.DecodeBlock(input, dogeAuxPoW)

		// then
		require.NoError(t, err)
		require.Equal(t, len(input), n)
		require.Equal(t, sut, actual)
		require.Equal(t, sut.SerializeSize(), len(input))
	})

	testutils.RunParallel(t, true, "hash excludes AuxPoW and transactions", func(t *testing.T) {
		// given
		withAuxPoW := wire.NewBlock(header, auxPoWHeader(), []*wire.Tx{coinbaseTx()})
		bare := wire.NewBlock(header, nil, nil)

		// then
		require.Equal(t, bare.Hash(), withAuxPoW.Hash())
		require.Equal(t, wire.DoubleHash(withAuxPoW.Serialize()[:wire.BlockHeaderSize]), withAuxPoW.Hash())
	})

	testutils.RunParallel(t, true, "AuxPoW not expected below activation version", func(t *testing.T) {
		// given
		below := header
		below.Version = wire.DefaultAuxPoWActivationVersion - 1
		sut := wire.NewBlock(below, nil, []*wire.Tx{coinbaseTx()})

		// when
		actual, _, err := wire.DecodeBlock(sut.Serialize(), dogeAuxPoW)

		// then
		require.NoError(t, err)
		require.Nil(t, actual.AuxPoW)
	})

	testutils.RunParallel(t, true, "AuxPoW ignored when disabled", func(t *testing.T) {
		// given
		sut := wire.NewBlock(header, nil, []*wire.Tx{coinbaseTx()})

		// when
		actual, _, err := wire.DecodeBlock(sut.Serialize(), wire.AuxPoWParams{ActivationVersion: wire.DefaultAuxPoWActivationVersion})

		// then
		require.NoError(t, err)
		require.Nil(t, actual.AuxPoW)
	})

	testutils.RunParallel(t, true, "truncated AuxPoW", func(t *testing.T) {
		// given
		input := wire.NewBlock(header, auxPoWHeader(), nil).Serialize()

		// when
		_, _, err := wire.DecodeBlock(input[:len(input)-10], dogeAuxPoW)

		// then
		require.ErrorIs(t, err, wire.ErrTruncated)
	})

	testutils.RunParallel(t, true, "long merkle branches", func(t *testing.T) {
		// given
		aux := auxPoWHeader()
		aux.CoinbaseBranch.Hashes = make([]chainhash.Hash, 33)
		aux.BlockchainBranch.Hashes = make([]chainhash.Hash, 40)
		input := aux.Serialize()

		// when
		actual, n, err := wire.DecodeAuxPoWHeader(input)

		// then
		require.NoError(t, err)
		require.Equal(t, len(input), n)
		require.Equal(t, aux, actual)
	})

	testutils.RunParallel(t, true, "merkle branch count overflowing the hash size", func(t *testing.T) {
		// given
		aux := auxPoWHeader()
		aux.CoinbaseBranch.Hashes = nil
		input := aux.Serialize()
		offset := aux.CoinbaseTx.SerializeSize() + chainhash.HashSize
		input = append(input[:offset:offset], 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x07)

		// when
		_, _, err := wire.DecodeAuxPoWHeader(input)

		// then
		require.ErrorIs(t, err, wire.ErrTruncated)
	})
}

func appendBranch(t *testing.T, b []byte, hashes []chainhash.Hash, sideMask uint32) []byte {
	t.Helper()

	var buff bytes.Buffer
	require.NoError(t, bsvwire.WriteVarInt(&buff, 0, uint64(len(hashes))))
	for _, h := range hashes {
		buff.Write(h[:])
	}

	return binary.LittleEndian.AppendUint32(append(b, buff.Bytes()...), sideMask)
}

func serializeHeader(t *testing.T, h *bsvwire.BlockHeader) []byte {
	t.Helper()

	var buff bytes.Buffer
	require.NoError(t, h.Serialize(&buff))

	return buff.Bytes()
}

// Merge-mined blocks on Dogecoin and Namecoin carry the parent coinbase as a
// merkle tx (tx, parent block hash, branch, index), then the chain branch and
// index, then the 80 byte parent header.
func TestDecodeBlock_MergeMinedLayout(t *testing.T) {
	// given
	child := bsvwire.NewBlockHeader(int32(wire.DefaultAuxPoWActivationVersion), &blockHash, &chainhash.Hash{0x07}, 0x1b267eeb, 0)
	child.Timestamp = time.Unix(1410464577, 0)
	childHash := child.BlockHash()

	commitment := append([]byte{0x03, 0x4b, 0x3c, 0x05, 0xfa, 0xbe, 'm', 'm'}, childHash[:]...)
	commitment = append(commitment, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00)
	parentCoinbase := &bsvwire.MsgTx{
		Version: 1,
		TxIn: []*bsvwire.TxIn{{
			PreviousOutPoint: bsvwire.OutPoint{Index: 0xffffffff},
			SignatureScript:  commitment,
			Sequence:         0xffffffff,
		}},
		TxOut:    []*bsvwire.TxOut{{Value: 2500000000, PkScript: genesisPkScript}},
		LockTime: 0,
	}

	var coinbaseBuff bytes.Buffer
	require.NoError(t, parentCoinbase.Serialize(&coinbaseBuff))

	parent := bsvwire.NewBlockHeader(2, &chainhash.Hash{0xaa}, &chainhash.Hash{0xbb}, 0x1b0404cb, 2083236893)
	parent.Timestamp = time.Unix(1410464570, 0)
	parentHash := parent.BlockHash()

	coinbaseBranch := []chainhash.Hash{{0x11}, {0x12}, {0x13}}
	chainBranch := []chainhash.Hash{{0x21}}

	input := serializeHeader(t, child)
	coinbaseOffset := len(input)
	input = append(input, coinbaseBuff.Bytes()...)
	input = append(input, parentHash[:]...)
	input = appendBranch(t, input, coinbaseBranch, 0)
	input = appendBranch(t, input, chainBranch, 1)
	input = append(input, serializeHeader(t, parent)...)
	input = append(input, 0x01)
	input = append(input, coinbaseTx().Serialize()...)

	// when
	actual, n, err := wire.DecodeBlock(input, wire.DogecoinMainNetParams.AuxPoW)

	// then
	require.NoError(t, err)
	require.Equal(t, len(input), n)
	require.Equal(t, childHash, actual.Hash())
	require.NotNil(t, actual.AuxPoW)

	aux := actual.AuxPoW
	assert.Equal(t, parentCoinbase.TxHash(), aux.CoinbaseTx.TxID())
	assert.Equal(t, parentHash, aux.ParentBlockHash)
	assert.Equal(t, coinbaseBranch, aux.CoinbaseBranch.Hashes)
	assert.Equal(t, uint32(0), aux.CoinbaseBranch.SideMask)
	assert.Equal(t, chainBranch, aux.BlockchainBranch.Hashes)
	assert.Equal(t, uint32(1), aux.BlockchainBranch.SideMask)
	assert.Equal(t, parentHash, aux.ParentBlock.Hash())
	require.Len(t, actual.Transactions, 1)
	assert.Equal(t, coinbaseTx().TxID(), actual.Transactions[0].TxID())

	// parent block hash follows the coinbase directly
	parentHashOffset := coinbaseOffset + coinbaseBuff.Len()
	assert.Equal(t, parentHash[:], input[parentHashOffset:parentHashOffset+chainhash.HashSize])
	assert.Equal(t, input, actual.Serialize())
}

func TestAuxPoWParams_Applies(t *testing.T) {
	tt := []struct {
		name     string
		params   wire.AuxPoWParams
		version  uint32
		expected bool
	}{
		{name: "disabled", params: wire.AuxPoWParams{ActivationVersion: 1}, version: 10, expected: false},
		{name: "below", params: dogeAuxPoW, version: wire.DefaultAuxPoWActivationVersion - 1, expected: false},
		{name: "at", params: dogeAuxPoW, version: wire.DefaultAuxPoWActivationVersion, expected: true},
		{name: "above", params: dogeAuxPoW, version: wire.DefaultAuxPoWActivationVersion + 1, expected: true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.params.Applies(tc.version))
		})
	}
}

func TestBlock_Validate(t *testing.T) {
	activated := wire.BlockHeader{Version: wire.DefaultAuxPoWActivationVersion}
	below := wire.BlockHeader{Version: wire.DefaultAuxPoWActivationVersion - 1}

	tt := []struct {
		name          string
		block         *wire.Block
		params        wire.AuxPoWParams
		expectedError error
	}{
		{
			name:   "AuxPoW at activation version",
			block:  wire.NewBlock(activated, auxPoWHeader(), []*wire.Tx{}),
			params: dogeAuxPoW,
		},
		{
			name:   "no AuxPoW below activation version",
			block:  wire.NewBlock(below, nil, []*wire.Tx{}),
			params: dogeAuxPoW,
		},
		{
			name:          "AuxPoW below activation version",
			block:         wire.NewBlock(below, auxPoWHeader(), []*wire.Tx{}),
			params:        dogeAuxPoW,
			expectedError: wire.ErrAuxPoWMismatch,
		},
		{
			name:          "AuxPoW missing at activation version",
			block:         wire.NewBlock(activated, nil, []*wire.Tx{}),
			params:        dogeAuxPoW,
			expectedError: wire.ErrAuxPoWMismatch,
		},
		{
			name:          "AuxPoW with merge mining disabled",
			block:         wire.NewBlock(activated, auxPoWHeader(), []*wire.Tx{}),
			params:        wire.AuxPoWParams{},
			expectedError: wire.ErrAuxPoWMismatch,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			// when
			err := tc.block.Validate(tc.params)

			// then
			require.ErrorIs(t, err, tc.expectedError)
			if err != nil {
				return
			}

			actual, _, err := wire.DecodeBlock(tc.block.Serialize(), tc.params)
			require.NoError(t, err)
			require.Equal(t, tc.block, actual)
		})
	}
}
