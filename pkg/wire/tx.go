package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/libsv/go-p2p/chaincfg/chainhash"
)

const (
	// OutpointSize is the wire size of an Outpoint: hash 32 + index 4.
	OutpointSize = chainhash.HashSize + 4

	// smallest encodings, used to bound pre-allocations
	minTxInSize  = OutpointSize + 1 + 4
	minTxOutSize = 8 + 1
	minTxSize    = 4 + 1 + 1 + 4
)

// Outpoint references output Index of the transaction with hash Hash.
type Outpoint struct {
	Hash  chainhash.Hash
	Index uint32
}

func NewOutpoint(hash chainhash.Hash, index uint32) Outpoint {
	return Outpoint{Hash: hash, Index: index}
}

func (o Outpoint) String() string {
	return fmt.Sprintf("%s:%d", o.Hash, o.Index)
}

func (o Outpoint) appendTo(b []byte) []byte {
	b = append(b, o.Hash[:]...)
	return binary.LittleEndian.AppendUint32(b, o.Index)
}

func (o Outpoint) Serialize() []byte {
	return o.appendTo(make([]byte, 0, OutpointSize))
}

func DecodeOutpoint(b []byte) (Outpoint, int, error) {
	c := newCursor(b)

	if c.remaining() < OutpointSize {
		return Outpoint{}, 0, truncated("previous_output", OutpointSize, c.remaining())
	}

	hash, _ := c.readHash("previous_output")
	index, _ := c.readUint32("previous_output")

	return Outpoint{Hash: hash, Index: index}, c.pos, nil
}

// TxIn spends PreviousOutput.
type TxIn struct {
	PreviousOutput  Outpoint
	SignatureScript []byte
	Sequence        uint32
}

func NewTxIn(prev Outpoint, signatureScript []byte, sequence uint32) *TxIn {
	return &TxIn{PreviousOutput: prev, SignatureScript: signatureScript, Sequence: sequence}
}

func (in *TxIn) SerializeSize() int {
	return OutpointSize + CompactSizeLen(uint64(len(in.SignatureScript))) + len(in.SignatureScript) + 4
}

func (in *TxIn) appendTo(b []byte) []byte {
	b = in.PreviousOutput.appendTo(b)
	b = AppendCompactSize(b, uint64(len(in.SignatureScript)))
	b = append(b, in.SignatureScript...)
	return binary.LittleEndian.AppendUint32(b, in.Sequence)
}

func (in *TxIn) Serialize() []byte {
	return in.appendTo(make([]byte, 0, in.SerializeSize()))
}

// DecodeTxIn reads a TxIn from the start of b and returns it with the number
// of bytes it occupied.
func DecodeTxIn(b []byte) (*TxIn, int, error) {
	c := newCursor(b)

	prev, n, err := DecodeOutpoint(c.rest())
	if err != nil {
		return nil, 0, err
	}
	c.advance(n)

	script, err := c.readVarBytes("signature_script")
	if err != nil {
		return nil, 0, err
	}

	sequence, err := c.readUint32("sequence")
	if err != nil {
		return nil, 0, err
	}

	return &TxIn{PreviousOutput: prev, SignatureScript: script, Sequence: sequence}, c.pos, nil
}

// TxOut assigns Value satoshis to PkScript. Negative values decode as is.
type TxOut struct {
	Value    int64
	PkScript []byte
}

func NewTxOut(value int64, pkScript []byte) *TxOut {
	return &TxOut{Value: value, PkScript: pkScript}
}

func (out *TxOut) SerializeSize() int {
	return 8 + CompactSizeLen(uint64(len(out.PkScript))) + len(out.PkScript)
}

func (out *TxOut) appendTo(b []byte) []byte {
	b = binary.LittleEndian.AppendUint64(b, uint64(out.Value)) // #nosec G115
	b = AppendCompactSize(b, uint64(len(out.PkScript)))
	return append(b, out.PkScript...)
}

func (out *TxOut) Serialize() []byte {
	return out.appendTo(make([]byte, 0, out.SerializeSize()))
}

func DecodeTxOut(b []byte) (*TxOut, int, error) {
	c := newCursor(b)

	value, err := c.readInt64("value")
	if err != nil {
		return nil, 0, err
	}

	script, err := c.readVarBytes("pk_script")
	if err != nil {
		return nil, 0, err
	}

	return &TxOut{Value: value, PkScript: script}, c.pos, nil
}

// Tx is a transaction in its legacy (non-segwit) serialization.
type Tx struct {
	Version  uint32
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32
}

var _ Payload = (*Tx)(nil)

func NewTx(version uint32) *Tx {
	return &Tx{Version: version}
}

func (tx *Tx) AddTxIn(in *TxIn) {
	tx.TxIn = append(tx.TxIn, in)
}

func (tx *Tx) AddTxOut(out *TxOut) {
	tx.TxOut = append(tx.TxOut, out)
}

func (tx *Tx) Command() string {
	return CmdTx
}

func (tx *Tx) SerializeSize() int {
	n := 4 + CompactSizeLen(uint64(len(tx.TxIn))) + CompactSizeLen(uint64(len(tx.TxOut))) + 4
	for _, in := range tx.TxIn {
		n += in.SerializeSize()
	}
	for _, out := range tx.TxOut {
		n += out.SerializeSize()
	}

	return n
}

func (tx *Tx) appendTo(b []byte) []byte {
	b = binary.LittleEndian.AppendUint32(b, tx.Version)

	b = AppendCompactSize(b, uint64(len(tx.TxIn)))
	for _, in := range tx.TxIn {
		b = in.appendTo(b)
	}

	b = AppendCompactSize(b, uint64(len(tx.TxOut)))
	for _, out := range tx.TxOut {
		b = out.appendTo(b)
	}

	return binary.LittleEndian.AppendUint32(b, tx.LockTime)
}

func (tx *Tx) Serialize() []byte {
	return tx.appendTo(make([]byte, 0, tx.SerializeSize()))
}

// TxID returns the double SHA-256 of the serialized transaction, in wire order.
func (tx *Tx) TxID() chainhash.Hash {
	return DoubleHash(tx.Serialize())
}

// DecodeTx reads a transaction from the start of b. Inputs and outputs are
// parsed one after the other, each advancing the cursor by the size it
// reported, and the total number of bytes consumed is returned.
func DecodeTx(b []byte) (*Tx, int, error) {
	c := newCursor(b)
	tx := &Tx{}

	var err error

	tx.Version, err = c.readUint32("tx version")
	if err != nil {
		return nil, 0, err
	}

	inCount, err := c.readCount("tx_in count")
	if err != nil {
		return nil, 0, err
	}

	tx.TxIn = make([]*TxIn, 0, c.capacityHint(inCount, minTxInSize))
	for range inCount {
		in, n, err := DecodeTxIn(c.rest())
		if err != nil {
			return nil, 0, err
		}
		c.advance(n)
		tx.TxIn = append(tx.TxIn, in)
	}

	outCount, err := c.readCount("tx_out count")
	if err != nil {
		return nil, 0, err
	}

	tx.TxOut = make([]*TxOut, 0, c.capacityHint(outCount, minTxOutSize))
	for range outCount {
		out, n, err := DecodeTxOut(c.rest())
		if err != nil {
			return nil, 0, err
		}
		c.advance(n)
		tx.TxOut = append(tx.TxOut, out)
	}

	tx.LockTime, err = c.readUint32("lock_time")
	if err != nil {
		return nil, 0, err
	}

	return tx, c.pos, nil
}
