package wire_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/libsv/go-p2p/chaincfg/chainhash"
	"pgregory.net/rapid"

	"github.com/bitcoin-sv/p2p-wire/pkg/wire"
)

var equateEmpty = cmpopts.EquateEmpty()

func hashGen() *rapid.Generator[chainhash.Hash] {
	return rapid.Custom(func(t *rapid.T) chainhash.Hash {
		var h chainhash.Hash
		copy(h[:], rapid.SliceOfN(rapid.Byte(), chainhash.HashSize, chainhash.HashSize).Draw(t, "hash"))
		return h
	})
}

func addressGen() *rapid.Generator[wire.Address] {
	return rapid.Custom(func(t *rapid.T) wire.Address {
		var a wire.Address
		a.Services = wire.ServiceFlag(rapid.Uint64().Draw(t, "services"))
		copy(a.IP[:], rapid.SliceOfN(rapid.Byte(), 16, 16).Draw(t, "ip"))
		a.Port = rapid.Uint16().Draw(t, "port")
		return a
	})
}

func inventoryGen() *rapid.Generator[wire.Inventory] {
	return rapid.Custom(func(t *rapid.T) wire.Inventory {
		return wire.Inventory{
			Type: wire.InvType(rapid.Uint32().Draw(t, "type")),
			Hash: hashGen().Draw(t, "hash"),
		}
	})
}

func scriptGen() *rapid.Generator[[]byte] {
	// up to 300 bytes so that 3 byte length prefixes are covered
	return rapid.SliceOfN(rapid.Byte(), 0, 300)
}

func txGen() *rapid.Generator[*wire.Tx] {
	return rapid.Custom(func(t *rapid.T) *wire.Tx {
		tx := wire.NewTx(rapid.Uint32().Draw(t, "version"))
		tx.TxIn = rapid.SliceOfN(rapid.Custom(func(t *rapid.T) *wire.TxIn {
			return wire.NewTxIn(
				wire.NewOutpoint(hashGen().Draw(t, "prev hash"), rapid.Uint32().Draw(t, "prev index")),
				scriptGen().Draw(t, "signature script"),
				rapid.Uint32().Draw(t, "sequence"),
			)
		}), 0, 5).Draw(t, "tx ins")
		tx.TxOut = rapid.SliceOfN(rapid.Custom(func(t *rapid.T) *wire.TxOut {
			return wire.NewTxOut(rapid.Int64().Draw(t, "value"), scriptGen().Draw(t, "pk script"))
		}), 0, 5).Draw(t, "tx outs")
		tx.LockTime = rapid.Uint32().Draw(t, "lock time")
		return tx
	})
}

func blockHeaderGen() *rapid.Generator[wire.BlockHeader] {
	return rapid.Custom(func(t *rapid.T) wire.BlockHeader {
		return wire.BlockHeader{
			Version:    rapid.Uint32().Draw(t, "block version"),
			PrevBlock:  hashGen().Draw(t, "prev block"),
			MerkleRoot: hashGen().Draw(t, "merkle root"),
			Timestamp:  rapid.Uint32().Draw(t, "timestamp"),
			Bits:       rapid.Uint32().Draw(t, "bits"),
			Nonce:      rapid.Uint32().Draw(t, "nonce"),
		}
	})
}

func merkleBranchGen() *rapid.Generator[wire.MerkleBranch] {
	return rapid.Custom(func(t *rapid.T) wire.MerkleBranch {
		return wire.MerkleBranch{
			Hashes:   rapid.SliceOfN(hashGen(), 0, 48).Draw(t, "branch"),
			SideMask: rapid.Uint32().Draw(t, "side mask"),
		}
	})
}

func roundTrip[T any](t *rapid.T, v T, encode func(T) []byte, decode func([]byte) (T, int, error)) {
	b := encode(v)

	decoded, n, err := decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != len(b) {
		t.Fatalf("consumed %d of %d bytes", n, len(b))
	}
	if diff := cmp.Diff(v, decoded, equateEmpty); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTrip_Property(t *testing.T) {
	t.Run("compact size", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			v := rapid.Uint64().Draw(t, "value")
			b := wire.EncodeCompactSize(v)
			decoded, n, err := wire.DecodeCompactSize(b)
			if err != nil || decoded != v || n != len(b) || n != wire.CompactSizeLen(v) {
				t.Fatalf("compact size %d: got %d, %d bytes, err %v", v, decoded, n, err)
			}
		})
	})

	t.Run("address", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			roundTrip(t, addressGen().Draw(t, "address"), wire.Address.Serialize, wire.DecodeAddress)
		})
	})

	t.Run("inventory", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			roundTrip(t, inventoryGen().Draw(t, "inventory"), wire.Inventory.Serialize, wire.DecodeInventory)
		})
	})

	t.Run("getdata", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			m := wire.NewGetData(rapid.SliceOfN(inventoryGen(), 0, 300).Draw(t, "inventory"))
			roundTrip(t, m, (*wire.GetData).Serialize, wire.DecodeGetData)
		})
	})

	t.Run("version", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			m := &wire.Version{
				Version:     rapid.Uint32().Draw(t, "version"),
				Services:    wire.ServiceFlag(rapid.Uint64().Draw(t, "services")),
				Timestamp:   rapid.Uint64().Draw(t, "timestamp"),
				AddrRecv:    addressGen().Draw(t, "addr recv"),
				AddrTrans:   addressGen().Draw(t, "addr trans"),
				Nonce:       rapid.Uint64().Draw(t, "nonce"),
				UserAgent:   rapid.StringN(-1, -1, 1024).Draw(t, "user agent"),
				StartHeight: rapid.Uint32().Draw(t, "start height"),
				Relay:       rapid.Bool().Draw(t, "relay"),
			}
			roundTrip(t, m, (*wire.Version).Serialize, wire.DecodeVersion)
		})
	})

	t.Run("outpoint", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			o := wire.NewOutpoint(hashGen().Draw(t, "hash"), rapid.Uint32().Draw(t, "index"))
			roundTrip(t, o, wire.Outpoint.Serialize, wire.DecodeOutpoint)
		})
	})

	t.Run("tx", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			tx := txGen().Draw(t, "tx")
			roundTrip(t, tx, (*wire.Tx).Serialize, wire.DecodeTx)
			for _, in := range tx.TxIn {
				roundTrip(t, in, (*wire.TxIn).Serialize, wire.DecodeTxIn)
			}
			for _, out := range tx.TxOut {
				roundTrip(t, out, (*wire.TxOut).Serialize, wire.DecodeTxOut)
			}
		})
	})

	t.Run("block", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			params := wire.AuxPoWParams{
				Enabled:           rapid.Bool().Draw(t, "auxpow enabled"),
				ActivationVersion: wire.DefaultAuxPoWActivationVersion,
			}

			b := &wire.Block{
				BlockHeader:  blockHeaderGen().Draw(t, "header"),
				Transactions: rapid.SliceOfN(txGen(), 0, 4).Draw(t, "transactions"),
			}
			if params.Applies(b.Version) {
				b.AuxPoW = &wire.AuxPoWHeader{
					CoinbaseTx:       txGen().Draw(t, "coinbase"),
					ParentBlockHash:  hashGen().Draw(t, "parent block hash"),
					CoinbaseBranch:   merkleBranchGen().Draw(t, "coinbase branch"),
					BlockchainBranch: merkleBranchGen().Draw(t, "blockchain branch"),
					ParentBlock:      blockHeaderGen().Draw(t, "parent header"),
				}
			}

			roundTrip(t, b, (*wire.Block).Serialize, func(in []byte) (*wire.Block, int, error) {
				return wire.DecodeBlock(in, params)
			})
		})
	})

	t.Run("message", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			var magic [4]byte
			copy(magic[:], rapid.SliceOfN(rapid.Byte(), 4, 4).Draw(t, "magic"))
			command := rapid.StringMatching(`[a-z]{1,12}`).Draw(t, "command")
			payload := rapid.SliceOfN(rapid.Byte(), 0, 512).Draw(t, "payload")

			roundTrip(t, wire.NewMessage(magic, command, payload), (*wire.Message).Serialize, wire.DecodeMessage)
		})
	})
}
