package wire

import (
	"encoding/binary"
	"fmt"

	bsvwire "github.com/libsv/go-p2p/wire"
)

// ChainParams describes the frame magic and block layout of one network.
type ChainParams struct {
	Name   string
	Magic  [4]byte
	AuxPoW AuxPoWParams
}

var (
	MainNetParams = ChainParams{
		Name:  "mainnet",
		Magic: MagicFromNet(bsvwire.MainNet),
	}

	TestNetParams = ChainParams{
		Name:  "testnet",
		Magic: MagicFromNet(bsvwire.TestNet3),
	}

	RegTestParams = ChainParams{
		Name:  "regtest",
		Magic: MagicFromNet(bsvwire.TestNet),
	}

	DogecoinMainNetParams = ChainParams{
		Name:   "dogecoin-mainnet",
		Magic:  [4]byte{0xc0, 0xc0, 0xc0, 0xc0},
		AuxPoW: AuxPoWParams{Enabled: true, ActivationVersion: DefaultAuxPoWActivationVersion},
	}

	DogecoinTestNetParams = ChainParams{
		Name:   "dogecoin-testnet",
		Magic:  [4]byte{0xfc, 0xc1, 0xb7, 0xdc},
		AuxPoW: AuxPoWParams{Enabled: true, ActivationVersion: DefaultAuxPoWActivationVersion},
	}
)

var chainParamsByName = map[string]ChainParams{
	MainNetParams.Name:         MainNetParams,
	TestNetParams.Name:         TestNetParams,
	RegTestParams.Name:         RegTestParams,
	DogecoinMainNetParams.Name: DogecoinMainNetParams,
	DogecoinTestNetParams.Name: DogecoinTestNetParams,
}

// ChainParamsByName returns the predefined parameters for a network name.
func ChainParamsByName(name string) (ChainParams, error) {
	params, ok := chainParamsByName[name]
	if !ok {
		return ChainParams{}, fmt.Errorf("unknown network: %s", name)
	}

	return params, nil
}

// MagicFromNet returns the frame magic of a libsv network identifier.
func MagicFromNet(net bsvwire.BitcoinNet) [4]byte {
	var magic [4]byte
	binary.LittleEndian.PutUint32(magic[:], uint32(net))

	return magic
}
