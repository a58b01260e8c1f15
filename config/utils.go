package config

import (
	"errors"
	"fmt"

	"github.com/bitcoin-sv/p2p-wire/pkg/wire"
)

var ErrConfigUnknownNetwork = errors.New("unknown network")

// GetChainParams resolves the configured network, applying the AuxPoW override if set.
func GetChainParams(cfg *P2PWireConfig) (wire.ChainParams, error) {
	params, err := wire.ChainParamsByName(cfg.Network)
	if err != nil {
		return wire.ChainParams{}, errors.Join(ErrConfigUnknownNetwork, fmt.Errorf("network: %s", cfg.Network))
	}

	if cfg.AuxPoW != nil && cfg.AuxPoW.Override {
		params.AuxPoW = wire.AuxPoWParams{
			Enabled:           cfg.AuxPoW.Enabled,
			ActivationVersion: cfg.AuxPoW.ActivationVersion,
		}
	}

	return params, nil
}
