package config

import (
	"github.com/bitcoin-sv/p2p-wire/internal/p2p"
	"github.com/bitcoin-sv/p2p-wire/pkg/wire"
)

func getDefaultP2PWireConfig() *P2PWireConfig {
	return &P2PWireConfig{
		LogLevel:       "INFO",
		LogFormat:      "text",
		Network:        wire.MainNetParams.Name,
		AuxPoW:         getAuxPoWConfig(),
		MaxMessageSize: p2p.DefaultMaxMessageSize,
		ReadBufferSize: 4096,
		DecodeWorkers:  4,
		Prometheus:     getPrometheusConfig(),
		Tracing:        getTracingConfig(),
	}
}

func getAuxPoWConfig() *AuxPoWConfig {
	return &AuxPoWConfig{
		Override:          false,
		Enabled:           false,
		ActivationVersion: wire.DefaultAuxPoWActivationVersion,
	}
}

func getPrometheusConfig() *PrometheusConfig {
	return &PrometheusConfig{
		Enabled:  false,
		Endpoint: "/metrics",
		Addr:     ":2112",
	}
}

func getTracingConfig() *TracingConfig {
	return &TracingConfig{
		Enabled:  false,
		DialAddr: "http://localhost:4317",
		Sample:   100,
	}
}
