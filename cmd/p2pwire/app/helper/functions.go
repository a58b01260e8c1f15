package helper

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/bitcoin-sv/p2p-wire/config"
	"github.com/bitcoin-sv/p2p-wire/internal/logger"
	"github.com/bitcoin-sv/p2p-wire/pkg/wire"
)

var ErrEmptyInput = errors.New("empty input")

// Setup loads the configuration and builds the logger and chain parameters from it.
func Setup() (*config.P2PWireConfig, wire.ChainParams, *slog.Logger, error) {
	cfg, err := config.Load(viper.GetString("configDir"))
	if err != nil {
		return nil, wire.ChainParams{}, nil, fmt.Errorf("failed to load config: %w", err)
	}

	params, err := config.GetChainParams(cfg)
	if err != nil {
		return nil, wire.ChainParams{}, nil, err
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, wire.ChainParams{}, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return cfg, params, log.With(slog.String("network", params.Name)), nil
}

// OpenInput returns stdin for "-" or an empty argument, the named file otherwise.
func OpenInput(arg string, stdin io.Reader) (io.ReadCloser, error) {
	if arg == "" || arg == "-" {
		return io.NopCloser(stdin), nil
	}

	return os.Open(arg)
}

// DecodeHexInput decodes hex read from r, ignoring surrounding whitespace.
func DecodeHexInput(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, ErrEmptyInput
	}

	b := make([]byte, hex.DecodedLen(len(raw)))
	_, err = hex.Decode(b, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}

	return b, nil
}

// PayloadAttrs summarises a decoded payload for a log line.
func PayloadAttrs(p wire.Payload) []slog.Attr {
	switch m := p.(type) {
	case *wire.Version:
		return []slog.Attr{
			slog.Uint64("version", uint64(m.Version)),
			slog.String("userAgent", m.UserAgent),
			slog.Uint64("startHeight", uint64(m.StartHeight)),
			slog.String("services", m.Services.String()),
		}
	case *wire.Ping:
		return []slog.Attr{slog.Uint64("nonce", m.Nonce)}
	case *wire.Pong:
		return []slog.Attr{slog.Uint64("nonce", m.Nonce)}
	case *wire.Inv:
		return inventoryAttrs(m.Inventory)
	case *wire.GetData:
		return inventoryAttrs(m.Inventory)
	case *wire.NotFound:
		return inventoryAttrs(m.Inventory)
	case *wire.GetBlocks:
		return []slog.Attr{slog.Int("locators", len(m.Hashes)), slog.String("hashStop", m.HashStop.String())}
	case *wire.GetHeaders:
		return []slog.Attr{slog.Int("locators", len(m.Hashes)), slog.String("hashStop", m.HashStop.String())}
	case *wire.Tx:
		return []slog.Attr{
			slog.String("hash", m.TxID().String()),
			slog.Int("inputs", len(m.TxIn)),
			slog.Int("outputs", len(m.TxOut)),
		}
	case *wire.Block:
		return []slog.Attr{
			slog.String("hash", m.Hash().String()),
			slog.Int("txs", len(m.Transactions)),
			slog.Bool("auxPoW", m.AuxPoW != nil),
		}
	}

	return nil
}

func inventoryAttrs(list []wire.Inventory) []slog.Attr {
	attrs := []slog.Attr{slog.Int("count", len(list))}
	if len(list) > 0 {
		attrs = append(attrs, slog.String("first", list[0].String()))
	}

	return attrs
}
