package encode

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/netip"
	"strings"
	"time"

	"github.com/ccoveille/go-safecast"
	"github.com/libsv/go-p2p/chaincfg/chainhash"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bitcoin-sv/p2p-wire/cmd/p2pwire/app/helper"
	"github.com/bitcoin-sv/p2p-wire/pkg/wire"
)

var ErrUnknownKind = errors.New("unknown message kind")

type Options struct {
	Nonce       uint64
	Inventory   []string
	UserAgent   string
	StartHeight int64
	Services    uint64
	Peer        string
	Now         time.Time
}

var Cmd = &cobra.Command{
	Use:       "encode verack|ping|getdata|version",
	Short:     "Build a frame for the configured network and print it as hex",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{wire.CmdVerAck, wire.CmdPing, wire.CmdGetData, wire.CmdVersion},
	RunE: func(cmd *cobra.Command, args []string) error {
		_, params, logger, err := helper.Setup()
		if err != nil {
			return err
		}

		payload, err := Build(args[0], Options{
			Nonce:       viper.GetUint64("encode.nonce"),
			Inventory:   viper.GetStringSlice("encode.inv"),
			UserAgent:   viper.GetString("encode.userAgent"),
			StartHeight: viper.GetInt64("encode.startHeight"),
			Services:    viper.GetUint64("encode.services"),
			Peer:        viper.GetString("encode.peer"),
			Now:         time.Now(),
		})
		if err != nil {
			return err
		}

		msg := wire.NewMessageFromPayload(params.Magic, payload)
		logger.Debug("Encoded", slog.String("cmd", strings.ToUpper(msg.Command)), slog.Int("size", len(msg.Payload)))

		_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(msg.Serialize()))

		return err
	},
}

func init() {
	var err error

	Cmd.Flags().Uint64("nonce", 0, "Nonce for ping and version")
	err = viper.BindPFlag("encode.nonce", Cmd.Flags().Lookup("nonce"))
	if err != nil {
		log.Fatal(err)
	}

	Cmd.Flags().StringSlice("inv", []string{}, "Inventory for getdata as type:hash, type one of tx, block, filtered, compact")
	err = viper.BindPFlag("encode.inv", Cmd.Flags().Lookup("inv"))
	if err != nil {
		log.Fatal(err)
	}

	Cmd.Flags().String("userAgent", "/p2pwire:0.1.0/", "User agent for version")
	err = viper.BindPFlag("encode.userAgent", Cmd.Flags().Lookup("userAgent"))
	if err != nil {
		log.Fatal(err)
	}

	Cmd.Flags().Int64("startHeight", 0, "Start height for version")
	err = viper.BindPFlag("encode.startHeight", Cmd.Flags().Lookup("startHeight"))
	if err != nil {
		log.Fatal(err)
	}

	Cmd.Flags().Uint64("services", uint64(wire.SFNodeNetwork), "Service bits for version")
	err = viper.BindPFlag("encode.services", Cmd.Flags().Lookup("services"))
	if err != nil {
		log.Fatal(err)
	}

	Cmd.Flags().String("peer", "127.0.0.1:8333", "Receiving peer address for version")
	err = viper.BindPFlag("encode.peer", Cmd.Flags().Lookup("peer"))
	if err != nil {
		log.Fatal(err)
	}
}

// Build returns the payload of the given kind.
func Build(kind string, opts Options) (wire.Payload, error) {
	switch kind {
	case wire.CmdVerAck:
		return &wire.VerAck{}, nil
	case wire.CmdPing:
		return wire.NewPing(opts.Nonce), nil
	case wire.CmdGetData:
		inventory, err := parseInventory(opts.Inventory)
		if err != nil {
			return nil, err
		}
		return wire.NewGetData(inventory), nil
	case wire.CmdVersion:
		return buildVersion(opts)
	}

	return nil, errors.Join(ErrUnknownKind, fmt.Errorf("kind: %s", kind))
}

func buildVersion(opts Options) (*wire.Version, error) {
	peer, err := netip.ParseAddrPort(opts.Peer)
	if err != nil {
		return nil, fmt.Errorf("invalid peer address: %w", err)
	}

	startHeight, err := safecast.ToUint32(opts.StartHeight)
	if err != nil {
		return nil, fmt.Errorf("invalid start height: %w", err)
	}

	timestamp, err := safecast.ToUint64(opts.Now.Unix())
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp: %w", err)
	}

	services := wire.ServiceFlag(opts.Services)
	recv := wire.NewAddress(wire.SFNodeNetwork, peer)
	trans := wire.NewAddress(services, netip.AddrPortFrom(netip.IPv4Unspecified(), 0))

	return wire.NewVersion(services, timestamp, recv, trans, opts.Nonce, opts.UserAgent, startHeight), nil
}

var invTypes = map[string]wire.InvType{
	"tx":       wire.InvTypeTx,
	"block":    wire.InvTypeBlock,
	"filtered": wire.InvTypeFilteredBlock,
	"compact":  wire.InvTypeCompactBlock,
}

// parseInventory parses type:hash pairs, hashes given in display order.
func parseInventory(entries []string) ([]wire.Inventory, error) {
	inventory := make([]wire.Inventory, 0, len(entries))

	for _, entry := range entries {
		typ, hashStr, found := strings.Cut(entry, ":")
		if !found {
			return nil, fmt.Errorf("invalid inventory %q, expected type:hash", entry)
		}

		invType, ok := invTypes[typ]
		if !ok {
			return nil, fmt.Errorf("invalid inventory type %q", typ)
		}

		hash, err := chainhash.NewHashFromStr(hashStr)
		if err != nil {
			return nil, fmt.Errorf("invalid inventory hash %q: %w", hashStr, err)
		}

		inventory = append(inventory, wire.NewInventory(invType, *hash))
	}

	return inventory, nil
}
