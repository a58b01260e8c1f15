package decode

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bitcoin-sv/p2p-wire/cmd/p2pwire/app/helper"
	"github.com/bitcoin-sv/p2p-wire/pkg/wire"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

var Cmd = &cobra.Command{
	Use:   "decode [hex|-]",
	Short: "Decode a single hex encoded frame and dump its payload",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, params, logger, err := helper.Setup()
		if err != nil {
			return err
		}

		var in io.Reader = cmd.InOrStdin()
		if len(args) > 0 && args[0] != "-" {
			in = strings.NewReader(args[0])
		}

		frame, err := helper.DecodeHexInput(in)
		if err != nil {
			return err
		}

		return Run(cmd.Context(), cmd.OutOrStdout(), logger, frame, params.AuxPoW, viper.GetBool("decode.skipChecksum"))
	},
}

func init() {
	Cmd.Flags().Bool("skipChecksum", false, "Decode frames whose declared checksum does not match the payload")
	err := viper.BindPFlag("decode.skipChecksum", Cmd.Flags().Lookup("skipChecksum"))
	if err != nil {
		log.Fatal(err)
	}
}

// Run decodes frame, verifies its checksum and writes a dump of the payload to w.
func Run(ctx context.Context, w io.Writer, logger *slog.Logger, frame []byte, auxPoW wire.AuxPoWParams, skipChecksum bool) error {
	header, _, err := wire.DecodeMessageHeader(frame)
	if err != nil {
		return fmt.Errorf("failed to decode header: %w", err)
	}

	msg, n, err := wire.DecodeMessage(frame)
	if err != nil {
		return fmt.Errorf("failed to decode %s frame: %w", header.Command, err)
	}

	if n != len(frame) {
		logger.Warn("Ignoring bytes after frame", slog.Int("trailing", len(frame)-n))
	}

	err = msg.VerifyChecksum(header.Checksum)
	if err != nil {
		if !skipChecksum {
			return err
		}
		logger.Warn("Checksum mismatch", slog.String("err", err.Error()))
	}

	payload, err := wire.DecodePayload(msg.Command, msg.Payload, auxPoW)
	if err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", msg.Command, err)
	}

	attrs := []slog.Attr{slog.String("cmd", strings.ToUpper(msg.Command)), slog.Int("size", len(msg.Payload))}
	logger.LogAttrs(ctx, slog.LevelInfo, "Decoded", append(attrs, helper.PayloadAttrs(payload)...)...)

	dumper.Fdump(w, payload)

	return nil
}
