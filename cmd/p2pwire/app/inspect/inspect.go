package inspect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bitcoin-sv/p2p-wire/cmd/p2pwire/app/helper"
	"github.com/bitcoin-sv/p2p-wire/internal/p2p"
	"github.com/bitcoin-sv/p2p-wire/internal/tracing"
	"github.com/bitcoin-sv/p2p-wire/pkg/wire"
)

const serviceName = "p2pwire"

var Cmd = &cobra.Command{
	Use:   "inspect [file|-]",
	Short: "Read a stream of raw frames and log a summary of each",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, params, logger, err := helper.Setup()
		if err != nil {
			return err
		}

		var arg string
		if len(args) > 0 {
			arg = args[0]
		}

		in, err := helper.OpenInput(arg, cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer in.Close()

		if cfg.Prometheus.IsEnabled() {
			go func() {
				logger.Info("Starting prometheus", slog.String("endpoint", cfg.Prometheus.Endpoint))
				http.Handle(cfg.Prometheus.Endpoint, promhttp.Handler())
				err := http.ListenAndServe(cfg.Prometheus.Addr, nil)
				if err != nil {
					logger.Error("failed to start prometheus server", slog.String("err", err.Error()))
				}
			}()
		}

		tracingEnabled := cfg.Tracing.IsEnabled()
		if tracingEnabled {
			cleanup, err := tracing.Enable(logger, serviceName, cfg.Tracing.DialAddr, cfg.Tracing.Sample)
			if err != nil {
				logger.Error("failed to enable tracing", slog.String("err", err.Error()))
				tracingEnabled = false
			} else {
				defer cleanup()
			}
		}

		metrics, err := p2p.NewMetrics(prometheus.DefaultRegisterer)
		if err != nil {
			return err
		}

		reader := p2p.NewWireReader(in, params.Magic,
			p2p.WithMaximumMessageSize(cfg.MaxMessageSize),
			p2p.WithReadBufferSize(cfg.ReadBufferSize),
			p2p.WithMetrics(metrics),
			p2p.WithLogger(logger),
		)

		summary, err := Inspect(cmd.Context(), logger, reader, Options{
			AuxPoW:         params.AuxPoW,
			Workers:        cfg.DecodeWorkers,
			TracingEnabled: tracingEnabled,
		})

		logger.Info("Inspection finished",
			slog.Int("frames", summary.Frames),
			slog.Int("decoded", summary.Decoded),
			slog.Int("failed", summary.Failed),
			slog.Int("checksumMismatches", summary.ChecksumMismatches),
		)

		return err
	},
}

type MessageReader interface {
	ReadNextMsg(ctx context.Context) (*wire.Message, error)
}

type Options struct {
	AuxPoW         wire.AuxPoWParams
	Workers        int
	TracingEnabled bool
}

// Summary counts what Inspect has seen.
type Summary struct {
	Frames             int
	Decoded            int
	Failed             int
	ChecksumMismatches int
	ByCommand          map[string]int
}

type counter struct {
	mu      sync.Mutex
	summary Summary
}

func (c *counter) add(command string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.summary.Frames++
	if err != nil {
		c.summary.Failed++
		return
	}

	c.summary.Decoded++
	c.summary.ByCommand[command]++
}

func (c *counter) checksumMismatch() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.summary.Frames++
	c.summary.ChecksumMismatches++
}

// Inspect reads frames from r until EOF and decodes their payloads on up to
// opts.Workers goroutines. Frames failing their checksum are counted and
// skipped; any other read error ends the inspection.
func Inspect(ctx context.Context, logger *slog.Logger, r MessageReader, opts Options) (Summary, error) {
	c := &counter{summary: Summary{ByCommand: map[string]int{}}}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var readErr error
	for {
		msg, err := r.ReadNextMsg(gctx)
		if err != nil {
			if errors.Is(err, p2p.ErrChecksumMismatch) {
				c.checksumMismatch()
				continue
			}
			if !errors.Is(err, io.EOF) {
				readErr = err
			}
			break
		}

		g.Go(func() error {
			decodeFrame(gctx, logger, msg, opts, c)
			return nil
		})
	}

	_ = g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.summary, readErr
}

func decodeFrame(ctx context.Context, logger *slog.Logger, msg *wire.Message, opts Options, c *counter) {
	var err error
	ctx, span := tracing.StartTracing(ctx, "decodeFrame", opts.TracingEnabled, tracing.FrameAttributes(msg)...)
	defer func() {
		tracing.EndTracing(span, err)
	}()

	payload, err := wire.DecodePayload(msg.Command, msg.Payload, opts.AuxPoW)
	c.add(msg.Command, err)

	attrs := []slog.Attr{slog.String("cmd", strings.ToUpper(msg.Command)), slog.Int("size", len(msg.Payload))}
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelWarn, "Failed to decode payload", append(attrs, slog.String("err", err.Error()))...)
		return
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Frame", append(attrs, helper.PayloadAttrs(payload)...)...)
}
