package p2p

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/bitcoin-sv/p2p-wire/pkg/wire"
)

const (
	// DefaultMaxMessageSize is the largest payload accepted unless overridden.
	DefaultMaxMessageSize int64 = 32 * 1024 * 1024

	defaultReadBufferSize = 4096
)

var (
	ErrMagicMismatch    = errors.New("frame magic does not match network")
	ErrMessageTooLarge  = errors.New("frame payload exceeds maximum message size")
	ErrChecksumMismatch = wire.ErrChecksumMismatch
)

type WireReaderOption func(r *WireReader)

func WithMaximumMessageSize(maximumMessageSize int64) WireReaderOption {
	return func(r *WireReader) {
		r.maxMsgSize = maximumMessageSize
	}
}

func WithReadBufferSize(size int) WireReaderOption {
	return func(r *WireReader) {
		r.readBuffSize = size
	}
}

func WithMetrics(m *Metrics) WireReaderOption {
	return func(r *WireReader) {
		r.metrics = m
	}
}

func WithLogger(logger *slog.Logger) WireReaderOption {
	return func(r *WireReader) {
		r.logger = logger
	}
}

// WireReader reads checksum-verified frames of a single network from a byte stream.
type WireReader struct {
	bufio.Reader
	limitedReader *io.LimitedReader

	magic        [4]byte
	maxMsgSize   int64
	readBuffSize int
	metrics      *Metrics
	logger       *slog.Logger
}

func NewWireReader(r io.Reader, magic [4]byte, opts ...WireReaderOption) *WireReader {
	wr := &WireReader{
		magic:        magic,
		maxMsgSize:   DefaultMaxMessageSize,
		readBuffSize: defaultReadBufferSize,
		logger:       slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(wr)
	}

	wr.limitedReader = &io.LimitedReader{R: r}
	wr.resetLimit()
	wr.Reader = *bufio.NewReaderSize(wr.limitedReader, wr.readBuffSize)

	return wr
}

// ReadNextMsg blocks until the next frame has been read or ctx is done.
func (r *WireReader) ReadNextMsg(ctx context.Context) (*wire.Message, error) {
	result := make(chan readResult, 1)
	go handleRead(r, result)

	// block until read complete or context is canceled
	select {
	case <-ctx.Done():
		return nil, ctx.Err()

	case readMsg := <-result:
		return readMsg.msg, readMsg.err
	}
}

// resetLimit allows one full frame plus what the buffer may have read ahead.
func (r *WireReader) resetLimit() {
	r.limitedReader.N = wire.MessageHeaderSize + r.maxMsgSize + int64(r.readBuffSize)
}

type readResult struct {
	msg *wire.Message
	err error
}

func handleRead(r *WireReader, result chan<- readResult) {
	msg, err := r.readMsg()
	r.resetLimit()

	result <- readResult{msg, err}
}

func (r *WireReader) readMsg() (*wire.Message, error) {
	frame := make([]byte, wire.MessageHeaderSize)

	_, err := io.ReadFull(r, frame)
	if err != nil {
		r.metrics.frameRejected(rejectReasonRead)
		return nil, err
	}

	header, _, err := wire.DecodeMessageHeader(frame)
	if err != nil {
		r.metrics.frameRejected(rejectReasonRead)
		return nil, err
	}

	if header.Magic != r.magic {
		r.metrics.frameRejected(rejectReasonMagic)
		return nil, fmt.Errorf("%w: got %x, expected %x", ErrMagicMismatch, header.Magic, r.magic)
	}

	if int64(header.Size) > r.maxMsgSize {
		r.metrics.frameRejected(rejectReasonSize)
		return nil, fmt.Errorf("%w: %s payload of %d bytes, maximum %d", ErrMessageTooLarge, header.Command, header.Size, r.maxMsgSize)
	}

	frame = append(frame, make([]byte, header.Size)...)
	_, err = io.ReadFull(r, frame[wire.MessageHeaderSize:])
	if err != nil {
		r.metrics.frameRejected(rejectReasonRead)
		return nil, err
	}

	msg, _, err := wire.DecodeMessage(frame)
	if err != nil {
		r.metrics.frameRejected(rejectReasonRead)
		return nil, err
	}

	err = msg.VerifyChecksum(header.Checksum)
	if err != nil {
		r.metrics.frameRejected(rejectReasonChecksum)
		r.logger.Warn("Dropping frame", slogUpperString(commandKey, msg.Command), slog.String(errKey, err.Error()))
		return nil, err
	}

	r.metrics.frameRead(msg.Command, len(msg.Payload))
	r.logger.Log(context.Background(), slogLvlTrace, "Read frame", slogUpperString(commandKey, msg.Command), slog.Int("size", len(msg.Payload)))

	return msg, nil
}
