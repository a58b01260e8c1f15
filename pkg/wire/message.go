package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/ccoveille/go-safecast"
)

const (
	// CommandSize is the fixed width of the NUL-padded command field.
	CommandSize = 12

	// MessageHeaderSize is magic 4 + command 12 + size 4 + checksum 4.
	MessageHeaderSize = 4 + CommandSize + 4 + ChecksumSize
)

// MessageHeader is the fixed 24 byte prefix of a frame as declared on the wire.
type MessageHeader struct {
	Magic    [4]byte
	Command  string
	Size     uint32
	Checksum [ChecksumSize]byte
}

// DecodeMessageHeader reads the 24 byte frame header from the start of b.
func DecodeMessageHeader(b []byte) (*MessageHeader, int, error) {
	c := newCursor(b)

	if c.remaining() < MessageHeaderSize {
		return nil, 0, truncated("message header", MessageHeaderSize, c.remaining())
	}

	h := &MessageHeader{}
	h.Magic, _ = c.readArray4("magic")
	command, _ := c.next(CommandSize, "command")
	h.Size, _ = c.readUint32("size")
	h.Checksum, _ = c.readArray4("checksum")

	command = bytes.TrimRight(command, "\x00")
	if !utf8.Valid(command) {
		return nil, 0, invalidEncoding("command", errors.New("command is not valid UTF-8"))
	}
	h.Command = string(command)

	return h, c.pos, nil
}

// Message is a framed payload. Size and Checksum always describe Payload.
type Message struct {
	Magic    [4]byte
	Command  string
	Size     uint32
	Checksum [ChecksumSize]byte
	Payload  []byte
}

// NewMessage frames payload, computing its size and checksum. Commands longer
// than CommandSize bytes are truncated at the last rune boundary that fits.
func NewMessage(magic [4]byte, command string, payload []byte) *Message {
	if len(command) > CommandSize {
		n := CommandSize
		for n > 0 && !utf8.RuneStart(command[n]) {
			n--
		}
		command = command[:n]
	}

	return &Message{
		Magic:    magic,
		Command:  command,
		Size:     uint32(len(payload)), // #nosec G115
		Checksum: Checksum(payload),
		Payload:  payload,
	}
}

// NewMessageFromPayload frames the serialized form of p.
func NewMessageFromPayload(magic [4]byte, p Payload) *Message {
	return NewMessage(magic, p.Command(), p.Serialize())
}

func (m *Message) Header() MessageHeader {
	return MessageHeader{Magic: m.Magic, Command: m.Command, Size: m.Size, Checksum: m.Checksum}
}

func (m *Message) SerializeSize() int {
	return MessageHeaderSize + len(m.Payload)
}

func (m *Message) Serialize() []byte {
	b := make([]byte, 0, m.SerializeSize())

	b = append(b, m.Magic[:]...)

	var command [CommandSize]byte
	copy(command[:], m.Command)
	b = append(b, command[:]...)

	b = binary.LittleEndian.AppendUint32(b, m.Size)
	b = append(b, m.Checksum[:]...)

	return append(b, m.Payload...)
}

// VerifyChecksum compares the checksum recomputed from the payload with the
// one declared on the wire.
func (m *Message) VerifyChecksum(declared [ChecksumSize]byte) error {
	if m.Checksum != declared {
		return fmt.Errorf("%w: declared %x, computed %x", ErrChecksumMismatch, declared, m.Checksum)
	}

	return nil
}

// DecodeMessage reads a frame from the start of b. The payload is copied out
// and the checksum is recomputed from it; compare against the declared one
// with VerifyChecksum(header.Checksum).
func DecodeMessage(b []byte) (*Message, int, error) {
	header, n, err := DecodeMessageHeader(b)
	if err != nil {
		return nil, 0, err
	}

	c := newCursor(b)
	c.advance(n)

	size, err := safecast.ToInt(header.Size)
	if err != nil {
		return nil, 0, malformedLength("size", err)
	}

	raw, err := c.next(size, "payload")
	if err != nil {
		return nil, 0, err
	}

	payload := make([]byte, size)
	copy(payload, raw)

	return &Message{
		Magic:    header.Magic,
		Command:  header.Command,
		Size:     header.Size,
		Checksum: Checksum(payload),
		Payload:  payload,
	}, c.pos, nil
}
