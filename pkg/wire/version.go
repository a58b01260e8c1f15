package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	// ProtocolVersion is the protocol version advertised by NewVersion.
	ProtocolVersion uint32 = 70016

	// versionFixedPrefixSize covers version, services, timestamp, both addresses and nonce.
	versionFixedPrefixSize = 4 + 8 + 8 + AddressSize + AddressSize + 8
)

// Version is the handshake payload each side sends when a connection opens.
type Version struct {
	Version     uint32
	Services    ServiceFlag
	Timestamp   uint64
	AddrRecv    Address
	AddrTrans   Address
	Nonce       uint64
	UserAgent   string
	StartHeight uint32
	Relay       bool
}

var _ Payload = (*Version)(nil)

// NewVersion returns a Version for ProtocolVersion with relay enabled.
func NewVersion(services ServiceFlag, timestamp uint64, recv, trans Address, nonce uint64, userAgent string, startHeight uint32) *Version {
	return &Version{
		Version:     ProtocolVersion,
		Services:    services,
		Timestamp:   timestamp,
		AddrRecv:    recv,
		AddrTrans:   trans,
		Nonce:       nonce,
		UserAgent:   userAgent,
		StartHeight: startHeight,
		Relay:       true,
	}
}

func (m *Version) Command() string {
	return CmdVersion
}

// HasService reports whether the sender advertised every bit of flag.
func (m *Version) HasService(flag ServiceFlag) bool {
	return m.Services&flag == flag
}

func (m *Version) SerializeSize() int {
	return versionFixedPrefixSize + CompactSizeLen(uint64(len(m.UserAgent))) + len(m.UserAgent) + 4 + 1
}

func (m *Version) Serialize() []byte {
	b := make([]byte, 0, m.SerializeSize())

	b = binary.LittleEndian.AppendUint32(b, m.Version)
	b = binary.LittleEndian.AppendUint64(b, uint64(m.Services))
	b = binary.LittleEndian.AppendUint64(b, m.Timestamp)
	b = m.AddrRecv.appendTo(b)
	b = m.AddrTrans.appendTo(b)
	b = binary.LittleEndian.AppendUint64(b, m.Nonce)
	b = AppendCompactSize(b, uint64(len(m.UserAgent)))
	b = append(b, m.UserAgent...)
	b = binary.LittleEndian.AppendUint32(b, m.StartHeight)

	var relay byte
	if m.Relay {
		relay = 1
	}

	return append(b, relay)
}

// DecodeVersion parses a version payload with a forward cursor; the user
// agent length is only known once its CompactSize prefix has been read.
func DecodeVersion(b []byte) (*Version, int, error) {
	c := newCursor(b)
	m := &Version{}

	if c.remaining() < versionFixedPrefixSize {
		return nil, 0, truncated("version", versionFixedPrefixSize, c.remaining())
	}

	m.Version, _ = c.readUint32("version")
	services, _ := c.readUint64("services")
	m.Services = ServiceFlag(services)
	m.Timestamp, _ = c.readUint64("timestamp")
	m.AddrRecv, _ = readAddress(c, "addr_recv")
	m.AddrTrans, _ = readAddress(c, "addr_trans")
	m.Nonce, _ = c.readUint64("nonce")

	userAgent, err := c.readVarBytes("user_agent")
	if err != nil {
		return nil, 0, err
	}

	if !utf8.Valid(userAgent) {
		return nil, 0, invalidEncoding("user_agent", errors.New("user agent is not valid UTF-8"))
	}
	m.UserAgent = string(userAgent)

	m.StartHeight, err = c.readUint32("start_height")
	if err != nil {
		return nil, 0, err
	}

	relay, err := c.readUint8("relay")
	if err != nil {
		return nil, 0, err
	}

	switch relay {
	case 0:
		m.Relay = false
	case 1:
		m.Relay = true
	default:
		return nil, 0, invalidEncoding("relay", fmt.Errorf("boolean byte 0x%02x", relay))
	}

	return m, c.pos, nil
}

// VerAck acknowledges a Version. It has an empty payload.
type VerAck struct{}

var _ Payload = (*VerAck)(nil)

func (m *VerAck) Command() string {
	return CmdVerAck
}

func (m *VerAck) Serialize() []byte {
	return []byte{}
}
