package wire

import (
	"encoding/binary"
)

const nonceSize = 8

// Ping carries a nonce the peer must echo back in a Pong.
type Ping struct {
	Nonce uint64
}

var _ Payload = (*Ping)(nil)

func NewPing(nonce uint64) *Ping {
	return &Ping{Nonce: nonce}
}

func (m *Ping) Command() string {
	return CmdPing
}

func (m *Ping) Serialize() []byte {
	return binary.LittleEndian.AppendUint64(make([]byte, 0, nonceSize), m.Nonce)
}

func DecodePing(b []byte) (*Ping, int, error) {
	c := newCursor(b)

	nonce, err := c.readUint64("nonce")
	if err != nil {
		return nil, 0, err
	}

	return &Ping{Nonce: nonce}, c.pos, nil
}

// Pong answers a Ping with the same nonce.
type Pong struct {
	Nonce uint64
}

var _ Payload = (*Pong)(nil)

func NewPong(nonce uint64) *Pong {
	return &Pong{Nonce: nonce}
}

func (m *Pong) Command() string {
	return CmdPong
}

func (m *Pong) Serialize() []byte {
	return binary.LittleEndian.AppendUint64(make([]byte, 0, nonceSize), m.Nonce)
}

func DecodePong(b []byte) (*Pong, int, error) {
	c := newCursor(b)

	nonce, err := c.readUint64("nonce")
	if err != nil {
		return nil, 0, err
	}

	return &Pong{Nonce: nonce}, c.pos, nil
}
