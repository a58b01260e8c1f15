package wire

import (
	"encoding/binary"
	"fmt"
	"net/netip"
	"strings"
)

// AddressSize is the wire size of an Address without timestamp: services 8 + ip 16 + port 2.
const AddressSize = 26

// ServiceFlag identifies services supported by a peer.
type ServiceFlag uint64

const (
	// SFNodeNetwork indicates a peer is a full node.
	SFNodeNetwork ServiceFlag = 1 << iota
	// SFNodeGetUTXO indicates a peer supports the getutxos and utxos commands (BIP0064).
	SFNodeGetUTXO
	// SFNodeBloom indicates a peer supports bloom filtering.
	SFNodeBloom
	// SFNodeWitness indicates a peer supports blocks and transactions including witness data (BIP0144).
	SFNodeWitness
)

// SFNodeNetworkLimited indicates a pruned peer serving only the last 288 blocks (BIP0159).
const SFNodeNetworkLimited ServiceFlag = 1 << 10

var orderedSFStrings = []struct {
	flag ServiceFlag
	name string
}{
	{SFNodeNetwork, "SFNodeNetwork"},
	{SFNodeGetUTXO, "SFNodeGetUTXO"},
	{SFNodeBloom, "SFNodeBloom"},
	{SFNodeWitness, "SFNodeWitness"},
	{SFNodeNetworkLimited, "SFNodeNetworkLimited"},
}

func (f ServiceFlag) String() string {
	if f == 0 {
		return "0x0"
	}

	var names []string
	for _, sf := range orderedSFStrings {
		if f&sf.flag == sf.flag {
			names = append(names, sf.name)
			f -= sf.flag
		}
	}

	if f != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint64(f)))
	}

	return strings.Join(names, "|")
}

// Address is a network endpoint as carried in version messages.
// IPv4 addresses are kept IPv4-mapped in the 16 byte IP field.
type Address struct {
	Services ServiceFlag
	IP       [16]byte
	Port     uint16
}

// NewAddress builds an Address from an ip:port pair.
func NewAddress(services ServiceFlag, addrPort netip.AddrPort) Address {
	return Address{
		Services: services,
		IP:       addrPort.Addr().As16(),
		Port:     addrPort.Port(),
	}
}

// AddrPort returns the endpoint with IPv4-mapped addresses unmapped.
func (a Address) AddrPort() netip.AddrPort {
	return netip.AddrPortFrom(netip.AddrFrom16(a.IP).Unmap(), a.Port)
}

func (a Address) String() string {
	return fmt.Sprintf("%s (%s)", a.AddrPort(), a.Services)
}

func (a Address) appendTo(b []byte) []byte {
	b = binary.LittleEndian.AppendUint64(b, uint64(a.Services))
	b = append(b, a.IP[:]...)
	// port is in network byte order
	return binary.BigEndian.AppendUint16(b, a.Port)
}

// Serialize returns the 26 byte wire form.
func (a Address) Serialize() []byte {
	return a.appendTo(make([]byte, 0, AddressSize))
}

// DecodeAddress reads an Address from the start of b.
func DecodeAddress(b []byte) (Address, int, error) {
	c := newCursor(b)

	a, err := readAddress(c, "address")
	if err != nil {
		return Address{}, 0, err
	}

	return a, c.pos, nil
}

func readAddress(c *cursor, field string) (Address, error) {
	if c.remaining() < AddressSize {
		return Address{}, truncated(field, AddressSize, c.remaining())
	}

	var a Address

	services, _ := c.readUint64(field)
	ip, _ := c.next(len(a.IP), field)
	port, _ := c.readUint16BE(field)

	a.Services = ServiceFlag(services)
	copy(a.IP[:], ip)
	a.Port = port

	return a, nil
}
