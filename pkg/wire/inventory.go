package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/libsv/go-p2p/chaincfg/chainhash"
)

// InventorySize is the wire size of an Inventory: type 4 + hash 32.
const InventorySize = 4 + chainhash.HashSize

// InvType is the kind of object an Inventory refers to.
type InvType uint32

const (
	InvTypeError         InvType = 0
	InvTypeTx            InvType = 1
	InvTypeBlock         InvType = 2
	InvTypeFilteredBlock InvType = 3
	InvTypeCompactBlock  InvType = 4
)

var ivStrings = map[InvType]string{
	InvTypeError:         "ERROR",
	InvTypeTx:            "MSG_TX",
	InvTypeBlock:         "MSG_BLOCK",
	InvTypeFilteredBlock: "MSG_FILTERED_BLOCK",
	InvTypeCompactBlock:  "MSG_CMPCT_BLOCK",
}

func (t InvType) String() string {
	if s, ok := ivStrings[t]; ok {
		return s
	}

	return fmt.Sprintf("Unknown InvType (%d)", uint32(t))
}

// Inventory references an object by type and hash. Hash is kept in wire order.
type Inventory struct {
	Type InvType
	Hash chainhash.Hash
}

func NewInventory(typ InvType, hash chainhash.Hash) Inventory {
	return Inventory{Type: typ, Hash: hash}
}

func (iv Inventory) String() string {
	return fmt.Sprintf("%s %s", iv.Type, iv.Hash)
}

func (iv Inventory) appendTo(b []byte) []byte {
	b = binary.LittleEndian.AppendUint32(b, uint32(iv.Type))
	return append(b, iv.Hash[:]...)
}

// Serialize returns the 36 byte wire form.
func (iv Inventory) Serialize() []byte {
	return iv.appendTo(make([]byte, 0, InventorySize))
}

// DecodeInventory reads an Inventory from the start of b.
func DecodeInventory(b []byte) (Inventory, int, error) {
	c := newCursor(b)

	iv, err := readInventory(c, "inventory")
	if err != nil {
		return Inventory{}, 0, err
	}

	return iv, c.pos, nil
}

func readInventory(c *cursor, field string) (Inventory, error) {
	if c.remaining() < InventorySize {
		return Inventory{}, truncated(field, InventorySize, c.remaining())
	}

	typ, _ := c.readUint32(field)
	hash, _ := c.readHash(field)

	return Inventory{Type: InvType(typ), Hash: hash}, nil
}

func appendInventoryList(b []byte, list []Inventory) []byte {
	b = AppendCompactSize(b, uint64(len(list)))
	for _, iv := range list {
		b = iv.appendTo(b)
	}

	return b
}

func inventoryListSize(list []Inventory) int {
	return CompactSizeLen(uint64(len(list))) + len(list)*InventorySize
}

// readInventoryList reads CompactSize(count) followed by count inventory
// records; all count*36 bytes must be present.
func readInventoryList(c *cursor) ([]Inventory, error) {
	const field = "inventory"

	count, err := c.readCount("inventory count")
	if err != nil {
		return nil, err
	}

	if err := c.ensureElements(field, count, InventorySize); err != nil {
		return nil, err
	}

	list := make([]Inventory, 0, count)
	for range count {
		iv, err := readInventory(c, field)
		if err != nil {
			return nil, err
		}
		list = append(list, iv)
	}

	return list, nil
}
