package wire

// GetData requests the objects listed in Inventory. The wire count is always
// derived from len(Inventory).
type GetData struct {
	Inventory []Inventory
}

var _ Payload = (*GetData)(nil)

func NewGetData(inventory []Inventory) *GetData {
	return &GetData{Inventory: inventory}
}

func (m *GetData) Command() string {
	return CmdGetData
}

// Count returns the number of inventory records written on the wire.
func (m *GetData) Count() uint64 {
	return uint64(len(m.Inventory))
}

// Serialize returns CompactSize(count) followed by the 36 byte inventory records.
func (m *GetData) Serialize() []byte {
	return appendInventoryList(make([]byte, 0, inventoryListSize(m.Inventory)), m.Inventory)
}

func DecodeGetData(b []byte) (*GetData, int, error) {
	c := newCursor(b)

	list, err := readInventoryList(c)
	if err != nil {
		return nil, 0, err
	}

	return &GetData{Inventory: list}, c.pos, nil
}

// Inv announces objects the sender has. Same layout as GetData.
type Inv struct {
	Inventory []Inventory
}

var _ Payload = (*Inv)(nil)

func NewInv(inventory []Inventory) *Inv {
	return &Inv{Inventory: inventory}
}

func (m *Inv) Command() string {
	return CmdInv
}

func (m *Inv) Count() uint64 {
	return uint64(len(m.Inventory))
}

func (m *Inv) Serialize() []byte {
	return appendInventoryList(make([]byte, 0, inventoryListSize(m.Inventory)), m.Inventory)
}

func DecodeInv(b []byte) (*Inv, int, error) {
	c := newCursor(b)

	list, err := readInventoryList(c)
	if err != nil {
		return nil, 0, err
	}

	return &Inv{Inventory: list}, c.pos, nil
}

// NotFound answers a GetData with the objects the sender could not provide.
type NotFound struct {
	Inventory []Inventory
}

var _ Payload = (*NotFound)(nil)

func NewNotFound(inventory []Inventory) *NotFound {
	return &NotFound{Inventory: inventory}
}

func (m *NotFound) Command() string {
	return CmdNotFound
}

func (m *NotFound) Count() uint64 {
	return uint64(len(m.Inventory))
}

func (m *NotFound) Serialize() []byte {
	return appendInventoryList(make([]byte, 0, inventoryListSize(m.Inventory)), m.Inventory)
}

func DecodeNotFound(b []byte) (*NotFound, int, error) {
	c := newCursor(b)

	list, err := readInventoryList(c)
	if err != nil {
		return nil, 0, err
	}

	return &NotFound{Inventory: list}, c.pos, nil
}
