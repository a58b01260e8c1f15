package p2p

import (
	"io"

	"github.com/bitcoin-sv/p2p-wire/pkg/wire"
)

// WriteMessage frames p for the network identified by magic and writes it to w.
func WriteMessage(w io.Writer, magic [4]byte, p wire.Payload) (int, error) {
	return w.Write(wire.NewMessageFromPayload(magic, p).Serialize())
}
