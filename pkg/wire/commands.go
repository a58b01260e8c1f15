package wire

// Commands as they appear NUL-padded in the message header.
const (
	CmdVersion    = "version"
	CmdVerAck     = "verack"
	CmdPing       = "ping"
	CmdPong       = "pong"
	CmdInv        = "inv"
	CmdGetData    = "getdata"
	CmdNotFound   = "notfound"
	CmdGetBlocks  = "getblocks"
	CmdGetHeaders = "getheaders"
	CmdTx         = "tx"
	CmdBlock      = "block"
)

// Payload is a message body that can be framed by NewMessageFromPayload.
type Payload interface {
	Command() string
	Serialize() []byte
}
