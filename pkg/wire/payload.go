package wire

import (
	"fmt"
)

// DecodePayload selects the decoder for command and decodes payload with it.
// The payload must be consumed exactly.
func DecodePayload(command string, payload []byte, auxPoW AuxPoWParams) (Payload, error) {
	var (
		p   Payload
		n   int
		err error
	)

	switch command {
	case CmdVersion:
		p, n, err = DecodeVersion(payload)
	case CmdVerAck:
		p = &VerAck{}
	case CmdPing:
		p, n, err = DecodePing(payload)
	case CmdPong:
		p, n, err = DecodePong(payload)
	case CmdInv:
		p, n, err = DecodeInv(payload)
	case CmdGetData:
		p, n, err = DecodeGetData(payload)
	case CmdNotFound:
		p, n, err = DecodeNotFound(payload)
	case CmdGetBlocks:
		p, n, err = DecodeGetBlocks(payload)
	case CmdGetHeaders:
		p, n, err = DecodeGetHeaders(payload)
	case CmdTx:
		p, n, err = DecodeTx(payload)
	case CmdBlock:
		p, n, err = DecodeBlock(payload, auxPoW)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}

	if err != nil {
		return nil, err
	}

	if n != len(payload) {
		return nil, malformedLength(command, fmt.Errorf("%d trailing bytes after payload", len(payload)-n))
	}

	return p, nil
}
