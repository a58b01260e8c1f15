package wire

import (
	"github.com/libsv/go-p2p/chaincfg/chainhash"
)

// ChecksumSize is the number of leading double-SHA-256 bytes carried in a message header.
const ChecksumSize = 4

// DoubleHash returns SHA-256(SHA-256(b)).
func DoubleHash(b []byte) chainhash.Hash {
	return chainhash.DoubleHashH(b)
}

// Checksum returns the first four bytes of the double SHA-256 of b.
func Checksum(b []byte) [ChecksumSize]byte {
	var sum [ChecksumSize]byte

	h := DoubleHash(b)
	copy(sum[:], h[:ChecksumSize])

	return sum
}
