package testutils

import (
	"encoding/hex"
	"slices"
	"testing"

	"github.com/libsv/go-p2p/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

// RunParallel runs fn as a subtest, in parallel with its siblings if parallel is set.
func RunParallel(t *testing.T, parallel bool, name string, fn func(t *testing.T)) {
	t.Helper()

	t.Run(name, func(t *testing.T) {
		if parallel {
			t.Parallel()
		}

		fn(t)
	})
}

func HexDecodeString(t testing.TB, hexString string) []byte {
	t.Helper()

	b, err := hex.DecodeString(hexString)
	require.NoError(t, err)

	return b
}

func RevHexDecodeString(t testing.TB, hexString string) []byte {
	t.Helper()

	b := HexDecodeString(t, hexString)
	slices.Reverse(b)

	return b
}

// Chainhash parses a hash given in display (byte-reversed) order.
func Chainhash(t testing.TB, hashString string) chainhash.Hash {
	t.Helper()

	hash, err := chainhash.NewHashFromStr(hashString)
	require.NoError(t, err)

	return *hash
}

// RevChainhash builds a hash from hex given in wire order.
func RevChainhash(t testing.TB, hashString string) chainhash.Hash {
	t.Helper()

	hash, err := chainhash.NewHash(HexDecodeString(t, hashString))
	require.NoError(t, err)

	return *hash
}

// PtrTo returns a pointer to the given value.
func PtrTo[T any](v T) *T {
	return &v
}
