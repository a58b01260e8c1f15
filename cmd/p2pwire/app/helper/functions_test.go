package helper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitcoin-sv/p2p-wire/pkg/wire"
)

func TestDecodeHexInput(t *testing.T) {
	tt := []struct {
		name          string
		input         string
		expected      []byte
		expectedError error
	}{
		{
			name:     "trailing newline",
			input:    "0a0b\n",
			expected: []byte{0x0a, 0x0b},
		},
		{
			name:          "empty",
			input:         "  \n",
			expectedError: ErrEmptyInput,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			// when
			actual, err := DecodeHexInput(strings.NewReader(tc.input))

			// then
			require.ErrorIs(t, err, tc.expectedError)
			assert.Equal(t, tc.expected, actual)
		})
	}

	t.Run("not hex", func(t *testing.T) {
		_, err := DecodeHexInput(strings.NewReader("zz"))
		require.Error(t, err)
	})
}

func TestPayloadAttrs(t *testing.T) {
	// given
	block := wire.NewBlock(wire.BlockHeader{Version: 1}, nil, nil)

	// when
	attrs := PayloadAttrs(block)

	// then
	require.Len(t, attrs, 3)
	assert.Equal(t, "hash", attrs[0].Key)
	assert.Equal(t, block.Hash().String(), attrs[0].Value.String())
	assert.Equal(t, int64(0), attrs[1].Value.Int64())
	assert.Nil(t, PayloadAttrs(&wire.VerAck{}))
}
