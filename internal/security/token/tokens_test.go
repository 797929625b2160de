package tokens

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNumericCodeRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		c, err := NumericCode(6)
		require.NoError(t, err)
		require.Len(t, c, 6)
		n, err := strconv.Atoi(c)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 100000)
		require.LessOrEqual(t, n, 999999)
	}
	_, err := NumericCode(0)
	require.Error(t, err)
}

func TestSHA256Hex(t *testing.T) {
	require.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", SHA256Hex(""))
	require.Len(t, SHA256Hex("refresh"), 64)
}

func TestGenerateOpaqueToken(t *testing.T) {
	a, err := GenerateOpaqueToken(32)
	require.NoError(t, err)
	b, err := GenerateOpaqueToken(32)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
	require.Len(t, a, 43)
}
