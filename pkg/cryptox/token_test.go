package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	for _, size := range []int{TokenSize128, TokenSize256, 24} {
		a, err := GenerateToken(size)
		require.NoError(t, err)
		b, err := GenerateToken(size)
		require.NoError(t, err)
		require.NotEqual(t, a, b, "tokens should be unique")
	}

	require.Len(t, mustToken(t, TokenSize256), 43)
}

func TestGenerateToken_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		token, err := GenerateToken(size)
		require.Error(t, err)
		require.Empty(t, token)
	}
}

func TestFingerprintToken(t *testing.T) {
	require.Equal(t, FingerprintToken("a"), FingerprintToken("a"))
	require.NotEqual(t, FingerprintToken("a"), FingerprintToken("b"))
	require.Len(t, FingerprintToken("a"), 43)
}

func TestTokensEqual(t *testing.T) {
	require.True(t, TokensEqual("bootstrap", "bootstrap"))
	require.False(t, TokensEqual("bootstrap", "bootstrap2"))
	require.False(t, TokensEqual("", "x"))
}

func mustToken(t *testing.T, size int) string {
	t.Helper()
	tok, err := GenerateToken(size)
	require.NoError(t, err)
	return tok
}
