package cryptox_test

import (
	"crypto/ed25519"
	"encoding/pem"
	"testing"

	"github.com/aussiebroadwan/propdesk/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestEd25519RoundTrip(t *testing.T) {
	pemBytes, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	block, _ := pem.Decode(pemBytes)
	require.NotNil(t, block)
	require.Equal(t, "PRIVATE KEY", block.Type)

	key, err := cryptox.ParseEd25519Key(pemBytes)
	require.NoError(t, err)
	require.Len(t, key, ed25519.PrivateKeySize)

	msg := []byte("session ticket")
	sig := ed25519.Sign(key, msg)
	require.True(t, ed25519.Verify(key.Public().(ed25519.PublicKey), msg, sig))
}

func TestParseEd25519KeyRejects(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{"not pem", []byte("hello")},
		{"wrong block type", pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: []byte{1, 2, 3}})},
		{"garbage der", pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: []byte{1, 2, 3}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cryptox.ParseEd25519Key(tt.in)
			require.Error(t, err)
		})
	}
}
